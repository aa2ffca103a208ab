package bam

import (
	"bytes"
	"testing"

	"github.com/contigio/gbam/encoding/bgzf"
	"github.com/stretchr/testify/require"
)

// buildBai serializes a minimal .bai stream for one reference with the
// given bins (BinNum -> chunk list) and linear index.
func buildBai(bins map[uint32][]bgzf.Chunk, intervals []bgzf.Offset) []byte {
	var buf bytes.Buffer
	buf.Write(indexMagic[:])
	buf.Write(int32le(1)) // n_ref

	buf.Write(int32le(int32(len(bins))))
	for binNum, chunks := range bins {
		buf.Write(uint32le(binNum))
		buf.Write(int32le(int32(len(chunks))))
		for _, c := range chunks {
			buf.Write(uint64le(uint64(c.Begin)))
			buf.Write(uint64le(uint64(c.End)))
		}
	}

	buf.Write(int32le(int32(len(intervals))))
	for _, iv := range intervals {
		buf.Write(uint64le(uint64(iv)))
	}
	return buf.Bytes()
}

func uint64le(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
	return b
}

func TestReg2BinAndBinToRegionInverse(t *testing.T) {
	cases := []struct{ beg, end int32 }{
		{0, 100}, {1000, 2000}, {0, 1 << 14}, {100000, 100000 + (1 << 17)},
	}
	for _, c := range cases {
		bin := Reg2Bin(c.beg, c.end)
		minStart, maxEnd := BinToRegion(bin)
		require.LessOrEqual(t, minStart, c.beg)
		require.Greater(t, maxEnd, c.end-1)
	}
}

func TestReg2BinWholeReference(t *testing.T) {
	require.Equal(t, uint32(0), Reg2Bin(0, 1<<29))
}

func TestReg2BinsIncludesReg2Bin(t *testing.T) {
	beg, end := int32(12345), int32(67890)
	bin := Reg2Bin(beg, end)
	bins := reg2bins(beg, end)
	found := false
	for _, b := range bins {
		if b == bin {
			found = true
		}
	}
	require.True(t, found)
}

func TestReadIndexParsesBinsAndMetadata(t *testing.T) {
	bin := Reg2Bin(0, 100)
	chunks := []bgzf.Chunk{{Begin: bgzf.Pack(0, 0), End: bgzf.Pack(0, 50)}}
	meta := []bgzf.Chunk{
		{Begin: bgzf.Pack(0, 0), End: bgzf.Pack(100, 0)},
		{Begin: bgzf.Offset(5), End: bgzf.Offset(0)},
	}
	raw := buildBai(map[uint32][]bgzf.Chunk{
		bin:     chunks,
		metaBin: meta,
	}, []bgzf.Offset{bgzf.Pack(0, 0)})

	idx, err := ReadIndex(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, idx.Refs, 1)
	require.Len(t, idx.Refs[0].Bins, 1)
	require.Equal(t, uint64(5), idx.Refs[0].Meta.MappedCount)
}

func TestReadIndexBadMagic(t *testing.T) {
	raw := buildBai(nil, nil)
	raw[0] = 'X'
	_, err := ReadIndex(bytes.NewReader(raw))
	require.Error(t, err)
}

func TestFetchChunksOutOfRangeRefID(t *testing.T) {
	idx := &Index{Refs: []Reference{{}}}
	_, err := idx.FetchChunks(5, 0, 100)
	require.Error(t, err)
	require.Equal(t, InvalidInput, err.(*Error).Kind)
}

func TestFetchChunksClipsAndMerges(t *testing.T) {
	bin := Reg2Bin(0, 1000)
	idx := &Index{
		Refs: []Reference{{
			Bins: []Bin{{
				BinNum: bin,
				Chunks: []Chunk{
					{Begin: bgzf.Pack(0, 0), End: bgzf.Pack(100, 0)},
					{Begin: bgzf.Pack(100, 0), End: bgzf.Pack(200, 0)},
				},
			}},
			Intervals: []bgzf.Offset{bgzf.Pack(0, 0)},
		}},
	}
	chunks, err := idx.FetchChunks(0, 0, 1000)
	require.NoError(t, err)
	require.Len(t, chunks, 1) // adjacent chunks at the same block boundary merge
	require.Equal(t, int64(0), chunks[0].Begin.CompressedOffset())
	require.Equal(t, int64(200), chunks[0].End.CompressedOffset())
}
