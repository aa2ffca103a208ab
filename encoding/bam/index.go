package bam

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/contigio/gbam/encoding/bgzf"
)

// metaBin is the pseudo-bin id a well-formed .bai reserves for
// per-reference mapped/unmapped counts. The core ignores it beyond
// parsing it out of Reference.Bins into Reference.Meta.
const metaBin = 37450

// indexMagic is the four-byte prefix of a .bai stream.
var indexMagic = [4]byte{'B', 'A', 'I', 0x1}

// Index is the parsed content of a .bai index: per reference, a set
// of bins each holding a chunk list, plus a linear index.
type Index struct {
	Magic [4]byte
	Refs  []Reference
}

// Reference is one reference sequence's entry in the index.
type Reference struct {
	Bins      []Bin
	Intervals []bgzf.Offset
	Meta      Metadata
}

// Bin is one bin's chunk list.
type Bin struct {
	BinNum uint32
	Chunks []Chunk
}

// Chunk is a half-open virtual-offset range [Begin, End) of the
// decompressed stream, as stored in the index.
type Chunk = bgzf.Chunk

// Metadata holds the per-reference mapped/unmapped counts recorded
// under the pseudo-bin.
type Metadata struct {
	UnmappedBegin uint64
	UnmappedEnd   uint64
	MappedCount   uint64
	UnmappedCount uint64
}

// ReadIndex parses a .bai stream.
func ReadIndex(r io.Reader) (*Index, error) {
	idx := &Index{}
	if _, err := io.ReadFull(r, idx.Magic[:]); err != nil {
		return nil, wrapStreamErr(err)
	}
	if idx.Magic != indexMagic {
		return nil, errCorrupted(fmt.Sprintf("bad index magic: %v", idx.Magic))
	}

	var refCount int32
	if err := binary.Read(r, binary.LittleEndian, &refCount); err != nil {
		return nil, wrapStreamErr(err)
	}
	if refCount < 0 {
		return nil, errCorrupted("negative reference count")
	}
	idx.Refs = make([]Reference, refCount)

	for refID := int32(0); refID < refCount; refID++ {
		var binCount int32
		if err := binary.Read(r, binary.LittleEndian, &binCount); err != nil {
			return nil, wrapStreamErr(err)
		}
		if binCount < 0 {
			return nil, errCorrupted("negative bin count")
		}
		ref := Reference{Bins: make([]Bin, 0, binCount)}

		for b := int32(0); b < binCount; b++ {
			var binNum uint32
			if err := binary.Read(r, binary.LittleEndian, &binNum); err != nil {
				return nil, wrapStreamErr(err)
			}
			var chunkCount int32
			if err := binary.Read(r, binary.LittleEndian, &chunkCount); err != nil {
				return nil, wrapStreamErr(err)
			}
			if chunkCount < 0 {
				return nil, errCorrupted("negative chunk count")
			}
			bin := Bin{BinNum: binNum, Chunks: make([]Chunk, chunkCount)}
			for c := int32(0); c < chunkCount; c++ {
				var begin, end uint64
				if err := binary.Read(r, binary.LittleEndian, &begin); err != nil {
					return nil, wrapStreamErr(err)
				}
				if err := binary.Read(r, binary.LittleEndian, &end); err != nil {
					return nil, wrapStreamErr(err)
				}
				bin.Chunks[c] = Chunk{Begin: bgzf.Offset(begin), End: bgzf.Offset(end)}
			}

			if binNum == metaBin {
				if len(bin.Chunks) != 2 {
					return nil, errCorrupted(fmt.Sprintf("metadata pseudo-bin has %d chunks, want 2", len(bin.Chunks)))
				}
				ref.Meta = Metadata{
					UnmappedBegin: uint64(bin.Chunks[0].Begin),
					UnmappedEnd:   uint64(bin.Chunks[0].End),
					MappedCount:   uint64(bin.Chunks[1].Begin),
					UnmappedCount: uint64(bin.Chunks[1].End),
				}
			} else {
				ref.Bins = append(ref.Bins, bin)
			}
		}

		var intervalCount int32
		if err := binary.Read(r, binary.LittleEndian, &intervalCount); err != nil {
			return nil, wrapStreamErr(err)
		}
		if intervalCount < 0 {
			return nil, errCorrupted("negative interval count")
		}
		ref.Intervals = make([]bgzf.Offset, intervalCount)
		for iv := int32(0); iv < intervalCount; iv++ {
			var off uint64
			if err := binary.Read(r, binary.LittleEndian, &off); err != nil {
				return nil, wrapStreamErr(err)
			}
			ref.Intervals[iv] = bgzf.Offset(off)
		}
		idx.Refs[refID] = ref
	}
	return idx, nil
}

// binLevel describes one level of the hierarchical binning scheme,
// finest first: a level's bins start at firstBin and each covers
// 1<<shift reference bases.
type binLevel struct {
	firstBin uint32
	shift    uint
}

// binLevelsFineToCoarse is ordered finest-to-coarsest so Reg2Bin's "does this
// region fit in a single bin at this level" check tries the smallest,
// most selective bins first, exactly mirroring reg2bin's classic
// closed-form implementation.
var binLevelsFineToCoarse = []binLevel{
	{4681, 14},
	{585, 17},
	{73, 20},
	{9, 23},
	{1, 26},
}

// Reg2Bin returns the smallest bin fully containing [beg, end) in the
// standard SAM/BAM hierarchical binning scheme (5 levels below the
// whole-reference bin 0, level shifts 26/23/20/17/14).
func Reg2Bin(beg, end int32) uint32 {
	end--
	for _, lvl := range binLevelsFineToCoarse {
		if beg>>lvl.shift == end>>lvl.shift {
			return lvl.firstBin + uint32(beg>>lvl.shift)
		}
	}
	return 0
}

// reg2bins returns every bin id that could hold a record overlapping
// [beg, end), across all five levels plus the whole-reference bin.
func reg2bins(beg, end int32) []uint32 {
	end--
	bins := []uint32{0}
	for _, lvl := range []binLevel{{1, 26}, {9, 23}, {73, 20}, {585, 17}, {4681, 14}} {
		lo := lvl.firstBin + uint32(beg>>lvl.shift)
		hi := lvl.firstBin + uint32(end>>lvl.shift)
		for k := lo; k <= hi; k++ {
			bins = append(bins, k)
		}
	}
	return bins
}

// BinToRegion returns the reference interval [minStart, maxEnd) a bin
// covers: the inverse of Reg2Bin.
func BinToRegion(bin uint32) (minStart, maxEnd int32) {
	if bin == 0 {
		return 0, 1 << 29
	}
	for _, lvl := range binLevelsFineToCoarse {
		if bin >= lvl.firstBin {
			start := int64(bin-lvl.firstBin) << lvl.shift
			return int32(start), int32(start + (1 << lvl.shift))
		}
	}
	return 0, 1 << 29
}

// FetchChunks implements the index's 5-step region-to-chunks
// algorithm (§4.5): gather candidate bins, collect their chunks,
// clip against the linear index's minimum offset for the window
// containing start, then sort and merge.
func (idx *Index) FetchChunks(refID int32, start, end int32) ([]Chunk, error) {
	if int(refID) < 0 || int(refID) >= len(idx.Refs) {
		return nil, errInvalidInput("reference not found")
	}
	ref := idx.Refs[refID]

	candidates := reg2bins(start, end)
	want := make(map[uint32]bool, len(candidates))
	for _, b := range candidates {
		want[b] = true
	}

	var chunks []Chunk
	for _, bin := range ref.Bins {
		if want[bin.BinNum] {
			chunks = append(chunks, bin.Chunks...)
		}
	}

	const linearWindow = 16384
	var minOffset bgzf.Offset
	winIdx := int(start) / linearWindow
	if winIdx >= 0 && winIdx < len(ref.Intervals) {
		minOffset = ref.Intervals[winIdx]
	}

	kept := chunks[:0]
	for _, c := range chunks {
		if c.End.Compare(minOffset) <= 0 {
			continue
		}
		if c.Begin.Compare(minOffset) < 0 {
			c.Begin = minOffset
		}
		kept = append(kept, c)
	}
	chunks = kept

	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Begin.Compare(chunks[j].Begin) < 0 })

	merged := chunks[:0]
	for _, c := range chunks {
		if n := len(merged); n > 0 && merged[n-1].End.CompressedOffset() == c.Begin.CompressedOffset() {
			if c.End.Compare(merged[n-1].End) > 0 {
				merged[n-1].End = c.End
			}
			continue
		}
		merged = append(merged, c)
	}
	return merged, nil
}
