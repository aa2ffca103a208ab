package bgzf

import "io"

// ChunkReader presents a single contiguous io.Reader over a sequence
// of Chunks, each a half-open virtual-offset range that may span
// several blocks. It switches the underlying block as each chunk's
// end is reached, per the 4-step algorithm:
//
//  1. If the current virtual offset has reached the current chunk's
//     end, advance to the next chunk; if there is none, report EOF.
//  2. If the current block's coffset differs from the current
//     virtual offset's coffset, fetch that block.
//  3. Copy bytes starting at uoffset, stopping at the lesser of the
//     block's end, the chunk's end, and the caller's requested length.
//  4. Advance uoffset; when the block is exhausted but the chunk is
//     not, move to the next block's coffset.
type ChunkReader struct {
	sr     *SeekableReader
	chunks []Chunk
	idx    int

	withoutBoundaries bool

	cur             Offset // current virtual offset
	block           []byte
	curBlockCoffset int64
	nextBlock       int64
}

// NewChunkReader returns a ChunkReader serving exactly the bytes
// covered by chunks, in order.
func NewChunkReader(sr *SeekableReader, chunks []Chunk) *ChunkReader {
	var cur Offset
	if len(chunks) > 0 {
		cur = chunks[0].Begin
	}
	return &ChunkReader{sr: sr, chunks: chunks, cur: cur}
}

// NewWithoutBoundaries returns a ChunkReader with no chunk list that
// reads sequentially from the start of the stream. It is used for the
// container header, which precedes any indexed record.
func NewWithoutBoundaries(sr *SeekableReader) *ChunkReader {
	return &ChunkReader{sr: sr, withoutBoundaries: true, cur: Pack(0, 0)}
}

// Offset returns the virtual offset of the next byte Read will
// return.
func (r *ChunkReader) Offset() Offset { return r.cur }

// Read implements io.Reader.
func (r *ChunkReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if !r.withoutBoundaries {
		if r.idx >= len(r.chunks) {
			return 0, io.EOF
		}
		for r.cur.Compare(r.chunks[r.idx].End) >= 0 {
			r.idx++
			if r.idx >= len(r.chunks) {
				return 0, io.EOF
			}
			r.cur = r.chunks[r.idx].Begin
			r.block = nil
		}
	}

	coffset, uoffset := r.cur.Unpack()
	if r.block == nil || coffset != r.curBlockCoffset {
		data, next, err := r.sr.ReadBlockAt(coffset)
		if err != nil {
			return 0, err
		}
		r.block = data
		r.nextBlock = next
		r.curBlockCoffset = coffset
	}
	if int(uoffset) > len(r.block) {
		return 0, errCorrupted("virtual offset past end of block")
	}

	n := len(p)
	if avail := len(r.block) - int(uoffset); avail < n {
		n = avail
	}
	if !r.withoutBoundaries {
		chunkEndC, chunkEndU := r.chunks[r.idx].End.Unpack()
		if chunkEndC == coffset {
			if remain := int(chunkEndU) - int(uoffset); remain < n {
				n = remain
			}
		}
	}
	if n <= 0 {
		// Chunk ends exactly at this block boundary with nothing left
		// to copy from the current block; advance past it.
		r.idx++
		r.block = nil
		if r.idx >= len(r.chunks) {
			return 0, io.EOF
		}
		r.cur = r.chunks[r.idx].Begin
		return r.Read(p)
	}

	copy(p, r.block[uoffset:int(uoffset)+n])

	newU := int(uoffset) + n
	if newU >= len(r.block) {
		r.cur = Pack(r.nextBlock, 0)
		r.block = nil
	} else {
		r.cur = Pack(coffset, uint16(newU))
	}
	return n, nil
}
