package bgzf

// Offset is a virtual file offset: the packed combination of a
// compressed-file byte offset (coffset, the position of a block's
// first byte in the underlying stream) and an intra-block,
// decompressed byte offset (uoffset, the position within that
// block's decompressed payload). It is the same packed value the
// index and the record codec exchange.
type Offset uint64

// Pack builds an Offset from a compressed offset and an uncompressed
// intra-block offset. coffset must fit in 48 bits and uoffset in 16
// bits; callers that read these values out of an index are expected
// to have validated the source, not this constructor.
func Pack(coffset int64, uoffset uint16) Offset {
	return Offset(uint64(coffset)<<16 | uint64(uoffset))
}

// Unpack splits an Offset back into its compressed and uncompressed
// components. Pack(Unpack(v)) == v for every v.
func (v Offset) Unpack() (coffset int64, uoffset uint16) {
	return int64(v >> 16), uint16(v & 0xffff)
}

// CompressedOffset returns the coffset component.
func (v Offset) CompressedOffset() int64 { return int64(v >> 16) }

// UncompressedOffset returns the uoffset component.
func (v Offset) UncompressedOffset() uint16 { return uint16(v & 0xffff) }

// Compare returns -1, 0, or 1 as v is numerically less than, equal
// to, or greater than o. Virtual offsets are totally ordered on the
// packed 64-bit value.
func (v Offset) Compare(o Offset) int {
	switch {
	case v < o:
		return -1
	case v > o:
		return 1
	default:
		return 0
	}
}

// Chunk is a half-open byte range [Begin, End) in the decompressed
// logical stream, possibly spanning several blocks.
type Chunk struct {
	Begin Offset
	End   Offset
}
