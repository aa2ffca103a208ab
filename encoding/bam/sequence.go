package bam

import "github.com/contigio/gbam/biosimd"

// Sequence is a record's query sequence, stored packed at 4 bits per
// base (two bases per byte, high nibble first) exactly as it appears
// in the container. It may be absent, in which case Available
// reports false and Len/Subseq must not be called.
type Sequence struct {
	packed    []byte
	length    int
	available bool
}

// Available reports whether the sequence was stored for this record.
func (s *Sequence) Available() bool { return s.available }

// Len returns the number of bases.
func (s *Sequence) Len() int { return s.length }

// Subseq unpacks bases [start, end) into ASCII ("=ACMGRSVTWYHKDBN")
// and returns them. It panics if the sequence is unavailable or the
// range is out of bounds, matching the panicking contract of the
// underlying biosimd unpack routine.
func (s *Sequence) Subseq(start, end int) []byte {
	if !s.available {
		panic("bam: Subseq called on a record with no stored sequence")
	}
	dst := make([]byte, end-start)
	biosimd.UnpackAndReplaceSeqSubset(dst, s.packed, &biosimd.SeqASCIITable, start, end)
	return dst
}

// setFrom populates the sequence from the packed bytes straight out
// of the container, recycling the backing array when it already has
// enough capacity.
func (s *Sequence) setFrom(packed []byte, length int) {
	s.packed = append(s.packed[:0], packed...)
	s.length = length
	s.available = length > 0
}

func (s *Sequence) reset() {
	s.packed = s.packed[:0]
	s.length = 0
	s.available = false
}
