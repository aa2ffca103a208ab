package bam

const flagUnmapped = 0x4

// MaxBin is the largest legal bin identifier in the hierarchical
// binning scheme this package implements (§3). A record whose bin
// exceeds MaxBin is corrupt.
const MaxBin = 37449

// Record is one alignment record's fields, as needed by the region
// viewer and pileup engine. RefID and Start are -1 for an unmapped
// record.
type Record struct {
	RefID int32
	Start int32
	MapQ  uint8
	Bin   uint16
	Flag  uint16

	Cigar Cigar

	NextRefID int32
	NextStart int32
	TemplateLen int32

	name string

	seq  Sequence
	qual []byte
	qualAvailable bool

	// scratch holds the raw body bytes of the most recently decoded
	// record; FillFrom resizes it in place instead of allocating a
	// fresh buffer per call, and copies Cigar/Sequence/Qualities out
	// of it into their own reused buffers.
	scratch []byte

	pooled bool
}

// resizeScratch makes *buf exactly n bytes long, reusing its backing
// array when it is big enough and otherwise allocating one whose
// capacity is the smallest multiple of 64 greater than n.
func resizeScratch(buf *[]byte, n int) {
	if cap(*buf) < n {
		size := (n/64 + 1) * 64
		*buf = make([]byte, n, size)
	} else {
		*buf = (*buf)[:n]
	}
}

// IsMapped reports whether the unmapped flag bit is clear.
func (r *Record) IsMapped() bool { return r.Flag&flagUnmapped == 0 }

// Name returns the record's read name.
func (r *Record) Name() string { return r.name }

// Sequence returns the record's packed query sequence.
func (r *Record) Sequence() *Sequence { return &r.seq }

// Qualities reports whether per-base qualities were stored, and
// returns the raw byte array (aligned 1:1 with Sequence) when they
// were.
func (r *Record) Qualities() ([]byte, bool) {
	if !r.qualAvailable {
		return nil, false
	}
	return r.qual, true
}

// CalculateEnd returns Start + the sum of reference-consuming cigar
// op lengths, or -1 if the cigar has no reference-consuming op.
func (r *Record) CalculateEnd() int32 {
	span, any := r.Cigar.ReferenceSpan()
	if !any {
		return -1
	}
	return r.Start + int32(span)
}

// AlignedQueryEnd returns the offset, within the query sequence, of
// the first base past the alignment: the sum of query-consuming
// cigar op lengths, less any soft-clip at the end of the cigar
// (hard-clips after it are skipped over). Leading soft-clips are
// counted, since query offsets start at the first stored base.
func (r *Record) AlignedQueryEnd() int32 {
	var n uint32
	for _, op := range r.Cigar {
		if op.ConsumesQuery() {
			n += op.Len()
		}
	}
	for i := len(r.Cigar) - 1; i >= 0; i-- {
		op := r.Cigar[i]
		if op.Type() == CigarSoftClip {
			n -= op.Len()
		} else if op.Type() != CigarHardClip {
			break
		}
	}
	return int32(n)
}

// Clone returns a deep copy of r sharing no mutable backing array
// with it. The pileup engine retains records across many FillFrom
// calls that overwrite the scratch buffers of the Reader or
// RegionViewer they came from, so the pileup package's FromReader and
// FromRegionViewer adapters clone every record they hand to it rather
// than passing on the pointer FillFrom just wrote into.
func (r *Record) Clone() *Record {
	out := &Record{
		RefID: r.RefID, Start: r.Start, MapQ: r.MapQ, Bin: r.Bin, Flag: r.Flag,
		NextRefID: r.NextRefID, NextStart: r.NextStart, TemplateLen: r.TemplateLen,
		name: r.name,
	}
	out.Cigar = append(Cigar(nil), r.Cigar...)
	out.seq.setFrom(r.seq.packed, r.seq.length)
	if r.qualAvailable {
		out.qual = append([]byte(nil), r.qual...)
		out.qualAvailable = true
	}
	return out
}

// reset clears a Record for reuse by the free pool, without
// reallocating its backing slices where their capacity already
// suffices (see pool.go).
func (r *Record) reset() {
	r.RefID = -1
	r.Start = -1
	r.MapQ = 0
	r.Bin = 0
	r.Flag = 0
	r.Cigar = r.Cigar[:0]
	r.NextRefID = -1
	r.NextStart = -1
	r.TemplateLen = 0
	r.name = ""
	r.seq.reset()
	r.qual = r.qual[:0]
	r.qualAvailable = false
	r.scratch = r.scratch[:0]
}
