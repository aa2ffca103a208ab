package pileup

import "github.com/contigio/gbam/encoding/bam"

// AlnType classifies the region of a record aligned to a single
// reference position.
type AlnType int

const (
	// Deletion means the reference position is not present in the
	// record (the record's cigar skips over it with a reference-only
	// consuming op).
	Deletion AlnType = iota
	// Match means exactly one base of the record aligns here.
	Match
	// Insertion means one base aligns here, immediately followed by an
	// insertion; InsertionLen reports the inserted span.
	Insertion
)

// PileupEntry is one record's cursor into a pileup column: the
// record, plus the cigar-walking state (query_start, query_end,
// cigar_index, cigar_remaining) that locates the record's bases
// aligned to the column's reference position.
type PileupEntry struct {
	// Record is the entry's underlying alignment record. It must not
	// be mutated; it may be shared with other entries produced from
	// the same ingest (never, in this engine, since every ingested
	// record yields exactly one entry) or with a prior column's
	// snapshot of this same entry.
	Record *bam.Record

	queryStart  uint32
	queryEnd    uint32
	alnQueryEnd uint32

	refPos         uint32
	cigarIndex     int
	cigarRemaining uint32
}

// newPileupEntry builds an entry positioned at rec's first reference
// position. rec must be mapped, per the caller's record_passes
// filter.
func newPileupEntry(rec *bam.Record) (*PileupEntry, error) {
	cigar := rec.Cigar
	cigarIndex := 0
	var queryPos uint32
	var cigarRemaining uint32
	found := false
	for cigarIndex < cigar.Len() {
		op := cigar.At(cigarIndex)
		if op.ConsumesRef() {
			cigarRemaining = op.Len()
			found = true
			break
		}
		if op.ConsumesQuery() {
			queryPos += op.Len()
		}
		cigarIndex++
	}
	if !found {
		return nil, &bam.Error{Kind: bam.Corrupted, Msg: "cigar contains only non-reference-consuming operations"}
	}

	e := &PileupEntry{
		Record:         rec,
		queryStart:     queryPos,
		queryEnd:       queryPos,
		alnQueryEnd:    uint32(rec.AlignedQueryEnd()),
		refPos:         uint32(rec.Start),
		cigarIndex:     cigarIndex,
		cigarRemaining: cigarRemaining,
	}
	e.updateQueryEnd()
	return e, nil
}

// updateQueryEnd recomputes queryEnd for the entry's current
// reference position: it looks one cigar step ahead so that the last
// reference base of a match/mismatch op absorbs a following
// insertion into this position's query span. The span is capped at
// the record's aligned query end, so a trailing soft-clip is not
// absorbed.
func (e *PileupEntry) updateQueryEnd() {
	cigar := e.Record.Cigar
	op := cigar.At(e.cigarIndex)
	switch {
	case !op.ConsumesQuery():
		e.queryEnd = e.queryStart
	case e.cigarRemaining == 1:
		queryEnd := e.queryStart + 1
		i := e.cigarIndex + 1
		for i < cigar.Len() && queryEnd < e.alnQueryEnd {
			next := cigar.At(i)
			if next.ConsumesRef() {
				break
			}
			if next.ConsumesQuery() {
				queryEnd += next.Len()
			}
			i++
		}
		if queryEnd > e.alnQueryEnd {
			queryEnd = e.alnQueryEnd
		}
		e.queryEnd = queryEnd
	default:
		e.queryEnd = e.queryStart + 1
	}
}

// moveForward advances the entry to the next reference position. It
// returns false once the record's cigar, or its aligned query span,
// is exhausted; the caller must then drop the entry from the live
// set.
func (e *PileupEntry) moveForward() bool {
	cigar := e.Record.Cigar
	op := cigar.At(e.cigarIndex)
	e.cigarRemaining--
	if op.ConsumesRef() {
		e.refPos++
	}
	if op.ConsumesQuery() {
		e.queryStart++
	}

	for e.cigarRemaining == 0 {
		e.cigarIndex++
		if e.cigarIndex == cigar.Len() || e.queryStart >= e.alnQueryEnd {
			return false
		}
		next := cigar.At(e.cigarIndex)
		if next.ConsumesRef() {
			e.cigarRemaining = next.Len()
		} else if next.ConsumesQuery() {
			e.queryStart += next.Len()
		}
	}
	e.updateQueryEnd()
	return true
}

// RefPos returns the 0-based reference position this entry is
// currently positioned at.
func (e *PileupEntry) RefPos() uint32 { return e.refPos }

// QueryStart returns the 0-based index, in the record's query
// sequence, of the first base aligned to this entry's reference
// position. If the position is deleted in the record, QueryStart ==
// QueryEnd.
func (e *PileupEntry) QueryStart() uint32 { return e.queryStart }

// QueryEnd returns the 0-based index past the last base aligned to
// this entry's reference position.
func (e *PileupEntry) QueryEnd() uint32 { return e.queryEnd }

// Len returns QueryEnd - QueryStart.
func (e *PileupEntry) Len() uint32 { return e.queryEnd - e.queryStart }

// Type classifies the entry's alignment at its current reference
// position.
func (e *PileupEntry) Type() AlnType {
	switch e.Len() {
	case 0:
		return Deletion
	case 1:
		return Match
	default:
		return Insertion
	}
}

// InsertionLen returns the length of the inserted span following this
// entry's aligned base. It is only meaningful when Type() ==
// Insertion.
func (e *PileupEntry) InsertionLen() uint32 { return e.Len() - 1 }

// Sequence returns the bases aligned to this entry's reference
// position, and whether the record carries a stored sequence.
func (e *PileupEntry) Sequence() ([]byte, bool) {
	seq := e.Record.Sequence()
	if !seq.Available() {
		return nil, false
	}
	return seq.Subseq(int(e.queryStart), int(e.queryEnd)), true
}

// Qualities returns the raw (no +33 offset) per-base qualities
// aligned to this entry's reference position, and whether the record
// carries stored qualities.
func (e *PileupEntry) Qualities() ([]byte, bool) {
	qual, ok := e.Record.Qualities()
	if !ok {
		return nil, false
	}
	return qual[e.queryStart:e.queryEnd], true
}
