package pileup

import (
	"errors"
	"sort"

	"github.com/contigio/gbam/encoding/bam"
)

// sentinelRefID marks an exhausted ingest cursor or an empty live set,
// mirroring the Rust implementation's use of u32::MAX.
const sentinelRefID uint32 = ^uint32(0)

// Pileup consumes a RecordSource and emits PileupColumns in strictly
// increasing (RefID, RefPos) order. Records that are unmapped or
// rejected by the filter are skipped silently; an out-of-order record
// latches an InvalidData error that Next surfaces exactly once.
type Pileup struct {
	src    RecordSource
	filter bam.Predicate

	entries []PileupEntry
	err     error

	lastRefID  uint32
	lastRefPos uint32
}

// New returns a Pileup over src with no record filter.
func New(src RecordSource) *Pileup {
	return WithFilter(src, nil)
}

// WithFilter returns a Pileup over src, skipping any mapped record for
// which filter returns false. A nil filter accepts every mapped
// record.
func WithFilter(src RecordSource, filter bam.Predicate) *Pileup {
	if filter == nil {
		filter = func(*bam.Record) bool { return true }
	}
	p := &Pileup{src: src, filter: filter}
	p.readNext()
	return p
}

func isNoMoreRecords(err error) bool {
	return errors.Is(err, &bam.Error{Kind: bam.NoMoreRecords})
}

// readNext ingests at most one more record, advancing the live entry
// set, or marks the ingest cursor exhausted / latches an error.
func (p *Pileup) readNext() {
	if p.lastRefID == sentinelRefID || p.err != nil {
		return
	}
	for {
		rec, err := p.src.Next()
		if err != nil {
			if !isNoMoreRecords(err) {
				p.err = err
			}
			p.lastRefID = sentinelRefID
			return
		}
		if !rec.IsMapped() || !p.filter(rec) {
			continue
		}
		if rec.RefID < 0 || rec.Start < 0 {
			p.err = &bam.Error{Kind: bam.Corrupted, Msg: "mapped record has a negative RefID or Start"}
			p.lastRefID = sentinelRefID
			return
		}

		refID := uint32(rec.RefID)
		refPos := uint32(rec.Start)
		if refID < p.lastRefID || (refID == p.lastRefID && refPos < p.lastRefPos) {
			p.err = &bam.Error{Kind: bam.InvalidData, Msg: "input is unsorted"}
			p.lastRefID = sentinelRefID
			return
		}
		p.lastRefID = refID
		p.lastRefPos = refPos

		entry, err := newPileupEntry(rec)
		if err != nil {
			p.err = err
			p.lastRefID = sentinelRefID
			return
		}
		p.entries = append(p.entries, *entry)
		return
	}
}

// Next produces the next pileup column, or an error: the latched
// InvalidData/Corrupted/Io error from ingestion, or
// bam.Error{Kind: bam.NoMoreRecords} once the live set is empty and
// the source is exhausted.
func (p *Pileup) Next() (*PileupColumn, error) {
	if p.err != nil {
		p.entries = p.entries[:0]
		p.lastRefID = sentinelRefID
		err := p.err
		p.err = nil
		return nil, err
	}

	newRefID, newRefPos := sentinelRefID, sentinelRefID
	for newRefID == sentinelRefID && (len(p.entries) > 0 || p.lastRefID < sentinelRefID) {
		newRefID, newRefPos = sentinelRefID, sentinelRefID
		for i := range p.entries {
			e := &p.entries[i]
			refID := uint32(e.Record.RefID)
			if refID < newRefID {
				newRefID = refID
				newRefPos = e.refPos
			} else if refID == newRefID && e.refPos < newRefPos {
				newRefPos = e.refPos
			}
		}

		for p.lastRefID < sentinelRefID && p.lastRefID <= newRefID && p.lastRefPos <= newRefPos {
			p.readNext()
		}
		if p.err != nil {
			p.entries = p.entries[:0]
			p.lastRefID = sentinelRefID
			err := p.err
			p.err = nil
			return nil, err
		}
	}

	var out []PileupEntry
	for i := len(p.entries) - 1; i >= 0; i-- {
		e := &p.entries[i]
		refID := uint32(e.Record.RefID)
		if refID != newRefID || e.refPos != newRefPos {
			continue
		}
		out = append(out, *e)
		if !e.moveForward() {
			last := len(p.entries) - 1
			p.entries[i] = p.entries[last]
			p.entries = p.entries[:last]
		}
	}

	if len(out) == 0 {
		return nil, &bam.Error{Kind: bam.NoMoreRecords}
	}
	return &PileupColumn{RefID: newRefID, RefPos: newRefPos, Entries: out}, nil
}

// PileupColumn is every live entry covering one reference position,
// in no specified order until Sort is called.
type PileupColumn struct {
	RefID   uint32
	RefPos  uint32
	Entries []PileupEntry
}

// Sort orders Entries by (record start, record name).
func (c *PileupColumn) Sort() {
	sort.Slice(c.Entries, func(i, j int) bool {
		a, b := c.Entries[i], c.Entries[j]
		if a.Record.Start != b.Record.Start {
			return a.Record.Start < b.Record.Start
		}
		return a.Record.Name() < b.Record.Name()
	})
}
