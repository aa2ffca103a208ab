package bam

import "io"

// Predicate filters records a RegionViewer considers. The always-true
// predicate is used by fetch; fetch_by lets callers supply their own.
type Predicate func(*Record) bool

func alwaysTrue(*Record) bool { return true }

// RegionViewer filters a record stream down to mapped records whose
// alignment intersects [Start, End) on a fixed reference, per the
// filter loop in §4.7. The bin-containment shortcut (a record whose
// bin is spatially wholly inside the query window is accepted without
// computing CalculateEnd) is the one optimization the core calls out
// explicitly as worth the complexity, since cigar traversal dominates
// per-record cost.
type RegionViewer struct {
	src       io.Reader
	predicate Predicate
	start     int32
	end       int32
	rec       *Record
	done      bool
	err       error
}

// newRegionViewer wraps src (typically a ChunkReader), yielding
// records in [start, end) that pass predicate. rec is the scratch
// record FillFrom repopulates on every Next call; it must not be
// retained by the caller past the following Next.
func newRegionViewer(src io.Reader, rec *Record, start, end int32, predicate Predicate) *RegionViewer {
	if predicate == nil {
		predicate = alwaysTrue
	}
	return &RegionViewer{src: src, predicate: predicate, start: start, end: end, rec: rec}
}

// Next advances to the next matching record and returns it, or
// returns an error: NoMoreRecords at clean exhaustion or once the
// window is known to have closed (sorted input), or a propagated
// Truncated/Corrupted/Io failure. Once an error is returned, every
// subsequent call returns the same error.
func (v *RegionViewer) Next() (*Record, error) {
	if v.done {
		return nil, v.err
	}
	for {
		if err := FillFrom(v.src, v.rec); err != nil {
			v.done = true
			v.err = err
			return nil, err
		}
		if !v.rec.IsMapped() {
			continue
		}
		if v.rec.Start >= v.end {
			v.done = true
			v.err = errNoMoreRecords()
			return nil, v.err
		}
		if !v.predicate(v.rec) {
			continue
		}
		if uint32(v.rec.Bin) > MaxBin {
			v.done = true
			v.err = errCorrupted("bin exceeds MaxBin")
			return nil, v.err
		}
		minS, maxE := BinToRegion(uint32(v.rec.Bin))
		if minS >= v.start && maxE <= v.end {
			return v.rec, nil
		}
		recEnd := v.rec.CalculateEnd()
		if recEnd != -1 && recEnd < v.rec.Start {
			v.done = true
			v.err = errCorrupted("record end before start")
			return nil, v.err
		}
		if recEnd > v.start {
			return v.rec, nil
		}
		// Ends before the window: skip and keep scanning.
	}
}
