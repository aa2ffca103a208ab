package pileup

import "github.com/contigio/gbam/encoding/bam"

// RecordSource supplies records to a Pileup, coordinate-sorted by
// (RefID, Start). A Pileup retains the record a Next call returns
// across many subsequent calls while it walks the record's cigar, so
// every call must return an independently owned *bam.Record: one that
// shares no backing array with any record returned previously or
// subsequently. FromReader and FromRegionViewer satisfy this by
// cloning every record they read.
type RecordSource interface {
	Next() (*bam.Record, error)
}

type sourceFunc func() (*bam.Record, error)

func (f sourceFunc) Next() (*bam.Record, error) { return f() }

// FromReader adapts r, a sequential reader, into a RecordSource.
func FromReader(r *bam.Reader) RecordSource {
	return sourceFunc(func() (*bam.Record, error) {
		scratch := &bam.Record{RefID: -1, Start: -1}
		if err := r.ReadInto(scratch); err != nil {
			return nil, err
		}
		return scratch.Clone(), nil
	})
}

// FromRegionViewer adapts v, a fetch result, into a RecordSource.
func FromRegionViewer(v *bam.RegionViewer) RecordSource {
	return sourceFunc(func() (*bam.Record, error) {
		rec, err := v.Next()
		if err != nil {
			return nil, err
		}
		return rec.Clone(), nil
	})
}
