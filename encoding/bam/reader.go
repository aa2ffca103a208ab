package bam

import (
	"io"
	"time"

	"github.com/contigio/gbam/encoding/bgzf"
)

// Reader reads records consecutively from a non-seekable stream. It
// does not support random access; use IndexedReader for that.
type Reader struct {
	src    *bgzf.ConsecutiveReader
	header *Header
}

// NewReader wraps stream, which need not support Seek, and parses its
// header.
func NewReader(stream io.Reader) (*Reader, error) {
	cr := bgzf.NewConsecutiveReader(stream)
	header, err := ReadHeader(cr)
	if err != nil {
		return nil, err
	}
	return &Reader{src: cr, header: header}, nil
}

// Header returns the container's parsed header.
func (r *Reader) Header() *Header { return r.header }

// ReadInto reads the next record into rec, reusing rec's buffers.
func (r *Reader) ReadInto(rec *Record) error {
	return FillFrom(r.src, rec)
}

// ModificationTimeKind selects how an IndexedReader reacts to an
// index that predates its container.
type ModificationTimeKind int

const (
	// ModTimeError fails construction if the index is older than the
	// container.
	ModTimeError ModificationTimeKind = iota
	// ModTimeIgnore does nothing.
	ModTimeIgnore
	// ModTimeWarn calls a callback and proceeds.
	ModTimeWarn
)

// ModificationTime is the policy an IndexedReaderBuilder applies when
// the index's last-modified time precedes the container's. Missing
// timestamps (the zero time.Time) are treated as "no warning": this
// core has no file-path conventions of its own, so it is the
// caller's responsibility to supply timestamps it obtained however it
// opened the underlying streams.
type ModificationTime struct {
	Kind ModificationTimeKind
	Warn func(string)
}

// check applies the policy given the container's and index's
// modification times.
func (m ModificationTime) check(containerTime, indexTime time.Time) error {
	if containerTime.IsZero() || indexTime.IsZero() {
		return nil
	}
	if !indexTime.Before(containerTime) {
		return nil
	}
	switch m.Kind {
	case ModTimeIgnore:
		return nil
	case ModTimeWarn:
		if m.Warn != nil {
			m.Warn("the container is younger than the index")
		}
		return nil
	default:
		return errInvalidInput("the container is younger than the index")
	}
}

// IndexedReader binds a seekable container stream, its parsed header,
// and a parsed index together to provide random access by reference
// region. A fetch holds an exclusive borrow of the reader's scratch
// buffer for its lifetime; open independent readers to query regions
// concurrently.
type IndexedReader struct {
	sr     *bgzf.SeekableReader
	header *Header
	index  *Index
	rec    *Record
}

// IndexedReaderBuilder configures cache capacity and modification-time
// policy before binding a container stream and an index stream into
// an IndexedReader.
type IndexedReaderBuilder struct {
	cacheCapacity    int
	modTime          ModificationTime
	containerModTime time.Time
	indexModTime     time.Time
}

// NewIndexedReaderBuilder returns a builder with the default policy
// (ModTimeError) and the default cache capacity.
func NewIndexedReaderBuilder() *IndexedReaderBuilder {
	return &IndexedReaderBuilder{
		cacheCapacity: bgzf.DefaultCacheCapacity,
		modTime:       ModificationTime{Kind: ModTimeError},
	}
}

// CacheCapacity sets the LRU block cache's capacity. capacity must be
// positive; this core never panics on caller-supplied configuration,
// so a non-positive capacity is reported as an InvalidInput error by
// FromStreams instead of the teacher's assert.
func (b *IndexedReaderBuilder) CacheCapacity(capacity int) *IndexedReaderBuilder {
	b.cacheCapacity = capacity
	return b
}

// ModificationTimePolicy sets the policy applied when the index
// predates the container.
func (b *IndexedReaderBuilder) ModificationTimePolicy(m ModificationTime) *IndexedReaderBuilder {
	b.modTime = m
	return b
}

// ModificationTimes supplies the container's and index's last-modified
// times for the ModificationTime check. Either may be the zero
// time.Time, which this core treats as "timestamp unavailable" and
// therefore never warns.
func (b *IndexedReaderBuilder) ModificationTimes(containerTime, indexTime time.Time) *IndexedReaderBuilder {
	b.containerModTime = containerTime
	b.indexModTime = indexTime
	return b
}

// FromStreams builds an IndexedReader from a seekable container
// stream and an index stream (which need not support Seek).
func (b *IndexedReaderBuilder) FromStreams(container io.ReadSeeker, indexStream io.Reader) (*IndexedReader, error) {
	if b.cacheCapacity <= 0 {
		return nil, errInvalidInput("cache capacity must be positive")
	}
	if err := b.modTime.check(b.containerModTime, b.indexModTime); err != nil {
		return nil, err
	}

	index, err := ReadIndex(indexStream)
	if err != nil {
		return nil, err
	}

	sr := bgzf.NewSeekableReader(container, bgzf.NewBlockCache(b.cacheCapacity))
	header, err := ReadHeader(bgzf.NewWithoutBoundaries(sr))
	if err != nil {
		return nil, err
	}

	return &IndexedReader{
		sr:     sr,
		header: header,
		index:  index,
		rec:    &Record{RefID: -1, Start: -1},
	}, nil
}

// Header returns the container's parsed header.
func (r *IndexedReader) Header() *Header { return r.header }

// Fetch returns a RegionViewer over every mapped record aligned to
// refID and intersecting [start, end).
func (r *IndexedReader) Fetch(refID int32, start, end int32) (*RegionViewer, error) {
	return r.FetchBy(refID, start, end, nil)
}

// FetchBy is Fetch with an additional predicate filter.
func (r *IndexedReader) FetchBy(refID int32, start, end int32, predicate Predicate) (*RegionViewer, error) {
	if start > end {
		return nil, errInvalidInput("start > end")
	}
	refLen, ok := r.header.ReferenceLen(refID)
	if !ok {
		return nil, errInvalidInput("out of bounds reference")
	}
	if end > int32(refLen) {
		return nil, errInvalidInput("end > reference length")
	}

	chunks, err := r.index.FetchChunks(refID, start, end)
	if err != nil {
		return nil, err
	}
	cr := bgzf.NewChunkReader(r.sr, chunks)
	return newRegionViewer(cr, r.rec, start, end, predicate), nil
}
