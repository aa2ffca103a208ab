package bam

import (
	"sync"
	"sync/atomic"

	"v.io/x/lib/vlog"
)

// RecordPool recycles *Record scratch buffers for callers that decode
// with FillFrom: Cigar/seq/qual backing arrays survive a Put/Get round
// trip and are simply resliced to zero length. Reader, IndexedReader
// and RegionViewer do not use it; they avoid per-record allocation by
// refilling a single Record in place.
type RecordPool struct {
	pool sync.Pool
}

// NewRecordPool returns an empty pool.
func NewRecordPool() *RecordPool {
	return &RecordPool{
		pool: sync.Pool{New: func() interface{} { return &Record{RefID: -1, Start: -1} }},
	}
}

// Get returns a Record ready for FillFrom, either recycled or freshly
// allocated.
func (p *RecordPool) Get() *Record {
	r := p.pool.Get().(*Record)
	r.pooled = false
	return r
}

var nPoolWarnings int32

// Put returns r to the pool. The caller must guarantee there are no
// outstanding references to r; its buffers will be overwritten by a
// future Get.
func (p *RecordPool) Put(r *Record) {
	if r == nil {
		panic("bam: RecordPool.Put(nil)")
	}
	if r.pooled {
		if atomic.AddInt32(&nPoolWarnings, 1) < 2 {
			vlog.Errorf(`RecordPool.Put: record is already in the free pool.
If you see this warning in non-test code path, you MUST fix the problem`)
		}
		return
	}
	r.reset()
	r.pooled = true
	p.pool.Put(r)
}
