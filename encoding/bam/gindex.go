package bam

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/contigio/gbam/encoding/bgzf"
	"github.com/klauspost/compress/gzip"
)

// GIndex is a coarse, denser alternative to the .bai index: a sorted
// set of (RefID, Pos, Seq) -> VOffset mappings a caller can binary
// search directly, without walking the .bai's hierarchical bins or
// 16 kb-granularity linear index. It exists because the .bai's linear
// index can only narrow a seek to within 16 kb of densely populated
// regions; a .gbai built with a smaller target spacing narrows a seek
// further at the cost of a bigger index file. This core only reads
// the format; constructing one is out of scope.
type GIndex []GIndexEntry

// gbaiMagic is "GBAI1" followed by 11 fixed bytes.
var gbaiMagic = []byte{
	'G', 'B', 'A', 'I', 0x01, 0xf1, 0x78, 0x5c,
	0x7b, 0xcb, 0xc1, 0xba, 0x08, 0x23, 0xb1, 0x19,
}

// GIndexEntry is one entry of a .gbai index: the target record is the
// Seq'th record (0-based) sharing (RefID, Pos).
type GIndexEntry struct {
	RefID   int32
	Pos     int32
	Seq     uint32
	VOffset uint64
}

// RecordOffset returns a virtual offset from which reading forward
// eventually reaches records at (refID, pos, seq). If the record at
// the returned offset has a (refID, pos) greater than the target, the
// target position is absent from the container.
func (idx GIndex) RecordOffset(refID, pos int32, seq uint32) bgzf.Offset {
	if len(idx) < 1 {
		panic("bam: GIndex has no entries")
	}
	target := GIndexEntry{RefID: refID, Pos: pos, Seq: seq}
	x := searchGIndex(idx, target)
	if x == len(idx) {
		return bgzf.Offset(idx[x-1].VOffset)
	}
	if comparePos(idx[x], target) > 0 && x > 0 {
		x--
	}
	return bgzf.Offset(idx[x].VOffset)
}

// UnmappedOffset returns a virtual offset at or before the first
// record in the container's unmapped section.
func (idx GIndex) UnmappedOffset() bgzf.Offset {
	return idx.RecordOffset(-1, 0, 0)
}

func searchGIndex(idx GIndex, target GIndexEntry) int {
	lo, hi := 0, len(idx)
	for lo < hi {
		mid := (lo + hi) / 2
		if comparePos(idx[mid], target) >= 0 {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

func comparePos(x, y GIndexEntry) int {
	if x.RefID != y.RefID {
		switch {
		case x.RefID < 0 && y.RefID >= 0:
			return 1
		case x.RefID >= 0 && y.RefID < 0:
			return -1
		default:
			return int(x.RefID) - int(y.RefID)
		}
	}
	if x.Pos != y.Pos {
		if x.Pos > y.Pos {
			return 1
		}
		return -1
	}
	if x.Seq != y.Seq {
		if x.Seq > y.Seq {
			return 1
		}
		return -1
	}
	return 0
}

// ReadGIndex parses a .gbai stream (gzip-compressed magic followed by
// a sequence of fixed-size entries, sorted by (RefID, Pos, Seq)).
func ReadGIndex(r io.Reader) (GIndex, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, errCorrupted("invalid gbai gzip stream: " + err.Error())
	}
	defer gz.Close()

	buf := make([]byte, len(gbaiMagic))
	if _, err := io.ReadFull(gz, buf); err != nil {
		return nil, wrapStreamErr(err)
	}
	if !bytes.Equal(gbaiMagic, buf) {
		return nil, errCorrupted("bad gbai magic")
	}

	var index GIndex
	for i := 0; ; i++ {
		var entry GIndexEntry
		if err := binary.Read(gz, binary.LittleEndian, &entry); err == io.EOF {
			break
		} else if err != nil {
			return nil, wrapStreamErr(err)
		}
		if i > 0 {
			prev := index[i-1]
			if comparePos(prev, entry) >= 0 {
				return nil, errCorrupted("gbai entries out of (RefID, Pos, Seq) order")
			}
			if prev.VOffset >= entry.VOffset {
				return nil, errCorrupted("gbai voffsets out of order")
			}
		}
		index = append(index, entry)
	}
	return index, nil
}
