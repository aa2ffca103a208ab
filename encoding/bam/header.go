package bam

import (
	"encoding/binary"
	"io"
)

// magic is the four-byte prefix that opens a container's decompressed
// stream.
var magic = [4]byte{'B', 'A', 'M', 0x1}

// Header is the parsed prefix of a container: the magic, the
// (opaque) textual SAM header, and the reference dictionary. Parsing
// the textual header's fields is out of scope for this core; it is
// kept only as a byte blob collaborators may inspect themselves.
type Header struct {
	Text []byte

	names  []string
	lens   []uint32
	lookup map[string]int32
}

// ReadHeader parses the container prefix from r: magic, length-prefixed
// text header, then the reference dictionary (count followed by
// length-prefixed (name, length) pairs).
func ReadHeader(r io.Reader) (*Header, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, wrapStreamErr(err)
	}
	if m != magic {
		return nil, errCorrupted("bad container magic")
	}

	var textLen int32
	if err := binary.Read(r, binary.LittleEndian, &textLen); err != nil {
		return nil, wrapStreamErr(err)
	}
	if textLen < 0 {
		return nil, errCorrupted("negative header text length")
	}
	text := make([]byte, textLen)
	if _, err := io.ReadFull(r, text); err != nil {
		return nil, wrapStreamErr(err)
	}

	var refCount int32
	if err := binary.Read(r, binary.LittleEndian, &refCount); err != nil {
		return nil, wrapStreamErr(err)
	}
	if refCount < 0 {
		return nil, errCorrupted("negative reference count")
	}

	h := &Header{
		Text:   text,
		names:  make([]string, refCount),
		lens:   make([]uint32, refCount),
		lookup: make(map[string]int32, refCount),
	}
	for i := int32(0); i < refCount; i++ {
		var nameLen int32
		if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
			return nil, wrapStreamErr(err)
		}
		if nameLen <= 0 {
			return nil, errCorrupted("non-positive reference name length")
		}
		nameBuf := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBuf); err != nil {
			return nil, wrapStreamErr(err)
		}
		// The name is NUL-terminated in the container; drop the
		// trailing byte.
		name := string(nameBuf[:nameLen-1])

		var refLen int32
		if err := binary.Read(r, binary.LittleEndian, &refLen); err != nil {
			return nil, wrapStreamErr(err)
		}
		if refLen < 0 {
			return nil, errCorrupted("negative reference length")
		}
		h.names[i] = name
		h.lens[i] = uint32(refLen)
		h.lookup[name] = i
	}
	return h, nil
}

// NumRefs returns the number of references in the dictionary.
func (h *Header) NumRefs() int { return len(h.names) }

// ReferenceLen returns the length of reference refID and whether
// refID is in range.
func (h *Header) ReferenceLen(refID int32) (uint32, bool) {
	if refID < 0 || int(refID) >= len(h.lens) {
		return 0, false
	}
	return h.lens[refID], true
}

// ReferenceName returns the name of reference refID and whether refID
// is in range.
func (h *Header) ReferenceName(refID int32) (string, bool) {
	if refID < 0 || int(refID) >= len(h.names) {
		return "", false
	}
	return h.names[refID], true
}

// ReferenceID looks up a reference by name.
func (h *Header) ReferenceID(name string) (int32, bool) {
	id, ok := h.lookup[name]
	return id, ok
}

// Names returns a clone of the reference name dictionary, in
// reference-id order.
func (h *Header) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}
