package bam

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/gzip"
)

const testGzipFixedHeaderLen = 10

// makeBgzfBlock builds one well-formed BGZF block, mirroring the
// bgzf package's own test fixture builder (duplicated here since it
// lives in a different package).
func makeBgzfBlock(payload []byte) []byte {
	var buf bytes.Buffer
	gw, err := gzip.NewWriterLevel(&buf, gzip.DefaultCompression)
	if err != nil {
		panic(err)
	}
	gw.Header.Extra = []byte{66, 67, 2, 0, 0, 0}
	gw.Header.OS = 0xff
	if _, err := gw.Write(payload); err != nil {
		panic(err)
	}
	if err := gw.Close(); err != nil {
		panic(err)
	}
	b := buf.Bytes()
	bsize := len(b) - 1
	const extraOffset = testGzipFixedHeaderLen + 2
	b[extraOffset+4] = byte(bsize)
	b[extraOffset+5] = byte(bsize >> 8)
	return b
}

var bgzfTerminator = makeBgzfBlock(nil)

func concatBlocks(blocks ...[]byte) []byte {
	var out []byte
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}

func int32le(v int32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return b[:]
}

func uint32le(v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return b[:]
}

func uint16le(v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return b[:]
}

// testHeader builds a minimal container header with an empty text
// blob and the given reference dictionary.
func testHeader(names []string, lens []uint32) []byte {
	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.Write(int32le(0))
	buf.Write(int32le(int32(len(names))))
	for i, name := range names {
		nameBytes := append([]byte(name), 0)
		buf.Write(int32le(int32(len(nameBytes))))
		buf.Write(nameBytes)
		buf.Write(uint32le(lens[i]))
	}
	return buf.Bytes()
}

// testRecord describes the fields needed to build one binary record
// via encodeRecord.
type testRecord struct {
	RefID, Start         int32
	MapQ                 uint8
	Bin                  uint16
	Flag                 uint16
	Cigar                []CigarOp
	Name                 string
	SeqPacked            []byte
	LSeq                 int
	Qual                 []byte // nil means "absent"
	NextRefID, NextStart int32
	TemplateLen          int32
}

// encodeRecord serializes rec into the binary layout FillFrom parses.
func encodeRecord(rec testRecord) []byte {
	name := append([]byte(rec.Name), 0)

	var body bytes.Buffer
	body.Write(int32le(rec.RefID))
	body.Write(int32le(rec.Start))
	body.WriteByte(byte(len(name)))
	body.WriteByte(rec.MapQ)
	body.Write(uint16le(rec.Bin))
	body.Write(uint16le(uint16(len(rec.Cigar))))
	body.Write(uint16le(rec.Flag))
	body.Write(uint32le(uint32(rec.LSeq)))
	body.Write(int32le(rec.NextRefID))
	body.Write(int32le(rec.NextStart))
	body.Write(int32le(rec.TemplateLen))
	body.Write(name)
	for _, op := range rec.Cigar {
		body.Write(uint32le(uint32(op)))
	}

	packedLen := (rec.LSeq + 1) / 2
	seq := make([]byte, packedLen)
	copy(seq, rec.SeqPacked)
	body.Write(seq)

	if rec.Qual != nil {
		body.Write(rec.Qual)
	} else {
		qual := make([]byte, rec.LSeq)
		for i := range qual {
			qual[i] = 0xff
		}
		body.Write(qual)
	}

	var out bytes.Buffer
	out.Write(int32le(int32(body.Len())))
	out.Write(body.Bytes())
	return out.Bytes()
}

// mappedRecord returns a minimal well-formed mapped record at
// (refID, start) spanning span bases with a single match op, named
// name.
func mappedRecord(refID, start int32, span uint32, name string) testRecord {
	return testRecord{
		RefID:     refID,
		Start:     start,
		MapQ:      60,
		Bin:       uint16(Reg2Bin(start, start+int32(span))),
		Flag:      0,
		Cigar:     []CigarOp{PackCigarOp(span, CigarMatch)},
		Name:      name,
		LSeq:      0,
		NextRefID: -1,
		NextStart: -1,
	}
}
