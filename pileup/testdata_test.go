package pileup

import (
	"bytes"
	"encoding/binary"

	"github.com/contigio/gbam/encoding/bam"
)

// fakeRecord describes a record to build via the real binary codec
// (bam.FillFrom), so pileup tests exercise the same decode path
// production code does rather than poking at Record fields directly.
type fakeRecord struct {
	RefID, Start int32
	Flag         uint16
	Cigar        []bam.CigarOp
	Name         string
	SeqASCII     string // e.g. "ACGT"; empty means "no sequence stored"
	Qual         []byte // nil means "no qualities stored"
}

func packSeq(s string) []byte {
	code := map[byte]byte{'=': 0, 'A': 1, 'C': 2, 'M': 3, 'G': 4, 'R': 5, 'S': 6, 'V': 7,
		'T': 8, 'W': 9, 'Y': 10, 'H': 11, 'K': 12, 'D': 13, 'B': 14, 'N': 15}
	out := make([]byte, (len(s)+1)/2)
	for i := 0; i < len(s); i++ {
		nibble := code[s[i]]
		if i%2 == 0 {
			out[i/2] |= nibble << 4
		} else {
			out[i/2] |= nibble
		}
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

func encodeFakeRecord(r fakeRecord) []byte {
	name := append([]byte(r.Name), 0)
	lSeq := len(r.SeqASCII)

	var body bytes.Buffer
	body.Write(int32le(r.RefID))
	body.Write(int32le(r.Start))
	body.WriteByte(byte(len(name)))
	body.WriteByte(60) // mapq
	body.Write(uint16le(uint16(bam.Reg2Bin(r.Start, r.Start+int32(refSpan(r.Cigar))))))
	body.Write(uint16le(uint16(len(r.Cigar))))
	body.Write(uint16le(r.Flag))
	body.Write(uint32le(uint32(lSeq)))
	body.Write(int32le(-1))
	body.Write(int32le(-1))
	body.Write(int32le(0))
	body.Write(name)
	for _, op := range r.Cigar {
		body.Write(uint32le(uint32(op)))
	}
	body.Write(packSeq(r.SeqASCII))
	if r.Qual != nil {
		body.Write(r.Qual)
	} else {
		qual := make([]byte, lSeq)
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

func refSpan(cigar []bam.CigarOp) uint32 {
	c := bam.Cigar(cigar)
	span, _ := c.ReferenceSpan()
	return span
}

// sliceSource is a RecordSource fed from a fixed list of pre-built
// records, for deterministic pileup tests.
type sliceSource struct {
	raw []fakeRecord
	i   int
}

func newSliceSource(records ...fakeRecord) *sliceSource {
	return &sliceSource{raw: records}
}

func (s *sliceSource) Next() (*bam.Record, error) {
	if s.i >= len(s.raw) {
		return nil, &bam.Error{Kind: bam.NoMoreRecords}
	}
	raw := encodeFakeRecord(s.raw[s.i])
	s.i++
	rec := &bam.Record{RefID: -1, Start: -1}
	if err := bam.FillFrom(bytes.NewReader(raw), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func matchOp(n uint32) bam.CigarOp { return bam.PackCigarOp(n, bam.CigarMatch) }
func insOp(n uint32) bam.CigarOp   { return bam.PackCigarOp(n, bam.CigarInsertion) }
func delOp(n uint32) bam.CigarOp   { return bam.PackCigarOp(n, bam.CigarDeletion) }
func softClip(n uint32) bam.CigarOp { return bam.PackCigarOp(n, bam.CigarSoftClip) }
