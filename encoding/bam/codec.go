package bam

import (
	"encoding/binary"
	"io"
)

const fixedRecordLen = 32

// FillFrom reads one length-prefixed binary record from stream into
// rec, reusing rec's backing buffers where possible so that no
// per-record allocation is required on the hot path. It returns:
//   - a NoMoreRecords error when the stream is cleanly exhausted at a
//     record boundary,
//   - a Truncated error on premature EOF,
//   - a Corrupted error on structural violations (a declared size that
//     exceeds the remaining record length, or an invalid cigar op).
func FillFrom(stream io.Reader, rec *Record) error {
	var sizeBuf [4]byte
	if _, err := io.ReadFull(stream, sizeBuf[:]); err != nil {
		if err == io.EOF {
			return errNoMoreRecords()
		}
		return wrapStreamErr(errTruncated("short record size prefix", err))
	}
	blockSize := int32(binary.LittleEndian.Uint32(sizeBuf[:]))
	if blockSize < fixedRecordLen {
		return errCorrupted("record block_size smaller than the fixed header")
	}

	resizeScratch(&rec.scratch, int(blockSize))
	body := rec.scratch
	if _, err := io.ReadFull(stream, body); err != nil {
		return wrapStreamErr(errTruncated("record body cut short", err))
	}

	rec.RefID = int32(binary.LittleEndian.Uint32(body[0:4]))
	rec.Start = int32(binary.LittleEndian.Uint32(body[4:8]))
	lReadName := int(body[8])
	rec.MapQ = body[9]
	rec.Bin = binary.LittleEndian.Uint16(body[10:12])
	nCigarOp := int(binary.LittleEndian.Uint16(body[12:14]))
	rec.Flag = binary.LittleEndian.Uint16(body[14:16])
	lSeq := int(binary.LittleEndian.Uint32(body[16:20]))
	rec.NextRefID = int32(binary.LittleEndian.Uint32(body[20:24]))
	rec.NextStart = int32(binary.LittleEndian.Uint32(body[24:28]))
	rec.TemplateLen = int32(binary.LittleEndian.Uint32(body[28:32]))

	if lReadName < 1 {
		return errCorrupted("zero-length read name")
	}
	packedSeqLen := (lSeq + 1) / 2
	need := fixedRecordLen + lReadName + 4*nCigarOp + packedSeqLen + lSeq
	if need > len(body) {
		return errCorrupted("declared field sizes exceed record length")
	}

	off := fixedRecordLen
	nameBytes := body[off : off+lReadName]
	if nameBytes[lReadName-1] != 0 {
		return errCorrupted("read name is not NUL-terminated")
	}
	rec.name = string(nameBytes[:lReadName-1])
	off += lReadName

	if cap(rec.Cigar) < nCigarOp {
		rec.Cigar = make(Cigar, nCigarOp)
	} else {
		rec.Cigar = rec.Cigar[:nCigarOp]
	}
	for i := 0; i < nCigarOp; i++ {
		op := CigarOp(binary.LittleEndian.Uint32(body[off : off+4]))
		if !op.Valid() {
			return errCorrupted("cigar operation code out of range")
		}
		rec.Cigar[i] = op
		off += 4
	}

	rec.seq.setFrom(body[off:off+packedSeqLen], lSeq)
	off += packedSeqLen

	qual := body[off : off+lSeq]
	rec.qualAvailable = lSeq > 0 && qual[0] != 0xff
	if rec.qualAvailable {
		rec.qual = append(rec.qual[:0], qual...)
	} else {
		rec.qual = rec.qual[:0]
	}

	// Bytes past this point are auxiliary tags; out of scope for this core.
	return nil
}
