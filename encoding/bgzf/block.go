package bgzf

import (
	"bytes"
	"encoding/binary"
	"io"
	"io/ioutil"

	"github.com/klauspost/compress/gzip"
)

// gzipFixedHeaderLen is the length, in bytes, of the fixed portion of
// a gzip member header: ID1, ID2, CM, FLG, MTIME(4), XFL, OS.
const gzipFixedHeaderLen = 10

// bgzfExtraPrefix identifies the "BC" extra subfield the BGZF format
// adds to every block's gzip header: subfield id 66,67 ('B','C'),
// subfield length 2. See the SAM/BAM spec.
var bgzfExtraPrefix = [4]byte{66, 67, 2, 0}

// readBlock reads one complete BGZF block from r, starting at the
// gzip magic bytes, and returns its decompressed payload together
// with the total number of compressed bytes the block occupied in
// the stream (header + extra + deflate data + CRC32 + ISIZE).
//
// It does not require r to be seekable: the block's total size is
// recovered from the "BC" extra subfield before any deflate data is
// touched, and every byte belonging to the block is consumed from r
// exactly once.
func readBlock(r io.Reader) (decompressed []byte, blockLen int, err error) {
	var fixed [gzipFixedHeaderLen]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		if err == io.EOF {
			return nil, 0, io.EOF
		}
		return nil, 0, errTruncated("short gzip header", err)
	}
	if fixed[0] != 0x1f || fixed[1] != 0x8b {
		return nil, 0, errCorrupted("bad gzip magic")
	}
	if fixed[3]&0x04 == 0 {
		return nil, 0, errCorrupted("block has no FEXTRA field")
	}

	var xlenBuf [2]byte
	if _, err := io.ReadFull(r, xlenBuf[:]); err != nil {
		return nil, 0, errTruncated("short XLEN", err)
	}
	xlen := int(binary.LittleEndian.Uint16(xlenBuf[:]))
	extra := make([]byte, xlen)
	if _, err := io.ReadFull(r, extra); err != nil {
		return nil, 0, errTruncated("short extra field", err)
	}

	bsize := -1
	for i := 0; i+4 <= len(extra); {
		slen := int(binary.LittleEndian.Uint16(extra[i+2 : i+4]))
		if bytes.Equal(extra[i:i+4], bgzfExtraPrefix[:]) && i+6 <= len(extra) {
			bsize = int(binary.LittleEndian.Uint16(extra[i+4 : i+6]))
		}
		i += 4 + slen
	}
	if bsize < 0 {
		return nil, 0, errCorrupted(`missing "BC" extra subfield`)
	}
	totalLen := bsize + 1
	headerLen := gzipFixedHeaderLen + 2 + xlen
	if totalLen < headerLen {
		return nil, 0, errCorrupted("BSIZE smaller than header")
	}
	rest := make([]byte, totalLen-headerLen)
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, 0, errTruncated("short block body", err)
	}

	whole := make([]byte, 0, totalLen)
	whole = append(whole, fixed[:]...)
	whole = append(whole, xlenBuf[:]...)
	whole = append(whole, extra...)
	whole = append(whole, rest...)

	gz, err := gzip.NewReader(bytes.NewReader(whole))
	if err != nil {
		return nil, 0, errCorrupted("invalid deflate stream: " + err.Error())
	}
	defer gz.Close()
	payload, err := ioutil.ReadAll(gz)
	if err != nil {
		return nil, 0, errTruncated("deflate stream ended early", err)
	}
	return payload, totalLen, nil
}
