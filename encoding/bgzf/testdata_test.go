package bgzf

import (
	"bytes"

	"github.com/klauspost/compress/gzip"
)

// makeBlock builds one well-formed BGZF block containing payload:
// compress with gzip, stash a placeholder "BC" extra subfield, then
// patch BSIZE once the compressed length is known.
func makeBlock(payload []byte) []byte {
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
	const extraOffset = gzipFixedHeaderLen + 2 // past XLEN
	b[extraOffset+4] = byte(bsize)
	b[extraOffset+5] = byte(bsize >> 8)
	return b
}

// bgzfEOF is the 28-byte BGZF terminator: a valid block with an empty
// payload.
var bgzfEOF = makeBlock(nil)

func concatBlocks(blocks ...[]byte) []byte {
	var out []byte
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}
