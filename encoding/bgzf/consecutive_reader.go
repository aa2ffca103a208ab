package bgzf

import "io"

// ConsecutiveReader streams a BGZF payload forward from a
// non-seekable source, decompressing one block at a time. It
// implements io.Reader; end-of-stream is signalled by the standard
// zero-length BGZF terminal block, surfaced as io.EOF.
type ConsecutiveReader struct {
	src io.Reader

	block  []byte
	pos    int
	coffset int64
	eof    bool
}

// NewConsecutiveReader wraps src, which need not support Seek.
func NewConsecutiveReader(src io.Reader) *ConsecutiveReader {
	return &ConsecutiveReader{src: src}
}

// Read implements io.Reader.
func (r *ConsecutiveReader) Read(p []byte) (int, error) {
	if r.eof {
		return 0, io.EOF
	}
	if r.pos >= len(r.block) {
		if err := r.advance(); err != nil {
			return 0, err
		}
		if r.eof {
			return 0, io.EOF
		}
	}
	n := copy(p, r.block[r.pos:])
	r.pos += n
	return n, nil
}

// advance decompresses the next block into r.block, resetting the
// cursor. It sets r.eof when the terminal zero-length block is seen.
func (r *ConsecutiveReader) advance() error {
	data, blockLen, err := readBlock(r.src)
	if err != nil {
		if err == io.EOF {
			return errTruncated("stream ended without a BGZF terminator", io.EOF)
		}
		return err
	}
	r.coffset += int64(blockLen)
	if len(data) == 0 {
		r.eof = true
		r.block = nil
		r.pos = 0
		return nil
	}
	r.block = data
	r.pos = 0
	return nil
}

// Coffset returns the compressed-file offset just past the most
// recently decompressed block, i.e. where the next block starts.
func (r *ConsecutiveReader) Coffset() int64 { return r.coffset }
