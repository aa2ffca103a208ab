package bgzf

import (
	"io"
)

// SeekableReader decompresses BGZF blocks from a seekable source on
// demand, keyed by compressed-file offset, consulting a BlockCache
// before touching the underlying stream.
type SeekableReader struct {
	src   io.ReadSeeker
	cache *BlockCache
}

// NewSeekableReader wraps src. If cache is nil, a cache of
// DefaultCacheCapacity blocks is created.
func NewSeekableReader(src io.ReadSeeker, cache *BlockCache) *SeekableReader {
	if cache == nil {
		cache = NewBlockCache(DefaultCacheCapacity)
	}
	return &SeekableReader{src: src, cache: cache}
}

// ReadBlockAt returns the decompressed contents of the block starting
// at coffset, along with the compressed offset of the block that
// follows it. It fails with Truncated if the block is short and
// Corrupted if the header is malformed.
func (r *SeekableReader) ReadBlockAt(coffset int64) (data []byte, nextCoffset int64, err error) {
	if data, nextCoffset, ok := r.cache.Get(coffset); ok {
		return data, nextCoffset, nil
	}
	if _, err := r.src.Seek(coffset, io.SeekStart); err != nil {
		return nil, 0, errIo("seek failed", err)
	}
	data, blockLen, err := readBlock(r.src)
	if err != nil {
		if err == io.EOF {
			return nil, 0, errTruncated("seek landed past end of stream", io.EOF)
		}
		return nil, 0, err
	}
	nextCoffset = coffset + int64(blockLen)
	r.cache.Put(coffset, data, nextCoffset)
	return data, nextCoffset, nil
}
