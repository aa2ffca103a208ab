// Package bgzf provides random and sequential access to BGZF
// (block gzip format) streams: the concatenation of independently
// compressed gzip blocks used by .bam files and similar formats.
//
// A BGZF stream is read through three layers. A SeekableReader
// decompresses one block at a time from a seekable source, consulting
// an LRU BlockCache keyed by the block's compressed-file offset. A
// ConsecutiveReader does the same over a plain, non-seekable
// io.Reader, with no cache beyond the block currently in hand. A
// ChunkReader sits on top of a SeekableReader and presents a single
// contiguous byte stream spanning a list of virtual-offset Chunks,
// switching blocks as each chunk is exhausted.
//
// For more information about the BGZF format, see the SAM/BAM spec:
// https://samtools.github.io/hts-specs/SAMv1.pdf
package bgzf
