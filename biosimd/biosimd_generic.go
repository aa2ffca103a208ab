// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd

import (
	"fmt"

	"github.com/grailbio/base/simd"
)

// BytesPerWord is the number of bytes in a machine word.
const BytesPerWord = simd.BytesPerWord

// NibbleLookupTable is re-exported here to reduce base/simd import clutter.
type NibbleLookupTable = simd.NibbleLookupTable

// MakeNibbleLookupTable is re-exported here to reduce base/simd import
// clutter.
func MakeNibbleLookupTable(table [16]byte) (t NibbleLookupTable) {
	return simd.MakeNibbleLookupTable(table)
}

var (
	// SeqASCIITable maps 4-bit seq[] values to their ASCII representations.
	// It's a common argument for UnpackAndReplaceSeqSubset().
	SeqASCIITable = MakeNibbleLookupTable([16]byte{'=', 'A', 'C', 'M', 'G', 'R', 'S', 'V', 'T', 'W', 'Y', 'H', 'K', 'D', 'B', 'N'})
)

// UnpackAndReplaceSeqSubset sets the bytes in dst[] as follows:
//   if srcPos is even, dst[srcPos-startPos] := table[src[srcPos / 2] >> 4]
//   if srcPos is odd, dst[srcPos-startPos] := table[src[srcPos / 2] & 15]
// It panics if len(dst) != endPos - startPos, startPos < 0, or
// len(src) * 2 < endPos.
func UnpackAndReplaceSeqSubset(dst, src []byte, tablePtr *NibbleLookupTable, startPos, endPos int) {
	if (startPos < 0) || (len(src)*2 < endPos) {
		errstr := fmt.Sprintf("UnpackAndReplaceSeqSubset() requires 0 <= startPos <= endPos <= 2 * len(src).\n  len(src) = %d\n  src = %v\n  startPos = %d\n  endPos = %d\n", len(src), src, startPos, endPos)
		panic(errstr)
	}
	dstLen := len(dst)
	if dstLen != endPos-startPos {
		errstr := fmt.Sprintf("UnpackAndReplaceSeqSubset() requires len(dst) == endPos - startPos.\n  len(dst) = %d\n  startPos = %d\n  endPos = %d\n", dstLen, startPos, endPos)
		panic(errstr)
	}
	if dstLen == 0 {
		return
	}
	startOffset := startPos >> 1
	startPosOdd := startPos & 1
	if startPosOdd == 1 {
		dst[0] = tablePtr.Get(src[startOffset] & 15)
		startOffset++
	}
	nSrcFullByte := (dstLen - startPosOdd) >> 1
	for srcPos := 0; srcPos != nSrcFullByte; srcPos++ {
		srcByte := src[srcPos+startOffset]
		dst[2*srcPos+startPosOdd] = tablePtr.Get(srcByte >> 4)
		dst[2*srcPos+1+startPosOdd] = tablePtr.Get(srcByte & 15)
	}
	if endPos&1 == 1 {
		srcByte := src[nSrcFullByte+startOffset]
		dst[dstLen-1] = tablePtr.Get(srcByte >> 4)
	}
}
