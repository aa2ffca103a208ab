// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/grailbio/base/simd"
	"github.com/contigio/gbam/biosimd"
)

func unpackAndReplaceSeqSubsetSlow(dst, src []byte, tablePtr *biosimd.NibbleLookupTable, startPos, endPos int) {
	for srcPos := startPos; srcPos != endPos; srcPos++ {
		srcByte := src[srcPos>>1]
		if srcPos&1 == 0 {
			srcByte = srcByte >> 4
		} else {
			srcByte = srcByte & 15
		}
		dst[srcPos-startPos] = tablePtr.Get(srcByte)
	}
}

func TestUnpackAndReplaceSeqSubset(t *testing.T) {
	maxDstSize := 500
	maxSrcSize := (maxDstSize + 1) / 2
	nIter := 200
	srcArr := simd.MakeUnsafe(maxSrcSize)
	dst1Arr := simd.MakeUnsafe(maxDstSize)
	dst2Arr := simd.MakeUnsafe(maxDstSize)
	for iter := 0; iter < nIter; iter++ {
		srcSliceStart := rand.Intn(maxSrcSize - 1)
		// Force nonempty.
		srcSliceEnd := srcSliceStart + 1 + rand.Intn(maxSrcSize-1-srcSliceStart)
		srcSlice := srcArr[srcSliceStart:srcSliceEnd]
		for ii := range srcSlice {
			srcSlice[ii] = byte(rand.Intn(256))
		}
		srcSliceLenX2 := 2 * (srcSliceEnd - srcSliceStart)
		startPos := rand.Intn(srcSliceLenX2)
		endPos := startPos + rand.Intn(srcSliceLenX2-startPos)
		dst1Slice := dst1Arr[:endPos-startPos]
		dst2Slice := dst2Arr[:endPos-startPos]
		sentinel := byte(rand.Intn(256))
		dst2Arr[endPos-startPos] = sentinel
		unpackAndReplaceSeqSubsetSlow(dst1Slice, srcSlice, &biosimd.SeqASCIITable, startPos, endPos)
		biosimd.UnpackAndReplaceSeqSubset(dst2Slice, srcSlice, &biosimd.SeqASCIITable, startPos, endPos)
		if !bytes.Equal(dst1Slice, dst2Slice) {
			t.Fatal("Mismatched UnpackAndReplaceSeqSubset result.")
		}
		if dst2Arr[endPos-startPos] != sentinel {
			t.Fatal("UnpackAndReplaceSeqSubset clobbered an extra byte.")
		}
	}
}

func TestSeqASCIITableRoundTrip(t *testing.T) {
	// 4-bit seq codes 0-15 in BAM order map onto "=ACMGRSVTWYHKDBN".
	want := "=ACMGRSVTWYHKDBN"
	packed := make([]byte, 8)
	for i := 0; i < 16; i++ {
		if i%2 == 0 {
			packed[i/2] |= byte(i) << 4
		} else {
			packed[i/2] |= byte(i)
		}
	}
	got := make([]byte, 16)
	biosimd.UnpackAndReplaceSeqSubset(got, packed, &biosimd.SeqASCIITable, 0, 16)
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
