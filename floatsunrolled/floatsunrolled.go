// floatsunrolled is inspired by the SIMD blog post
// https://github.com/camdencheek/simd_blog/blob/main/main.go
package floatsunrolled

import (
	"github.com/cockroachdb/errors"
)

const UnrollBatch = 4

var (
	ErrSliceLengthMismatch       = errors.New("slices must have equal lengths")
	ErrOutputSliceLengthMismatch = errors.New("output slice length not the same as input")
)

// Dot returns Σ a[i]*b[i]. Panics if the lengths differ.
func Dot(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(ErrSliceLengthMismatch)
	}

	n := len(a) - len(a)%UnrollBatch
	var sum float64
	for i := 0; i < n; i += UnrollBatch {
		aTmp := a[i : i+UnrollBatch : i+UnrollBatch]
		bTmp := b[i : i+UnrollBatch : i+UnrollBatch]
		s0 := aTmp[0] * bTmp[0]
		s1 := aTmp[1] * bTmp[1]
		s2 := aTmp[2] * bTmp[2]
		s3 := aTmp[3] * bTmp[3]
		sum += s0 + s1 + s2 + s3
	}
	for i := n; i < len(a); i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// SubTo writes s - t into dst, allocating dst when nil.
func SubTo(dst, s, t []float64) []float64 {
	if len(s) != len(t) {
		panic(ErrSliceLengthMismatch)
	}

	if dst == nil {
		dst = make([]float64, len(s))
	} else if len(dst) != len(s) {
		panic(ErrOutputSliceLengthMismatch)
	}

	n := len(s) - len(s)%UnrollBatch
	for i := 0; i < n; i += UnrollBatch {
		dstTmp := dst[i : i+UnrollBatch : i+UnrollBatch]
		sTmp := s[i : i+UnrollBatch : i+UnrollBatch]
		tTmp := t[i : i+UnrollBatch : i+UnrollBatch]
		dstTmp[0] = sTmp[0] - tTmp[0]
		dstTmp[1] = sTmp[1] - tTmp[1]
		dstTmp[2] = sTmp[2] - tTmp[2]
		dstTmp[3] = sTmp[3] - tTmp[3]
	}
	for i := n; i < len(s); i++ {
		dst[i] = s[i] - t[i]
	}

	return dst
}

// SumSquaredDiff returns Σ (s[i] - t[i])².
func SumSquaredDiff(s, t []float64) float64 {
	if len(s) != len(t) {
		panic(ErrSliceLengthMismatch)
	}

	n := len(s) - len(s)%UnrollBatch
	var sum float64
	for i := 0; i < n; i += UnrollBatch {
		sTmp := s[i : i+UnrollBatch : i+UnrollBatch]
		tTmp := t[i : i+UnrollBatch : i+UnrollBatch]
		d0 := sTmp[0] - tTmp[0]
		d1 := sTmp[1] - tTmp[1]
		d2 := sTmp[2] - tTmp[2]
		d3 := sTmp[3] - tTmp[3]
		sum += d0*d0 + d1*d1 + d2*d2 + d3*d3
	}
	for i := n; i < len(s); i++ {
		d := s[i] - t[i]
		sum += d * d
	}
	return sum
}

// SumSquaredDev returns Σ (s[i] - c)².
func SumSquaredDev(s []float64, c float64) float64 {
	n := len(s) - len(s)%UnrollBatch
	var sum float64
	for i := 0; i < n; i += UnrollBatch {
		sTmp := s[i : i+UnrollBatch : i+UnrollBatch]
		d0 := sTmp[0] - c
		d1 := sTmp[1] - c
		d2 := sTmp[2] - c
		d3 := sTmp[3] - c
		sum += d0*d0 + d1*d1 + d2*d2 + d3*d3
	}
	for i := n; i < len(s); i++ {
		d := s[i] - c
		sum += d * d
	}
	return sum
}
