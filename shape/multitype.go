// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shape

import "fmt"

// multiKind discriminates the three forms a [MultiType] can take.
type multiKind uint8

const (
	kindScalar multiKind = iota
	kindVec
	kindMat
)

// MultiType is either a bare [ScalarType], a packed vector of 2, 3 or 4
// lanes, or a small matrix. Vectors and matrices are used for the WGSL
// types the shader templates declare for coalesced buffer access (e.g.
// vec4<f32>, mat4x4<f32>). Stride is always derived, never stored.
type MultiType struct {
	kind   multiKind
	scalar ScalarType
	n      int // vector lane count, for kindVec
	r, c   int // matrix rows/cols, for kindMat
}

// Scalar wraps a bare scalar type as a MultiType.
func Scalar(s ScalarType) MultiType { return MultiType{kind: kindScalar, scalar: s} }

// Vec returns a packed vector MultiType of n lanes (n must be 2, 3, or 4).
func Vec(s ScalarType, n int) MultiType { return MultiType{kind: kindVec, scalar: s, n: n} }

// Mat returns an r-by-c matrix MultiType.
func Mat(s ScalarType, r, c int) MultiType { return MultiType{kind: kindMat, scalar: s, r: r, c: c} }

// ForSize chooses the widest vector width in {4, 2, 1} that evenly divides
// n, so that a buffer of n scalars can be addressed with coalesced
// vec4/vec2/scalar loads in the generated shader.
func ForSize(n uint64, scalar ScalarType) MultiType {
	switch {
	case n%4 == 0:
		return Vec(scalar, 4)
	case n%2 == 0:
		return Vec(scalar, 2)
	default:
		return Scalar(scalar)
	}
}

// Elements returns the number of scalar lanes packed into one value of mt
// (1 for a bare scalar, n for Vec, r*c for Mat).
func (mt MultiType) Elements() int {
	switch mt.kind {
	case kindVec:
		return mt.n
	case kindMat:
		return mt.r * mt.c
	default:
		return 1
	}
}

// Stride returns the byte size of one value of mt as WGSL lays it out,
// honoring the vec3-is-really-vec4-sized alignment rule.
func (mt MultiType) Stride() uint64 {
	base := mt.scalar.Stride()
	switch mt.kind {
	case kindScalar:
		return base
	case kindVec:
		n := mt.n
		if n == 3 {
			// WGSL aligns vec3 the same as vec4.
			n = 4
		}
		return base * uint64(n)
	case kindMat:
		// Each column is vec-aligned the same way a Vec of mt.r would be.
		colLanes := mt.r
		if colLanes == 3 {
			colLanes = 4
		}
		return base * uint64(colLanes) * uint64(mt.c)
	default:
		return base
	}
}

// WGSLTypeName returns the WGSL type name for mt, e.g. "f32", "vec4<f32>",
// "mat4x4<f32>".
func (mt MultiType) WGSLTypeName() string {
	scalarName := mt.scalar.WGSLTypeName()
	switch mt.kind {
	case kindScalar:
		return scalarName
	case kindVec:
		return fmt.Sprintf("vec%d<%s>", mt.n, scalarName)
	case kindMat:
		return fmt.Sprintf("mat%dx%d<%s>", mt.c, mt.r, scalarName)
	default:
		return scalarName
	}
}
