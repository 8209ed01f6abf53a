// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// field is one decoded top-level field of a protobuf message: its field
// number, wire type, and payload. Only the payload matching typ is valid.
type field struct {
	num     protowire.Number
	typ     protowire.Type
	varint  uint64
	fixed32 uint32
	fixed64 uint64
	bytes   []byte
}

// decodeMessage walks the length-delimited/varint/fixed-width fields of a
// protobuf message, preserving the order and repetition of repeated
// fields. It keeps only the wire types the operator-exchange format's
// messages actually use (varint, fixed32, fixed64, bytes); fields of any
// other wire type (groups) are consumed and dropped from the result.
func decodeMessage(data []byte) ([]field, error) {
	var fields []field
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("graph: malformed tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, fmt.Errorf("graph: malformed varint: %w", protowire.ParseError(n))
			}
			f.varint = v
			data = data[n:]
		case protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return nil, fmt.Errorf("graph: malformed fixed32: %w", protowire.ParseError(n))
			}
			f.fixed32 = v
			data = data[n:]
		case protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(data)
			if n < 0 {
				return nil, fmt.Errorf("graph: malformed fixed64: %w", protowire.ParseError(n))
			}
			f.fixed64 = v
			data = data[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, fmt.Errorf("graph: malformed bytes: %w", protowire.ParseError(n))
			}
			f.bytes = v
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("graph: unsupported wire type %d: %w", typ, protowire.ParseError(n))
			}
			data = data[n:]
			continue
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// bytesFields returns, in order, the raw bytes payload of every field
// matching num (used for repeated string/submessage/bytes fields).
func bytesFields(fields []field, num protowire.Number) [][]byte {
	var out [][]byte
	for _, f := range fields {
		if f.num == num && f.typ == protowire.BytesType {
			out = append(out, f.bytes)
		}
	}
	return out
}

// firstString returns the string payload of the first field matching num.
func firstString(fields []field, num protowire.Number) string {
	for _, f := range fields {
		if f.num == num && f.typ == protowire.BytesType {
			return string(f.bytes)
		}
	}
	return ""
}

// firstVarint returns the varint payload of the first field matching num.
func firstVarint(fields []field, num protowire.Number) (uint64, bool) {
	for _, f := range fields {
		if f.num == num && f.typ == protowire.VarintType {
			return f.varint, true
		}
	}
	return 0, false
}

// firstFloat32 returns the fixed32-encoded float payload of the first
// field matching num.
func firstFloat32(fields []field, num protowire.Number) (float32, bool) {
	for _, f := range fields {
		if f.num == num && f.typ == protowire.Fixed32Type {
			return math.Float32frombits(f.fixed32), true
		}
	}
	return 0, false
}

// packedOrRepeatedVarints decodes a repeated int64/int32/enum field that
// may be encoded either packed (one BytesType field holding back-to-back
// varints) or unpacked (one VarintType field per element), per protobuf's
// wire-compatibility rules for proto3.
func packedOrRepeatedVarints(fields []field, num protowire.Number) ([]int64, error) {
	var out []int64
	for _, f := range fields {
		if f.num != num {
			continue
		}
		switch f.typ {
		case protowire.VarintType:
			out = append(out, int64(f.varint))
		case protowire.BytesType:
			b := f.bytes
			for len(b) > 0 {
				v, n := protowire.ConsumeVarint(b)
				if n < 0 {
					return nil, fmt.Errorf("graph: malformed packed varint: %w", protowire.ParseError(n))
				}
				out = append(out, int64(v))
				b = b[n:]
			}
		}
	}
	return out, nil
}

// packedOrRepeatedFloats decodes a repeated float field, packed or not.
func packedOrRepeatedFloats(fields []field, num protowire.Number) []float32 {
	var out []float32
	for _, f := range fields {
		if f.num != num {
			continue
		}
		switch f.typ {
		case protowire.Fixed32Type:
			out = append(out, math.Float32frombits(f.fixed32))
		case protowire.BytesType:
			b := f.bytes
			for len(b) >= 4 {
				v, n := protowire.ConsumeFixed32(b)
				if n < 0 {
					break
				}
				out = append(out, math.Float32frombits(v))
				b = b[n:]
			}
		}
	}
	return out
}
