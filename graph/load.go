// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"cogentcore.org/webonnx/attribute"
)

// ModelProto / GraphProto / NodeProto / ValueInfoProto / TypeProto field
// numbers, restricted to the subset the compiler's contract depends on:
// op type, input/output names, attributes, and fully-resolved shapes.
const (
	fieldModelOpsetImport protowire.Number = 8
	fieldModelGraph       protowire.Number = 7

	fieldOpsetVersion protowire.Number = 2

	fieldGraphNode        protowire.Number = 1
	fieldGraphName        protowire.Number = 2
	fieldGraphInitializer protowire.Number = 5
	fieldGraphInput       protowire.Number = 11
	fieldGraphOutput      protowire.Number = 12
	fieldGraphValueInfo   protowire.Number = 13

	fieldNodeInput     protowire.Number = 1
	fieldNodeOutput    protowire.Number = 2
	fieldNodeName      protowire.Number = 3
	fieldNodeOpType    protowire.Number = 4
	fieldNodeAttribute protowire.Number = 5

	fieldValueInfoName protowire.Number = 1
	fieldValueInfoType protowire.Number = 2

	fieldTypeTensorType protowire.Number = 1

	fieldTensorTypeElemType protowire.Number = 1
	fieldTensorTypeShape    protowire.Number = 2

	fieldTensorShapeDim protowire.Number = 1

	fieldDimValue protowire.Number = 1
	fieldDimParam protowire.Number = 2

	fieldTensorDims      protowire.Number = 1
	fieldTensorDataType  protowire.Number = 2
	fieldTensorFloatData protowire.Number = 4
	fieldTensorInt32Data protowire.Number = 5
	fieldTensorInt64Data protowire.Number = 7
	fieldTensorName      protowire.Number = 8
	fieldTensorRawData   protowire.Number = 9
)

// Load decodes a serialized ModelProto (the operator-exchange format's
// top-level wire message) into a [Graph].
func Load(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("graph: reading model: %w", err)
	}
	return Parse(data)
}

// Parse decodes an already-buffered ModelProto payload into a [Graph].
func Parse(data []byte) (*Graph, error) {
	modelFields, err := decodeMessage(data)
	if err != nil {
		return nil, fmt.Errorf("graph: decoding model: %w", err)
	}

	// Left at 0 when the model declares no opset import.
	var opsetVersion int64
	for _, opset := range bytesFields(modelFields, fieldModelOpsetImport) {
		opsetFields, err := decodeMessage(opset)
		if err != nil {
			return nil, fmt.Errorf("graph: decoding opset import: %w", err)
		}
		if v, ok := firstVarint(opsetFields, fieldOpsetVersion); ok {
			opsetVersion = int64(v)
		}
	}

	graphBytes := firstBytes(modelFields, fieldModelGraph)
	if graphBytes == nil {
		return nil, fmt.Errorf("graph: model has no graph field")
	}
	g, err := parseGraph(graphBytes)
	if err != nil {
		return nil, err
	}
	g.OpsetVersion = opsetVersion
	return g, nil
}

func firstBytes(fields []field, num protowire.Number) []byte {
	for _, f := range fields {
		if f.num == num && f.typ == protowire.BytesType {
			return f.bytes
		}
	}
	return nil
}

func parseGraph(data []byte) (*Graph, error) {
	fields, err := decodeMessage(data)
	if err != nil {
		return nil, fmt.Errorf("graph: decoding graph: %w", err)
	}

	g := &Graph{Name: firstString(fields, fieldGraphName)}

	for _, nb := range bytesFields(fields, fieldGraphNode) {
		n, err := parseNode(nb)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, n)
	}
	for _, vb := range bytesFields(fields, fieldGraphInput) {
		vi, err := parseValueInfo(vb)
		if err != nil {
			return nil, err
		}
		g.Inputs = append(g.Inputs, vi)
	}
	for _, vb := range bytesFields(fields, fieldGraphOutput) {
		vi, err := parseValueInfo(vb)
		if err != nil {
			return nil, err
		}
		g.Outputs = append(g.Outputs, vi)
	}
	for _, vb := range bytesFields(fields, fieldGraphValueInfo) {
		vi, err := parseValueInfo(vb)
		if err != nil {
			return nil, err
		}
		g.ValueInfo = append(g.ValueInfo, vi)
	}
	for _, tb := range bytesFields(fields, fieldGraphInitializer) {
		vi, err := parseInitializer(tb)
		if err != nil {
			return nil, err
		}
		g.Initializers = append(g.Initializers, vi)
	}

	return g, nil
}

func parseNode(data []byte) (Node, error) {
	fields, err := decodeMessage(data)
	if err != nil {
		return Node{}, fmt.Errorf("graph: decoding node: %w", err)
	}

	n := Node{
		Name:   firstString(fields, fieldNodeName),
		OpType: firstString(fields, fieldNodeOpType),
	}
	for _, b := range bytesFields(fields, fieldNodeInput) {
		n.Input = append(n.Input, string(b))
	}
	for _, b := range bytesFields(fields, fieldNodeOutput) {
		n.Output = append(n.Output, string(b))
	}
	for _, ab := range bytesFields(fields, fieldNodeAttribute) {
		name, v, err := decodeAttribute(ab)
		if err != nil {
			return Node{}, fmt.Errorf("graph: node %q: %w", n.Name, err)
		}
		if n.Attribute == nil {
			n.Attribute = map[string]attribute.Value{}
		}
		n.Attribute[name] = v
	}
	return n, nil
}

func parseValueInfo(data []byte) (ValueInfo, error) {
	fields, err := decodeMessage(data)
	if err != nil {
		return ValueInfo{}, fmt.Errorf("graph: decoding value_info: %w", err)
	}

	vi := ValueInfo{Name: firstString(fields, fieldValueInfoName)}

	typeBytes := firstBytes(fields, fieldValueInfoType)
	if typeBytes == nil {
		return vi, nil
	}
	typeFields, err := decodeMessage(typeBytes)
	if err != nil {
		return ValueInfo{}, fmt.Errorf("graph: decoding type: %w", err)
	}
	tensorTypeBytes := firstBytes(typeFields, fieldTypeTensorType)
	if tensorTypeBytes == nil {
		return vi, nil
	}
	tensorTypeFields, err := decodeMessage(tensorTypeBytes)
	if err != nil {
		return ValueInfo{}, fmt.Errorf("graph: decoding tensor_type: %w", err)
	}
	if et, ok := firstVarint(tensorTypeFields, fieldTensorTypeElemType); ok {
		vi.DataType = int32(et)
	}
	shapeBytes := firstBytes(tensorTypeFields, fieldTensorTypeShape)
	if shapeBytes == nil {
		return vi, nil
	}
	shapeFields, err := decodeMessage(shapeBytes)
	if err != nil {
		return ValueInfo{}, fmt.Errorf("graph: decoding tensor_shape: %w", err)
	}
	for _, db := range bytesFields(shapeFields, fieldTensorShapeDim) {
		dimFields, err := decodeMessage(db)
		if err != nil {
			return ValueInfo{}, fmt.Errorf("graph: decoding dimension: %w", err)
		}
		if v, ok := firstVarint(dimFields, fieldDimValue); ok {
			vi.Dims = append(vi.Dims, int64(v))
			vi.DimParams = append(vi.DimParams, "")
		} else {
			vi.Dims = append(vi.Dims, 0)
			vi.DimParams = append(vi.DimParams, firstString(dimFields, fieldDimParam))
		}
	}
	return vi, nil
}

func parseInitializer(data []byte) (ValueInfo, error) {
	fields, err := decodeMessage(data)
	if err != nil {
		return ValueInfo{}, fmt.Errorf("graph: decoding initializer: %w", err)
	}
	vi := ValueInfo{Name: firstString(fields, fieldTensorName)}
	if dt, ok := firstVarint(fields, fieldTensorDataType); ok {
		vi.DataType = int32(dt)
	}
	dims, err := packedOrRepeatedVarints(fields, fieldTensorDims)
	if err != nil {
		return ValueInfo{}, err
	}
	vi.Dims = dims
	vi.DimParams = make([]string, len(dims))

	vi.Data, err = initializerData(fields, vi.DataType)
	if err != nil {
		return ValueInfo{}, fmt.Errorf("graph: initializer %q: %w", vi.Name, err)
	}
	return vi, nil
}

// tensorDataTypeI64 is the operator-format data-type code for 64-bit
// integers, whose payloads are narrowed to 32-bit lanes for the GPU.
const tensorDataTypeI64 = 7

// initializerData extracts a TensorProto's constant payload in the
// engine's buffer layout. The wire format stores it either as raw
// little-endian bytes or as one of the typed repeated fields.
func initializerData(fields []field, dataType int32) ([]byte, error) {
	if raw := firstBytes(fields, fieldTensorRawData); raw != nil {
		if dataType == tensorDataTypeI64 {
			return narrowInt64Bytes(raw)
		}
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	}

	if floats := packedOrRepeatedFloats(fields, fieldTensorFloatData); len(floats) > 0 {
		out := make([]byte, 0, 4*len(floats))
		for _, f := range floats {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
		}
		return out, nil
	}

	for _, num := range []protowire.Number{fieldTensorInt32Data, fieldTensorInt64Data} {
		ints, err := packedOrRepeatedVarints(fields, num)
		if err != nil {
			return nil, err
		}
		if len(ints) > 0 {
			out := make([]byte, 0, 4*len(ints))
			for _, v := range ints {
				out = binary.LittleEndian.AppendUint32(out, uint32(int32(v)))
			}
			return out, nil
		}
	}
	return nil, nil
}

// narrowInt64Bytes converts an 8-byte-per-element little-endian payload to
// the 4-byte lanes the shaders address, truncating each element.
func narrowInt64Bytes(raw []byte) ([]byte, error) {
	if len(raw)%8 != 0 {
		return nil, fmt.Errorf("raw int64 payload is %d bytes, not a multiple of 8", len(raw))
	}
	out := make([]byte, 0, len(raw)/2)
	for i := 0; i < len(raw); i += 8 {
		v := binary.LittleEndian.Uint64(raw[i:])
		out = binary.LittleEndian.AppendUint32(out, uint32(v))
	}
	return out, nil
}
