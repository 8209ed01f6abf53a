// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"cogentcore.org/webonnx/attribute"
)

// AttributeProto field numbers this engine decodes. Fields it does not
// understand (tensor- or graph-valued attributes, sparse tensors) are
// left untouched; no node the compiler supports needs them.
const (
	fieldAttrName   protowire.Number = 1
	fieldAttrF      protowire.Number = 2
	fieldAttrI      protowire.Number = 3
	fieldAttrS      protowire.Number = 4
	fieldAttrFloats protowire.Number = 7
	fieldAttrInts   protowire.Number = 8
	fieldAttrType   protowire.Number = 20
)

// AttributeProto.AttributeType values relevant to decoding which payload
// field is meaningful when more than one is technically present.
const (
	attrTypeFloat  = 1
	attrTypeInt    = 2
	attrTypeString = 3
	attrTypeFloats = 6
	attrTypeInts   = 7
)

// decodeAttribute parses one AttributeProto message into a name/Value
// pair. The declared AttributeType (field 20) picks which payload field
// to read; when it is absent (older producers sometimes omit it) the
// first populated payload field wins.
func decodeAttribute(data []byte) (string, attribute.Value, error) {
	fields, err := decodeMessage(data)
	if err != nil {
		return "", attribute.Value{}, err
	}

	name := firstString(fields, fieldAttrName)
	typ, hasType := firstVarint(fields, fieldAttrType)

	pick := func(want int) bool { return !hasType || uint64(want) == typ }

	if f, ok := firstFloat32(fields, fieldAttrF); ok && pick(attrTypeFloat) {
		return name, attribute.Float(float64(f)), nil
	}
	if i, ok := firstVarint(fields, fieldAttrI); ok && pick(attrTypeInt) {
		return name, attribute.Int(int64(i)), nil
	}
	if s := firstString(fields, fieldAttrS); s != "" && pick(attrTypeString) {
		return name, attribute.String(s), nil
	}
	if floats := packedOrRepeatedFloats(fields, fieldAttrFloats); len(floats) > 0 && pick(attrTypeFloats) {
		return name, attribute.Floats(floats), nil
	}
	if ints, err := packedOrRepeatedVarints(fields, fieldAttrInts); err != nil {
		return "", attribute.Value{}, err
	} else if len(ints) > 0 && pick(attrTypeInts) {
		return name, attribute.Ints(ints), nil
	}

	return "", attribute.Value{}, fmt.Errorf("graph: attribute %q has no decodable scalar/list payload", name)
}
