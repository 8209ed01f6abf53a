// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"embed"

	"cogentcore.org/webonnx/shadertemplate"
)

//go:embed templates
var templatesFS embed.FS

// Templates is the process-wide, immutable catalog of shader templates
// every op handler renders against. Parsing is deferred to the first
// [shadertemplate.Registry.Render] call and is safe under concurrent
// first use.
var Templates = shadertemplate.New(templatesFS,
	"templates/*.wgsl",
	"templates/*/*.wgsl",
)
