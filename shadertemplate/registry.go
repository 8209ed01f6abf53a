// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shadertemplate provides a process-lifetime registry of WGSL
// shader templates, parsed once from an embedded filesystem and rendered
// with a per-call variable binding.
package shadertemplate

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"text/template"
)

// funcs are the template helper functions every shader template may use.
var funcs = template.FuncMap{
	"add":   func(a, b int) int { return a + b },
	"sub":   func(a, b int) int { return a - b },
	"mul":   func(a, b int) int { return a * b },
	"lower": strings.ToLower,
}

// Registry is a lazily-and-once-parsed set of named shader templates,
// constructed with [New]; a zero Registry has no file system or globs and
// panics on its first [Registry.Render]. Parsing happens on the first
// [Registry.Render] call and is safe for concurrent use thereafter.
type Registry struct {
	fsys  fs.FS
	globs []string

	once      sync.Once
	parseErr  error
	templates *template.Template
}

// New returns a Registry that will load every file matching any of globs
// (fs.Glob patterns — each matches exactly one path-segment depth, so a
// tree with templates at several depths needs one glob per depth) from
// fsys. Parsing is deferred to first use.
func New(fsys fs.FS, globs ...string) *Registry {
	return &Registry{fsys: fsys, globs: globs}
}

// load parses all template files the first time it is called.
func (r *Registry) load() {
	r.once.Do(func() {
		var names []string
		for _, glob := range r.globs {
			matches, err := fs.Glob(r.fsys, glob)
			if err != nil {
				r.parseErr = fmt.Errorf("shadertemplate: globbing %s: %w", glob, err)
				return
			}
			names = append(names, matches...)
		}
		if len(names) == 0 {
			r.parseErr = fmt.Errorf("shadertemplate: no templates matched %v", r.globs)
			return
		}
		root := template.New("")
		for _, name := range names {
			b, err := fs.ReadFile(r.fsys, name)
			if err != nil {
				r.parseErr = fmt.Errorf("shadertemplate: reading %s: %w", name, err)
				return
			}
			key := templateKey(name)
			if _, err := root.New(key).Funcs(funcs).Parse(string(b)); err != nil {
				r.parseErr = fmt.Errorf("shadertemplate: parsing %s: %w", name, err)
				return
			}
		}
		r.templates = root
	})
}

// templateKey turns an embedded file path such as
// "templates/endomorphism/map.wgsl" into the template's lookup name,
// "endomorphism/map.wgsl" — the path relative to the embed root.
func templateKey(name string) string {
	parts := strings.SplitN(name, "/", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return path.Base(name)
}

// Render renders the named template against data, panicking if the
// templates fail to parse (on the first Render call), the named template
// does not exist, or executing it fails — all indicate a programmer error,
// never a caller-recoverable condition.
func (r *Registry) Render(name string, data any) string {
	r.load()
	if r.parseErr != nil {
		panic(r.parseErr)
	}
	t := r.templates.Lookup(name)
	if t == nil {
		panic(fmt.Sprintf("shadertemplate: unknown template %q", name))
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("shadertemplate: rendering %q: %v", name, err))
	}
	return buf.String()
}
