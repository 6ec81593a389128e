// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import _ "embed"

// mandelbulbShaderWGSL is the compute shader that renders the bulb. It is
// the shader-side twin of the CPU renderer; the two must implement the
// same math (see the parity test in renderer_test.go).
//
//go:embed shaders/mandelbulb.wgsl
var mandelbulbShaderWGSL string

// ShaderSource returns the WGSL source of the render kernel, mainly so
// external tools (and tests) can validate or cross-compile it.
func ShaderSource() string { return mandelbulbShaderWGSL }
