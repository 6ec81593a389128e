// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/bulb"
)

// The two uniform records below are binary contracts with the WGSL shader:
// field order, size and alignment are fixed, and the shader may be compiled
// by a different toolchain than this package. They are therefore serialized
// explicitly with encoding/binary rather than cast from Go structs.

// frameParamsSize is the per-frame uniform: vec4 (camera pos + power),
// vec2 (pitch, yaw), time, aspect. 8 floats, 32 bytes, 16-byte aligned.
const frameParamsSize = 32

// sessionParamsSize is the session uniform written once at init:
// vec2<u32> resolution, march/iteration caps, and the float tunables.
// 32 bytes, 16-byte aligned.
const sessionParamsSize = 32

// packFrameParams serializes the per-frame camera state. The camera power
// is expected to be clamped already.
func packFrameParams(cam bulb.Camera, aspect float32) []byte {
	buf := make([]byte, frameParamsSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:], math.Float32bits(cam.Position.X))
	le.PutUint32(buf[4:], math.Float32bits(cam.Position.Y))
	le.PutUint32(buf[8:], math.Float32bits(cam.Position.Z))
	le.PutUint32(buf[12:], math.Float32bits(cam.Power))
	le.PutUint32(buf[16:], math.Float32bits(cam.Pitch))
	le.PutUint32(buf[20:], math.Float32bits(cam.Yaw))
	le.PutUint32(buf[24:], math.Float32bits(cam.Time))
	le.PutUint32(buf[28:], math.Float32bits(aspect))
	return buf
}

// packSessionParams serializes the session-fixed tunables.
func packSessionParams(cfg bulb.Config) []byte {
	buf := make([]byte, sessionParamsSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:], uint32(cfg.Width))
	le.PutUint32(buf[4:], uint32(cfg.Height))
	le.PutUint32(buf[8:], uint32(cfg.MaxSteps))
	le.PutUint32(buf[12:], uint32(cfg.MaxIter))
	le.PutUint32(buf[16:], math.Float32bits(cfg.Bailout))
	le.PutUint32(buf[20:], math.Float32bits(cfg.Epsilon))
	le.PutUint32(buf[24:], math.Float32bits(cfg.Damping))
	le.PutUint32(buf[28:], math.Float32bits(cfg.MaxDist))
	return buf
}

// unpackPixels copies the GPU's packed r|g<<8|b<<16|a<<24 words into the
// frame's RGBA byte layout.
func unpackPixels(packed []byte, dst []uint8, pixelCount int) {
	for i := 0; i < pixelCount; i++ {
		val := binary.LittleEndian.Uint32(packed[i*4:])
		j := i * 4
		dst[j+0] = uint8(val & 0xFF)
		dst[j+1] = uint8((val >> 8) & 0xFF)
		dst[j+2] = uint8((val >> 16) & 0xFF)
		dst[j+3] = uint8((val >> 24) & 0xFF)
	}
}
