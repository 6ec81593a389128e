// Package bulb renders the Mandelbulb, a 3D escape-time fractal surface,
// by raymarching a distance-estimation field.
//
// The package provides two interchangeable frame renderers that run the
// identical per-pixel math: a CPU renderer that parallelizes across
// scanline bands (see [NewCPURenderer]), and a WebGPU compute renderer in
// the bulb/gpu subpackage. Given the same [Camera] snapshot and [Config],
// both backends produce the same image up to floating-point rounding.
//
// The core building blocks are exported so they can be recombined:
//
//   - [Field] evaluates the distance estimate, iteration count and orbit
//     trap at a point, and estimates surface normals.
//   - [Marcher] walks a ray through the field with adaptive steps.
//   - [Shader] turns a ray hit (or miss) into a final color.
//
// All hot-path arithmetic is float32 so that CPU results stay comparable
// with the WGSL shader, which only has 32-bit floats.
//
// By default bulb produces no log output. Call [SetLogger] to enable
// structured logging of renderer lifecycle events.
package bulb
