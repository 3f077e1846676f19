// Package effects provides the per-sample transforms applied on the live
// playback path.
//
// Available filters:
//   - PassThrough: identity, the neutral default.
//   - Delay: feedback echo at a fixed lag.
//   - Flange: echo at an LFO-modulated lag (swept comb).
//   - Distort: linear gain into a hard clip.
//
// All filters process one sample per call with no allocation and no
// look-ahead, so they are safe inside audio callbacks. Parameters are fixed
// at construction; invalid parameters are rejected there, never during
// streaming.
package effects
