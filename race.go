// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package disruptor

// RaceEnabled is true when the race detector is active.
// The concurrent tests and examples are excluded from race runs with
// //go:build !race: they trigger false positives because the detector
// cannot observe happens-before edges established through atomix
// acquire/release orderings on separate variables.
const RaceEnabled = true
