/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package pidcontroller generates a monotonic sequence of intermediate
// values between two floats, spaced by a simple proportional-integral-
// derivative step law instead of fixed linear increments.
package pidcontroller

import (
	"context"
)

// PID walks from a start value to an end value, emitting intermediate
// points whose spacing is driven by the controller's gains: higher
// proportional/integral gains converge faster (fewer, larger steps),
// higher derivative gain damps the step size as the remaining distance
// shrinks.
type PID interface {
	// RangeCtx returns start, zero or more intermediate values, and end.
	// It returns early with whatever was produced so far if ctx is
	// canceled before reaching end.
	RangeCtx(ctx context.Context, start, end float64) []float64
}

// New returns a PID controller with the given proportional, integral and
// derivative gains. Gains may be zero or negative; RangeCtx falls back to
// an even linear split of the range when the computed step is not usable.
func New(rateP, rateI, rateD float64) PID {
	return &pid{kp: rateP, ki: rateI, kd: rateD}
}
