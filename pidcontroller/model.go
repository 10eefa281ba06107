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

package pidcontroller

import (
	"context"
	"math"
)

// maxSteps bounds how many intermediate points RangeCtx can ever produce,
// so a zero or negative gain combination still terminates promptly.
const maxSteps = 64

type pid struct {
	kp, ki, kd float64
}

func (p *pid) RangeCtx(ctx context.Context, start, end float64) []float64 {
	if ctx == nil {
		ctx = context.Background()
	}

	out := []float64{start}

	if start == end {
		return out
	}

	dir := 1.0
	if end < start {
		dir = -1.0
	}

	span := math.Abs(end - start)
	linear := span / float64(maxSteps)

	var (
		integral float64
		prevErr  = span
		pos      = start
	)

	for i := 0; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		errTerm := math.Abs(end - pos)
		if errTerm == 0 {
			break
		}

		integral += errTerm
		derivative := prevErr - errTerm
		prevErr = errTerm

		step := p.kp*errTerm + p.ki*integral + p.kd*derivative
		if step <= linear/4 {
			step = linear
		}
		if step > errTerm {
			step = errTerm
		}

		pos += dir * step
		out = append(out, pos)

		if (dir > 0 && pos >= end) || (dir < 0 && pos <= end) {
			break
		}
	}

	if out[len(out)-1] != end {
		out = append(out, end)
	}

	return out
}
