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
 *
 */

// Package corectx drives the single-threaded cooperative main loop: it
// owns nothing of the request path itself (that is connmgr's job) but
// repeats, once per iteration, the fixed sequence of §5 - service a
// pending log reopen, compute the next timer deadline, wait on the
// oracle, let the connection manager react to whatever came ready, run
// due timers, and stop once a shutdown has been requested and every
// connection has drained.
//
// Signal delivery in Go is itself async-signal-safe (the runtime turns a
// caught signal into a channel send); CoreContext never does more than
// that translation from a signal-watching goroutine, setting the same
// sort of volatile flags the original's handlers set, read back only at
// the top of the next loop iteration.
package corectx
