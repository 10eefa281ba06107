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

// Package connmgr owns the connection pool, the per-connection state
// machine and the per-URL throttle table. It is the one package that ties
// oracle, timer, filecache, httpcore and cgi together into the single
// cooperative accept/read/send loop: everything it does runs on the main
// loop's goroutine, and the only blocking call anywhere in it is the one
// the main loop itself makes on the oracle.
//
// A Conn moves FREE -> READING -> SENDING (<-> PAUSING on throttle
// back-pressure) -> LINGERING -> FREE. Leaving FREE means a slot is
// claimed from the Pool, registered with the Oracle and (almost always)
// has a timer running against it; returning to FREE undoes all three in
// the same step, never partially.
package connmgr
