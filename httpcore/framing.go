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

package httpcore

// frameState walks the byte-level request-completion recognizer. The
// names mirror the original's state list; only Accumulate's caller needs
// to know about the results, not the states themselves.
type frameState int

const (
	stFirstWord frameState = iota
	stFirstWS
	stSecondWord
	stSecondWS
	stThirdWord
	stThirdWS
	stLine
	stLF
	stCR
	stCRLF
	stCRLFCR
	stBogus
)

// FrameResult is what Accumulate reports about a read buffer so far.
type FrameResult int

const (
	NoRequest FrameResult = iota
	GotRequest
	BadRequest
)

// DefaultBufferCap is the grow-on-demand read buffer's ceiling; exceeding
// it while still in NoRequest is itself a BadRequest (400).
const DefaultBufferCap = 16 * 1024

// Accumulate scans buf (the bytes read so far for one request) and
// reports whether it recognizes a complete HTTP/0.9 request line (two
// words followed by a line terminator) or a complete HTTP/1.x request
// (three words followed by a blank-line-terminated header block).
func Accumulate(buf []byte) FrameResult {
	if len(buf) > DefaultBufferCap {
		return BadRequest
	}

	state := stFirstWord

	for _, b := range buf {
		switch state {
		case stFirstWord:
			switch {
			case isSpace(b):
				state = stFirstWS
			case isLineEnd(b):
				return BadRequest
			}
		case stFirstWS:
			switch {
			case isSpace(b):
				// stay
			case isLineEnd(b):
				return BadRequest
			default:
				state = stSecondWord
			}
		case stSecondWord:
			switch {
			case isSpace(b):
				state = stSecondWS
			case isLineEnd(b):
				// The first line has only two words: an HTTP/0.9 request.
				return GotRequest
			}
		case stSecondWS:
			switch {
			case isSpace(b):
				// stay
			case isLineEnd(b):
				return BadRequest
			default:
				state = stThirdWord
			}
		case stThirdWord:
			switch {
			case isSpace(b):
				state = stThirdWS
			case b == '\n':
				state = stLF
			case b == '\r':
				state = stCR
			}
		case stThirdWS:
			switch {
			case isSpace(b):
				// stay
			case b == '\n':
				state = stLF
			case b == '\r':
				state = stCR
			default:
				return BadRequest
			}
		case stLine:
			switch b {
			case '\n':
				state = stLF
			case '\r':
				state = stCR
			}
		case stLF:
			switch b {
			case '\n':
				return GotRequest // blank line: end of header block
			case '\r':
				state = stCR
			default:
				state = stLine
			}
		case stCR:
			switch b {
			case '\n':
				state = stCRLF
			case '\r':
				return GotRequest // two returns in a row
			default:
				state = stLine
			}
		case stCRLF:
			switch b {
			case '\n':
				return GotRequest
			case '\r':
				state = stCRLFCR
			default:
				state = stLine
			}
		case stCRLFCR:
			if b == '\n' || b == '\r' {
				return GotRequest
			}
			state = stLine
		case stBogus:
			return BadRequest
		}
	}

	return NoRequest
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func isLineEnd(b byte) bool {
	return b == '\r' || b == '\n'
}
