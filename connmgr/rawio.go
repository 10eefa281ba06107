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

package connmgr

import (
	"net"
	"syscall"

	liberr "github.com/nabbar/thttpd-core/erro"
)

// rawFd extracts the kernel descriptor behind a net.Conn. The Go runtime
// always opens accepted sockets O_NONBLOCK, so reads and writes performed
// directly against this descriptor (bypassing conn.Read/conn.Write and
// therefore the runtime's netpoller) are themselves non-blocking, which is
// what lets the main loop drive everything from the Oracle's readiness
// batch instead of a per-connection goroutine.
func rawFd(c net.Conn) (int, liberr.Error) {
	sc, ok := c.(syscall.Conn)
	if !ok {
		return -1, ErrorRawFd.Error()
	}

	rc, err := sc.SyscallConn()
	if err != nil {
		return -1, ErrorRawFd.Error(err)
	}

	var fd int
	err = rc.Control(func(f uintptr) {
		fd = int(f)
	})
	if err != nil {
		return -1, ErrorRawFd.Error(err)
	}

	return fd, nil
}

// wouldBlock reports whether err is the non-blocking "try again" signal,
// the only read/write outcome that leaves a connection's state unchanged
// (still READING, still SENDING) rather than advancing or failing it.
func wouldBlock(err error) bool {
	return err == syscall.EAGAIN || err == syscall.EWOULDBLOCK
}

// nbRead performs one non-blocking read attempt on fd. n==0, err==nil means
// the peer closed its end.
func nbRead(fd int, buf []byte) (int, error) {
	for {
		n, err := syscall.Read(fd, buf)
		if err == syscall.EINTR {
			continue
		}
		return n, err
	}
}

// nbWrite performs one non-blocking write attempt on fd.
func nbWrite(fd int, buf []byte) (int, error) {
	for {
		n, err := syscall.Write(fd, buf)
		if err == syscall.EINTR {
			continue
		}
		return n, err
	}
}
