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

package corectx_test

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/thttpd-core/config"
	"github.com/nabbar/thttpd-core/connmgr"
	"github.com/nabbar/thttpd-core/corectx"
	libntp "github.com/nabbar/thttpd-core/network/protocol"
)

var _ = Describe("CoreContext", func() {
	var (
		dir string
		mgr *connmgr.Manager
		cc  *corectx.CoreContext
		port uint16 = 19173
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "corectx")
		Expect(err).ToNot(HaveOccurred())
		Expect(os.WriteFile(filepath.Join(dir, "index.html"), []byte("hi"), 0o644)).To(Succeed())

		port++
		cfg := config.DefaultCoreConfig()
		cfg.DocumentRoot = dir
		cfg.Listen = []config.ServerConfig{{Network: libntp.NetworkTCP, Address: "127.0.0.1", Port: port}}
		cfg.IndexNames = []string{"index.html"}

		mgr, err = connmgr.NewManager(connmgr.Config{Core: cfg, Capacity: 8, CGILimit: 1})
		Expect(err).To(BeNil())
		Expect(mgr.Listen()).To(BeNil())

		cc = corectx.New(mgr, nil)
	})

	AfterEach(func() {
		_ = os.RemoveAll(dir)
	})

	It("serves a request and then stops once shutdown is requested and the pool drains", func() {
		done := make(chan error, 1)
		go func() { done <- cc.Run() }()

		conn, derr := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		Expect(derr).ToNot(HaveOccurred())

		_, werr := conn.Write([]byte("GET /index.html HTTP/1.0\r\n\r\n"))
		Expect(werr).ToNot(HaveOccurred())

		_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		line, _ := bufio.NewReader(conn).ReadString('\n')
		Expect(line).To(ContainSubstring("200"))
		_ = conn.Close()

		cc.RequestShutdown()
		Eventually(done, 3*time.Second).Should(Receive(BeNil()))
	})

	It("rejects new connections once draining, but does not return until idle", func() {
		go func() { _ = cc.Run() }()
		cc.RequestDrain()

		// give the loop a couple iterations to service the drain flag and
		// close the listener.
		Eventually(func() error {
			_, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", port))
			return err
		}, 3*time.Second).Should(HaveOccurred())
	})
})
