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

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	liberr "github.com/nabbar/thttpd-core/erro"
)

// MaxSymlinkHops bounds the component-by-component symlink walk in
// ResolvePath, the same way the original caps MAX_LINKS to break cycles.
const MaxSymlinkHops = 32

// ResolveOptions carries the slice of CoreConfig the resolution pipeline
// actually needs, so httpcore never imports the config package (which
// would invert the ambient/domain dependency direction).
type ResolveOptions struct {
	DocumentRoot   string
	TildePrefix    string // if non-empty, "~name" maps under this prefix
	TildeUserPost  string // if non-empty, "~name" maps to that user's home + this postfix
	VirtualHost    bool
	VHostDirLevels int
	LocalHostname  string // socket-derived fallback host for vhosting
}

// ResolveResult is what ResolvePath hands back to the dispatcher.
type ResolveResult struct {
	ExpandedPath string // relative to DocumentRoot, safe to os.Open(filepath.Join(root, ExpandedPath))
	PathInfo     string
	TildeMapped  bool
}

// ResolvePath runs the tilde/vhost/symlink/safety pipeline described for
// the URL-to-filesystem mapping step. decodedPath is already
// percent-decoded and canonicalized.
func ResolvePath(opt ResolveOptions, decodedPath, reqHost string) (ResolveResult, liberr.Error) {
	path := strings.TrimPrefix(decodedPath, "/")
	tildeMapped := false

	if strings.HasPrefix(path, "~") {
		mapped, err := expandTilde(opt, path)
		if err != nil {
			return ResolveResult{}, err
		}
		path = mapped
		tildeMapped = true
	} else if opt.VirtualHost {
		host := firstNonEmpty(reqHost, opt.LocalHostname)
		host = strings.ToLower(host)
		if host != "" {
			path = vhostPrefix(host, opt.VHostDirLevels) + "/" + path
		}
	}

	real, pathInfo, err := walkSymlinks(opt.DocumentRoot, path)
	if err != nil {
		return ResolveResult{}, err
	}

	return ResolveResult{ExpandedPath: real, PathInfo: pathInfo, TildeMapped: tildeMapped}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func expandTilde(opt ResolveOptions, path string) (string, liberr.Error) {
	rest := strings.TrimPrefix(path, "~")

	if opt.TildePrefix != "" {
		return filepath.Join(opt.TildePrefix, rest), nil
	}

	if opt.TildeUserPost == "" {
		return "", ErrNotFound.Error()
	}

	slash := strings.IndexByte(rest, '/')
	name := rest
	tail := ""
	if slash >= 0 {
		name = rest[:slash]
		tail = rest[slash+1:]
	}

	u, lookErr := user.Lookup(name)
	if lookErr != nil {
		return "", ErrNotFound.Error()
	}

	home, resolveErr := filepath.EvalSymlinks(filepath.Join(u.HomeDir, opt.TildeUserPost))
	if resolveErr != nil {
		return "", ErrNotFound.Error()
	}

	return filepath.Join(home, tail), nil
}

func vhostPrefix(host string, levels int) string {
	if levels <= 0 || len(host) < levels {
		return host
	}

	var b strings.Builder
	for i := 0; i < levels; i++ {
		b.WriteByte(host[i])
		b.WriteByte('/')
	}
	b.WriteString(host)
	return b.String()
}

// walkSymlinks performs a component-by-component walk under root,
// following symlinks up to MaxSymlinkHops, refusing to step outside root,
// and returning the first non-existent trailing component run as
// path-info, mirroring the original's chroot-aware resolver.
func walkSymlinks(root, relPath string) (real, pathInfo string, lerr liberr.Error) {
	segs := strings.Split(relPath, "/")

	cur := root
	hops := 0
	consumed := make([]string, 0, len(segs))

	for i, seg := range segs {
		if seg == "" {
			continue
		}

		next := filepath.Join(cur, seg)
		info, statErr := os.Lstat(next)
		if statErr != nil {
			return filepath.Join(consumed...), strings.Join(segs[i:], "/"), nil
		}

		for info.Mode()&os.ModeSymlink != 0 {
			hops++
			if hops > MaxSymlinkHops {
				return "", "", ErrInternal.Error()
			}

			target, readErr := os.Readlink(next)
			if readErr != nil {
				return "", "", ErrInternal.Error()
			}

			if filepath.IsAbs(target) {
				next = target
			} else {
				next = filepath.Join(filepath.Dir(next), target)
			}

			rel, relErr := filepath.Rel(root, next)
			if relErr != nil || strings.HasPrefix(rel, "..") {
				return "", "", ErrForbidden.Error()
			}

			info, statErr = os.Lstat(next)
			if statErr != nil {
				return filepath.Join(consumed...), strings.Join(segs[i:], "/"), nil
			}
		}

		consumed = append(consumed, seg)
		cur = next
	}

	rel, relErr := filepath.Rel(root, cur)
	if relErr != nil || strings.HasPrefix(rel, "..") {
		return "", "", ErrForbidden.Error()
	}

	return rel, "", nil
}
