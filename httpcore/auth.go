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
	"bufio"
	"encoding/base64"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	liberr "github.com/nabbar/thttpd-core/erro"
)

// htpasswdEntry is one "user:hash" line of an auth file.
type htpasswdEntry struct {
	user string
	hash string
}

// ReadHtpasswd parses an htpasswd-format file: one "user:hash" per line,
// blank lines and lines starting with '#' ignored. It is read-only; the
// editor CGI stays external.
func ReadHtpasswd(path string) ([]htpasswdEntry, liberr.Error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrNotFound.Error(err)
	}
	defer func() { _ = f.Close() }()

	var out []htpasswdEntry

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		out = append(out, htpasswdEntry{user: line[:idx], hash: line[idx+1:]})
	}

	if scanErr := scanner.Err(); scanErr != nil {
		return nil, ErrInternal.Error(scanErr)
	}

	return out, nil
}

// authCacheEntry is the one-deep verified-credential cache keyed on
// (auth file, file mtime, username), avoiding a re-read and re-hash on
// every request from the same authenticated client.
type authCacheEntry struct {
	path     string
	mtime    time.Time
	user     string
	password string
}

// AuthCache holds the single most recent successful credential.
type AuthCache struct {
	mu   sync.Mutex
	last *authCacheEntry
}

// NewAuthCache returns an empty one-deep cache.
func NewAuthCache() *AuthCache {
	return &AuthCache{}
}

func (c *AuthCache) lookup(path string, mtime time.Time, user, password string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.last
	return e != nil && e.path == path && e.mtime.Equal(mtime) && e.user == user && e.password == password
}

func (c *AuthCache) remember(path string, mtime time.Time, user, password string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = &authCacheEntry{path: path, mtime: mtime, user: user, password: password}
}

// CheckBasicAuth decodes a "Basic <base64>" Authorization header value,
// splits it on the first colon, and verifies the credential against the
// htpasswd file at path. A hit in the one-deep cache skips the re-read
// and re-hash entirely.
func CheckBasicAuth(cache *AuthCache, authHeader, path string, mtime time.Time) (user string, ok bool, lerr liberr.Error) {
	const prefix = "Basic "
	if !strings.HasPrefix(authHeader, prefix) {
		return "", false, nil
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(authHeader, prefix))
	if err != nil {
		return "", false, nil
	}

	idx := strings.IndexByte(string(raw), ':')
	if idx < 0 {
		return "", false, nil
	}

	user = string(raw[:idx])
	password := string(raw[idx+1:])

	if cache != nil && cache.lookup(path, mtime, user, password) {
		return user, true, nil
	}

	entries, lerr := ReadHtpasswd(path)
	if lerr != nil {
		return "", false, lerr
	}

	for _, e := range entries {
		if e.user != user {
			continue
		}
		if !verifyHash(e.hash, password) {
			return "", false, nil
		}
		if cache != nil {
			cache.remember(path, mtime, user, password)
		}
		return user, true, nil
	}

	return "", false, nil
}

// verifyHash supports bcrypt ("$2a$"/"$2b$"/"$2y$") hashes, the scheme
// modern htpasswd -B produces. Legacy DES-crypt and apr1-MD5 hashes are
// not verifiable without a crypt(3) binding this module doesn't carry,
// so they always fail closed.
func verifyHash(hash, password string) bool {
	if strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	return false
}
