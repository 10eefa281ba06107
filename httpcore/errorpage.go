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
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// defang HTML-escapes '<' and '>' and truncates to dfsize-5, matching the
// original's argument-sanitizing helper used before substitution into an
// error page template.
func defang(s string, dfsize int) string {
	var b strings.Builder
	limit := dfsize - 5
	if limit < 0 {
		limit = 0
	}

	for _, r := range s {
		if b.Len() >= limit {
			break
		}
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// needsErrorPadding reports whether userAgent matches a legacy browser
// known to substitute its own "friendly" error page for any body under a
// size threshold; thttpd pads such responses with an HTML comment so its
// own error page is what the user actually sees.
func needsErrorPadding(userAgent string) bool {
	return strings.Contains(userAgent, "MSIE")
}

const errorPadding = 2048

// errorPageTemplate is the minimal synthesized body used when no
// per-virtual-host or server-wide errNNN.html exists.
const errorPageTemplate = `<html>
<head><title>%d %s</title></head>
<body>
<h1>%s</h1>
%s
</body>
</html>
`

// BuildErrorPage returns the HTML body for a status, preferring a
// configured errNNN.html file if present, else synthesizing one from the
// given extra detail (already untrusted, so it goes through defang).
func BuildErrorPage(errorPageDir string, status int, extra string, userAgent string) []byte {
	if errorPageDir != "" {
		p := filepath.Join(errorPageDir, fmt.Sprintf("err%d.html", status))
		if body, err := os.ReadFile(p); err == nil {
			return padIfNeeded(body, userAgent)
		}
	}

	title := StatusTitle(status)
	safe := defang(extra, 2000)

	body := []byte(fmt.Sprintf(errorPageTemplate, status, title, title, safe))
	return padIfNeeded(body, userAgent)
}

func padIfNeeded(body []byte, userAgent string) []byte {
	if !needsErrorPadding(userAgent) || len(body) >= errorPadding {
		return body
	}

	pad := errorPadding - len(body)
	filler := "<!-- " + strings.Repeat("p", pad) + " -->\n"
	return append(body, []byte(filler)...)
}
