package erro

import (
	"path"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
)

const (
	pathSeparator = "/"
	pathVendor    = "vendor"
	pathMod       = "mod"
	pathPkg       = "pkg"
	pkgRuntime    = "runtime"
)

var (
	filterPkg = path.Clean(convPathFromLocal(reflect.TypeOf(ers{}).PkgPath()))
	currPkgs  = path.Base(convPathFromLocal(filterPkg))
)

func convPathFromLocal(str string) string {
	return strings.Replace(str, string(filepath.Separator), pathSeparator, -1)
}

func init() {
	if i := strings.LastIndex(filterPkg, pathSeparator+pathVendor+pathSeparator); i != -1 {
		filterPkg = filterPkg[:i+1]
	}
}

func getFrame() runtime.Frame {
	programCounters := make([]uintptr, 20, 255)
	n := runtime.Callers(2, programCounters)

	if n > 0 {
		frames := runtime.CallersFrames(programCounters[:n])
		more := true

		for more {
			var frame runtime.Frame
			frame, more = frames.Next()

			if strings.Contains(frame.Function, currPkgs) {
				continue
			}

			return runtime.Frame{
				Function: frame.Function,
				File:     frame.File,
				Line:     frame.Line,
			}
		}
	}

	return getNilFrame()
}

func getNilFrame() runtime.Frame {
	return runtime.Frame{Function: "", File: "", Line: 0}
}

func filterPath(pathname string) string {
	var (
		filterMod    = pathSeparator + pathPkg + pathSeparator + pathMod + pathSeparator
		filterVendor = pathSeparator + pathVendor + pathSeparator
	)

	pathname = convPathFromLocal(pathname)

	if i := strings.LastIndex(pathname, filterMod); i != -1 {
		i = i + len(filterMod)
		pathname = pathname[i:]
	}

	if i := strings.LastIndex(pathname, filterPkg); i != -1 {
		i = i + len(filterPkg)
		pathname = pathname[i:]
	}

	if i := strings.LastIndex(pathname, filterVendor); i != -1 {
		i = i + len(filterVendor)
		pathname = pathname[i:]
	}

	pathname = path.Clean(pathname)

	return strings.Trim(pathname, pathSeparator)
}
