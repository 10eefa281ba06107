package erro

import (
	"math"
	"reflect"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

var idMsgFct = make(map[CodeError]Message)

// Message generates the human-readable text for a registered CodeError.
type Message func(code CodeError) (message string)

// CodeError is a numeric error classification. Component-internal codes use
// the bands in modules.go; codes surfaced to the wire by httpcore equal the
// HTTP status they become (400, 401, 403, 404, 500, 501, 503).
type CodeError uint16

const (
	UnknownError   CodeError = 0
	UnknownMessage           = "unknown error"
	NullMessage              = ""
)

// ParseCodeError clamps an int64 into the valid CodeError range.
func ParseCodeError(i int64) CodeError {
	if i < 0 {
		return UnknownError
	} else if i >= int64(math.MaxUint16) {
		return math.MaxUint16
	}
	return CodeError(i)
}

func NewCodeError(code uint16) CodeError {
	return CodeError(code)
}

func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

func (c CodeError) Int() int {
	return int(c)
}

func (c CodeError) String() string {
	return strconv.Itoa(c.Int())
}

// Message returns the registered text for c, or UnknownMessage.
func (c CodeError) Message() string {
	if c == UnknownError {
		return UnknownMessage
	}

	if f, ok := idMsgFct[findCodeErrorInMapMessage(c)]; ok {
		if m := f(c); m != "" {
			return m
		}
	}

	return UnknownMessage
}

// Error builds an Error carrying this code, its registered message, and the given parents.
func (c CodeError) Error(p ...error) Error {
	return New(c.Uint16(), c.Message(), p...)
}

// Errorf is Error with the registered message used as an fmt pattern.
func (c CodeError) Errorf(args ...interface{}) Error {
	m := c.Message()

	if !strings.Contains(m, "%") {
		return New(c.Uint16(), m)
	}

	if n := strings.Count(m, "%"); n < len(args) {
		return Newf(c.Uint16(), m, args[:n]...)
	}
	return Newf(c.Uint16(), m, args...)
}

func (c CodeError) IfError(e ...error) Error {
	return IfError(c.Uint16(), c.Message(), e...)
}

// GetCodePackages maps each registered code to the source file that registered it.
func GetCodePackages(rootPackage string) map[CodeError]string {
	res := make(map[CodeError]string)

	for i, f := range idMsgFct {
		p := reflect.ValueOf(f).Pointer()
		n, _ := runtime.FuncForPC(p).FileLine(p)

		if strings.Contains(n, "/vendor/") {
			a := strings.SplitN(n, "/vendor/", 2)
			n = a[1]
		}

		if strings.Contains(n, rootPackage) {
			a := strings.SplitN(n, rootPackage, 2)
			n = a[1]
		}

		if !strings.HasPrefix(n, "/") {
			n = "/" + n
		}

		res[i] = n
	}

	return res
}

// RegisterIdFctMessage binds a Message function to the band starting at minCode.
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	if idMsgFct == nil {
		idMsgFct = make(map[CodeError]Message)
	}

	idMsgFct[minCode] = fct
	orderMapMessage()
}

func ExistInMapMessage(code CodeError) bool {
	if f, ok := idMsgFct[findCodeErrorInMapMessage(code)]; ok {
		if m := f(code); m != NullMessage {
			return true
		}
	}
	return false
}

func getMapMessageKey() []CodeError {
	keys := make([]int, 0)
	res := make([]CodeError, 0)

	for k := range idMsgFct {
		keys = append(keys, int(k.Uint16()))
	}

	sort.Ints(keys)

	for _, k := range keys {
		var i CodeError
		if k < 0 {
			i = 0
		} else if k > math.MaxUint16 {
			i = math.MaxUint16
		} else {
			i = CodeError(k)
		}
		res = append(res, i)
	}

	return res
}

func orderMapMessage() {
	res := make(map[CodeError]Message)
	for _, k := range getMapMessageKey() {
		res[k] = idMsgFct[k]
	}
	idMsgFct = res
}

func findCodeErrorInMapMessage(code CodeError) CodeError {
	var res CodeError = 0
	for _, k := range getMapMessageKey() {
		if k <= code && k > res {
			res = k
		}
	}
	return res
}

func isCodeInSlice(code CodeError, slice []CodeError) bool {
	for _, c := range slice {
		if c == code {
			return true
		}
	}
	return false
}

func unicCodeSlice(slice []CodeError) []CodeError {
	res := make([]CodeError, 0)
	for _, c := range slice {
		if !isCodeInSlice(c, res) {
			res = append(res, c)
		}
	}
	return res
}
