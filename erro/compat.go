package erro

var (
	defaultPattern      = "[Error #%d] %s"
	defaultPatternTrace = "[Error #%d] %s (%s)"
)

func SetDefaultPattern(pattern string) {
	defaultPattern = pattern
}

func GetDefaultPattern() string {
	return defaultPattern
}

func SetDefaultPatternTrace(patternTrace string) {
	defaultPatternTrace = patternTrace
}

func GetDefaultPatternTrace() string {
	return defaultPatternTrace
}

// SetTracePathFilter customizes the prefix stripped from file paths in traces.
func SetTracePathFilter(path string) {
	filterPkg = path
}
