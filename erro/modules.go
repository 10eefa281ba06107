package erro

// Component-scoped code bands. Each CORE package registers its own message
// table starting at its Min constant, in the style of the band convention
// this package was adapted from.
const (
	MinPkgOracle   = 1000
	MinPkgTimer    = 1100
	MinPkgCache    = 1200
	MinPkgHttpCore = 1300
	MinPkgCgi      = 1400
	MinPkgConnMgr  = 1500
	MinPkgLogger   = 1600
	MinPkgConfig   = 1700
	MinPkgSize     = 1800
	MinPkgNetwork  = 1900
	MinPkgCoreCtx  = 2000
	MinPkgCmd      = 2100

	MinAvailable = 2200
)

// Wire-visible HTTP statuses. httpcore errors use these directly as their
// CodeError so StatusFor(err) never needs a translation table.
const (
	StatusBadRequest          CodeError = 400
	StatusUnauthorized        CodeError = 401
	StatusForbidden           CodeError = 403
	StatusNotFound            CodeError = 404
	StatusMethodNotAllowed    CodeError = 405
	StatusInternalServerError CodeError = 500
	StatusNotImplemented      CodeError = 501
	StatusServiceUnavailable  CodeError = 503
)
