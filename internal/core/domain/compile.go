package domain

import "slices"

// CompileResult is the outcome of compiling one secondary dex file.
type CompileResult uint8

const (
	// CompileOK means generated code was produced.
	CompileOK CompileResult = iota
	// CompileSkipped means the optimizer decided the existing output was good enough.
	CompileSkipped
	// CompileFailed means the optimizer could not compile the file.
	CompileFailed
)

// String returns the result name.
func (r CompileResult) String() string {
	switch r {
	case CompileOK:
		return "ok"
	case CompileSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// CompileRequest describes one secondary dex compilation.
type CompileRequest struct {
	App             AppInfo
	DexPath         string
	ISAs            []string
	Filter          string
	UsedByOtherApps bool
	// Force disables the optimizer's skip heuristics.
	Force bool
}

// Clone returns a deep copy of the request.
func (r CompileRequest) Clone() CompileRequest {
	r.App = r.App.Clone()
	r.ISAs = slices.Clone(r.ISAs)
	return r
}
