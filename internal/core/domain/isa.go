package domain

import (
	"runtime"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// knownISAs are the instruction set names the runtime can produce code for.
var knownISAs = []string{"arm", "arm64", "riscv64", "x86", "x86_64"}

// IsKnownISA reports whether isa names an instruction set the runtime knows about.
func IsKnownISA(isa string) bool {
	return slices.Contains(knownISAs, isa)
}

// ISASet is the set of instruction sets the device can load code for.
type ISASet struct {
	isas []string
}

// NewISASet returns a set holding isas. Duplicates are dropped and the order is kept.
func NewISASet(isas ...string) ISASet {
	var out []string
	for _, isa := range isas {
		isa = strings.TrimSpace(isa)
		if isa == "" || slices.Contains(out, isa) {
			continue
		}
		out = append(out, isa)
	}
	return ISASet{isas: out}
}

// DefaultISAs returns the instruction sets supported by the host architecture,
// primary first.
func DefaultISAs() ISASet {
	return isasForArch(runtime.GOARCH)
}

func isasForArch(arch string) ISASet {
	switch arch {
	case "arm64":
		return NewISASet("arm64", "arm")
	case "arm":
		return NewISASet("arm")
	case "amd64":
		return NewISASet("x86_64", "x86")
	case "386":
		return NewISASet("x86")
	case "riscv64":
		return NewISASet("riscv64")
	default:
		return NewISASet(arch)
	}
}

// Contains reports whether isa is supported.
func (s ISASet) Contains(isa string) bool {
	return slices.Contains(s.isas, isa)
}

// Validate returns ErrUnknownISA when isa is not supported.
func (s ISASet) Validate(isa string) error {
	if s.Contains(isa) {
		return nil
	}
	return zerr.With(zerr.Wrap(ErrUnknownISA, "loader instruction set rejected"), "isa", isa)
}

// Values returns a copy of the supported instruction sets.
func (s ISASet) Values() []string {
	return slices.Clone(s.isas)
}

// Len returns the number of supported instruction sets.
func (s ISASet) Len() int {
	return len(s.isas)
}

// String returns the instruction sets joined by commas.
func (s ISASet) String() string {
	return strings.Join(s.isas, ",")
}
