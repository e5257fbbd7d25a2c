package domain

// SearchOutcome is the classification of a dex path against a package.
type SearchOutcome uint8

const (
	// SearchNotFound means the path is not owned by the package (or by any package).
	SearchNotFound SearchOutcome = iota
	// SearchFoundPrimary means the path is the package's base artifact.
	SearchFoundPrimary
	// SearchFoundSplit means the path is one of the package's split artifacts.
	SearchFoundSplit
	// SearchFoundSecondary means the path lives in one of the package's data dirs.
	SearchFoundSecondary
)

// String returns the outcome name.
func (o SearchOutcome) String() string {
	switch o {
	case SearchFoundPrimary:
		return "primary"
	case SearchFoundSplit:
		return "split"
	case SearchFoundSecondary:
		return "secondary"
	default:
		return "not-found"
	}
}

// IsPrimaryOrSplit reports whether the outcome refers to an installed artifact.
func (o SearchOutcome) IsPrimaryOrSplit() bool {
	return o == SearchFoundPrimary || o == SearchFoundSplit
}

// DexSearchResult is the owner of a dex path together with how it was classified.
// OwningPackageName is empty when Outcome is SearchNotFound.
type DexSearchResult struct {
	OwningPackageName string
	Outcome           SearchOutcome
}

// NotFound is the result returned when no package owns a path.
var NotFound = DexSearchResult{}

// Found reports whether an owner was identified.
func (r DexSearchResult) Found() bool {
	return r.Outcome != SearchNotFound
}

// String returns "owner-outcome" for diagnostics.
func (r DexSearchResult) String() string {
	return r.OwningPackageName + "-" + r.Outcome.String()
}
