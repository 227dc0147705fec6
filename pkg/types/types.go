package types

// Unknown is the label value used when a validator id or network cannot be
// derived from a target URL.
const Unknown = "unknown"

// Target is one configured upstream grade document URL together with the
// identity labels derived from it.
type Target struct {
	URL         string
	ValidatorID string
	Network     string
}

// GradeRecord is the validated content of a grade document.
type GradeRecord struct {
	Grade       Grade
	MissedVotes int64
}

// ProfileRecord is the subset of a validator profile document used to build
// the display name. Empty strings mean the field was absent.
type ProfileRecord struct {
	Name  string
	Sub   string
	Stash string
}

// Outcome is the per-scrape result class of one target.
type Outcome int

const (
	// OutcomeDown means the grade document could not be fetched or decoded.
	OutcomeDown Outcome = iota
	// OutcomeUp means the grade document was fetched and its grade recognized.
	OutcomeUp
	// OutcomeDropped means the grade document was fetched but carried an
	// unrecognized grade. Nothing is emitted for the target.
	OutcomeDropped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUp:
		return "up"
	case OutcomeDown:
		return "down"
	case OutcomeDropped:
		return "dropped"
	default:
		return "invalid"
	}
}

// TargetResult is everything the renderer needs to emit the lines for one
// target. Name is always populated; it falls back to Target.ValidatorID.
type TargetResult struct {
	Target  Target
	Outcome Outcome
	Record  GradeRecord
	Name    string
}
