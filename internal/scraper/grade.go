package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/turboflakes/grade-exporter/pkg/types"
)

// Grade document fields we read.
const (
	fieldGrade       = "grade"
	fieldMissedVotes = "missed_votes_total"
)

// GradeFetcher retrieves and validates grade documents.
type GradeFetcher struct {
	fetcher Fetcher
	timeout time.Duration
}

// NewGradeFetcher returns a GradeFetcher. A non-positive timeout selects
// DefaultTimeout.
func NewGradeFetcher(f Fetcher, timeout time.Duration) *GradeFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GradeFetcher{fetcher: f, timeout: timeout}
}

// Fetch GETs the grade document at url.
//
// A transport error, non-2xx status or malformed document is returned as a
// plain error. A well-formed document whose grade is missing or not
// recognized returns an error wrapping ErrUnrecognizedGrade together with a
// record carrying the raw grade.
func (g *GradeFetcher) Fetch(ctx context.Context, url string) (types.GradeRecord, error) {
	var doc map[string]json.RawMessage
	if err := getJSON(ctx, g.fetcher, url, g.timeout, &doc); err != nil {
		return types.GradeRecord{}, err
	}
	if doc == nil {
		return types.GradeRecord{}, errors.New("decode json: grade document is not an object")
	}

	letter, err := gradeLetter(doc[fieldGrade])
	if err != nil {
		return types.GradeRecord{}, err
	}
	grade, ok := types.ParseGrade(letter)
	if !ok {
		return types.GradeRecord{Grade: grade}, fmt.Errorf("%w %q", ErrUnrecognizedGrade, letter)
	}

	return types.GradeRecord{
		Grade:       grade,
		MissedVotes: missedVotes(doc[fieldMissedVotes]),
	}, nil
}

// gradeLetter returns the trimmed grade string. A missing or null grade is
// the empty string; any other non-string is a malformed document.
func gradeLetter(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("decode json: grade is not a string: %s", raw)
	}
	return strings.TrimSpace(s), nil
}

// missedVotes returns the missed votes count, or 0 when the field is absent,
// not a JSON number, or out of range. Fractions are truncated.
func missedVotes(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	if math.IsNaN(f) || f < 0 || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}
