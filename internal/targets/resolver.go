package targets

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var urlRE = regexp.MustCompile(`(?i)^https?://`)

// Sources is the configured origin of the target list.
type Sources struct {
	// Inline is a comma and/or newline separated list of URLs.
	Inline string
	// File is an optional path to a file with one URL per line.
	File string
}

// Resolution is the outcome of one resolve pass.
type Resolution struct {
	// URLs are the unique, valid target URLs in first-seen order.
	URLs []string
	// Dropped are the unique candidates rejected as non-URLs.
	Dropped []string
}

// Resolve reads src.File (when set) and src.Inline and returns the resolved
// target list. A missing or unreadable file is logged and treated as empty;
// resolution never fails.
func Resolve(src Sources) Resolution {
	var candidates []string

	if src.File != "" {
		data, err := os.ReadFile(src.File)
		switch {
		case err == nil:
			candidates = append(candidates, CleanLines(string(data))...)
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("targets: file not found", "path", src.File)
		default:
			slog.Warn("targets: read file failed", "path", src.File, "err", err)
		}
	}

	candidates = append(candidates, SplitInline(src.Inline)...)

	return Validate(candidates)
}

// SplitInline splits an inline blob on commas first, then splits each chunk
// on newlines, cleaning every resulting line.
func SplitInline(blob string) []string {
	var out []string
	for _, chunk := range strings.Split(blob, ",") {
		out = append(out, CleanLines(chunk)...)
	}
	return out
}

// CleanLines splits raw into lines and returns the cleaned, non-ignored ones.
func CleanLines(raw string) []string {
	var out []string
	for _, ln := range strings.Split(raw, "\n") {
		if ln, ok := cleanLine(ln); ok {
			out = append(out, ln)
		}
	}
	return out
}

// cleanLine trims whitespace and one layer of surrounding quotes, and
// reports whether the line should be kept. Empty lines, a bare "-" left over
// from YAML lists, and # comments are ignored.
func cleanLine(ln string) (string, bool) {
	ln = strings.TrimSpace(ln)
	ln = trimQuotes(ln)
	switch {
	case ln == "", ln == "-", strings.HasPrefix(ln, "#"):
		return "", false
	}
	return ln, true
}

// trimQuotes removes at most one leading and one trailing ' or " and then
// any whitespace they enclosed.
func trimQuotes(s string) string {
	if s != "" && (s[0] == '\'' || s[0] == '"') {
		s = s[1:]
	}
	if n := len(s); n > 0 && (s[n-1] == '\'' || s[n-1] == '"') {
		s = s[:n-1]
	}
	return strings.TrimSpace(s)
}

// Validate deduplicates candidates in first-seen order and splits them into
// accepted http(s) URLs and dropped entries. Each dropped entry is logged once.
func Validate(candidates []string) Resolution {
	unique := lo.Uniq(candidates)
	valid, dropped := lo.FilterReject(unique, func(u string, _ int) bool {
		return urlRE.MatchString(u)
	})
	for _, d := range dropped {
		slog.Warn("targets: dropped entry (not a URL)", "entry", d)
	}
	return Resolution{URLs: valid, Dropped: dropped}
}
