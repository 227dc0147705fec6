package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/turboflakes/grade-exporter/pkg/types"
)

// profileDocument is the subset of the profile endpoint response we read.
type profileDocument struct {
	Identity *struct {
		Name string `json:"name"`
		Sub  string `json:"sub"`
	} `json:"identity"`
	Stash string `json:"stash"`
}

// nameRules derive a display name from a profile. The first non-empty
// result wins.
var nameRules = []func(types.ProfileRecord) string{
	func(p types.ProfileRecord) string {
		if p.Name != "" && p.Sub != "" {
			return p.Name + "/" + p.Sub
		}
		return ""
	},
	func(p types.ProfileRecord) string { return p.Name },
	func(p types.ProfileRecord) string { return p.Sub },
	func(p types.ProfileRecord) string { return p.Stash },
}

// NameLabel returns the display name for p, or fallback when no profile
// field is usable.
func NameLabel(p types.ProfileRecord, fallback string) string {
	for _, rule := range nameRules {
		if name := rule(p); name != "" {
			return name
		}
	}
	return fallback
}

// Enricher resolves validator display names from the provider's profile API.
type Enricher struct {
	fetcher Fetcher
	timeout time.Duration
	domain  string
}

// NewEnricher returns an Enricher for profiles served under domain. A
// non-positive timeout selects DefaultTimeout.
func NewEnricher(f Fetcher, domain string, timeout time.Duration) *Enricher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Enricher{fetcher: f, timeout: timeout, domain: domain}
}

// ProfileURL returns the profile document URL for a validator on network.
func (e *Enricher) ProfileURL(network, validatorID string) string {
	return fmt.Sprintf("https://%s-onet-api.%s/api/v1/validators/%s/profile", network, e.domain, validatorID)
}

// FetchProfile GETs and decodes the profile document.
func (e *Enricher) FetchProfile(ctx context.Context, network, validatorID string) (types.ProfileRecord, error) {
	var doc profileDocument
	if err := getJSON(ctx, e.fetcher, e.ProfileURL(network, validatorID), e.timeout, &doc); err != nil {
		return types.ProfileRecord{}, err
	}
	p := types.ProfileRecord{Stash: doc.Stash}
	if doc.Identity != nil {
		p.Name = doc.Identity.Name
		p.Sub = doc.Identity.Sub
	}
	return p, nil
}

// Name returns the display name for the validator. The returned name is
// always usable: on any profile error it is validatorID, and the error is
// returned only so callers can account for it.
func (e *Enricher) Name(ctx context.Context, network, validatorID string) (string, error) {
	p, err := e.FetchProfile(ctx, network, validatorID)
	if err != nil {
		slog.Debug("scraper: profile fetch failed",
			"validator", validatorID, "network", network, "err", err)
		return validatorID, err
	}
	return NameLabel(p, validatorID), nil
}
