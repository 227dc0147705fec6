package targets

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/turboflakes/grade-exporter/pkg/types"
)

var validatorRE = regexp.MustCompile(`/validators/([^/]+)/grade`)

// hostPrefix maps a host name prefix to a network. Rules are tried in order.
type hostPrefix struct {
	prefix  string
	network string
}

var networkPrefixes = []hostPrefix{
	{prefix: "kusama-", network: "kusama"},
	{prefix: "polkadot-", network: "polkadot"},
}

// Labeler derives identity labels from target URLs served under one
// provider domain.
type Labeler struct {
	hostRE *regexp.Regexp
}

// NewLabeler returns a Labeler matching {network}-onet-api.{domain} hosts.
func NewLabeler(domain string) *Labeler {
	return &Labeler{
		hostRE: regexp.MustCompile(`^([a-z0-9-]+)-onet-api\.` + regexp.QuoteMeta(strings.ToLower(domain)) + `$`),
	}
}

// Target builds the labelled Target for rawURL.
func (l *Labeler) Target(rawURL string) types.Target {
	return types.Target{
		URL:         rawURL,
		ValidatorID: ValidatorID(rawURL),
		Network:     l.Network(rawURL),
	}
}

// Network returns the network for rawURL from its lower-cased host name, or
// types.Unknown when no rule matches.
func (l *Labeler) Network(rawURL string) string {
	host := strings.ToLower(hostname(rawURL))
	for _, r := range networkPrefixes {
		if strings.HasPrefix(host, r.prefix) {
			return r.network
		}
	}
	if m := l.hostRE.FindStringSubmatch(host); m != nil {
		return m[1]
	}
	return types.Unknown
}

// ValidatorID returns the path segment between /validators/ and /grade, or
// types.Unknown.
func ValidatorID(rawURL string) string {
	if m := validatorRE.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return types.Unknown
}

// hostname returns the host of rawURL without userinfo or port. When
// url.Parse rejects the URL (e.g. a bad escape in the path) the authority is
// cut out of the raw text instead.
func hostname(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return u.Hostname()
	}
	_, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return ""
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		rest = rest[i+1:]
	}
	if strings.HasPrefix(rest, "[") {
		if i := strings.Index(rest, "]"); i >= 0 {
			return rest[1:i]
		}
		return ""
	}
	host, _, _ := strings.Cut(rest, ":")
	return host
}
