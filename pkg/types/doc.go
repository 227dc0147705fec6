// Package types defines the data model shared by the resolver, the upstream
// fetchers, the scrape pipeline and the renderer. Every value here is
// transient: it is built fresh on each scrape and discarded once the
// exposition payload has been written.
package types
