// Package scraper fetches the two upstream documents behind every target.
//
// GradeFetcher GETs a target's grade document and validates the letter grade;
// a failure there is the target's failure. Enricher GETs the validator
// profile derived from (network, validator_id) and turns it into a display
// name; every failure there is swallowed and the validator id is used instead.
//
// Both go through the Fetcher capability. HTTPFetcher is the production
// implementation over a shared *http.Client that stamps the identifying
// User-Agent on every request (userAgentRoundTripper in base.go). Tests
// substitute FetcherFunc fakes or httptest servers.
package scraper
