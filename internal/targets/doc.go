// Package targets turns configured sources into the ordered list of upstream
// grade document URLs and derives the identity labels of each one.
//
// Resolve merges the one-URL-per-line file with the comma/newline separated
// inline blob (file entries first), cleans every candidate line, removes
// duplicates in first-seen order and drops anything that is not an http(s)
// URL. Nothing is cached: callers resolve again on every scrape.
//
// Labeler derives (validator_id, network) from a URL by pure string parsing.
package targets
