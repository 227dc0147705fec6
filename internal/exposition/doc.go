// Package exposition renders per-target scrape results as a Prometheus text
// exposition payload.
//
// The payload is a fixed HELP/TYPE preamble for the three gauge families
// followed by the sample lines of each target in target order: grade value,
// missed votes and up=1 for a target whose grade was recognized, up=0 alone
// for a target whose grade document could not be fetched, and nothing for a
// target dropped for an unrecognized grade. Label values are escaped so the
// payload always parses.
package exposition
