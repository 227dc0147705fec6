// Package exporter runs the per-scrape pipeline: resolve targets, label each
// one, fetch its grade document, enrich its display name, and render the
// payload.
//
// Targets are fetched with bounded concurrency but results are kept in
// target order, so the payload is deterministic for identical upstream data.
// Every per-target failure is absorbed into that target's outcome; a scrape
// itself never fails.
//
// The target sources are the only state shared between scrapes. They are
// held behind an atomic pointer so a config reload can swap them while
// scrapes are in flight.
package exporter
