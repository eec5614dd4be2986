// Package scrape turns the rankings site's two per-stage sources into
// records.TimeEntry maps keyed by detail URL.
//
// Regular modes arrive as JSON from the stage AJAX endpoint: three flat arrays
// (one per mode) of six-field records. The secondary LTK/DLTK modes are only
// published as HTML tables on a per-stage page. Each source has its own
// normalizer with the same output contract; the Scraper fetches both for
// every stage and unions the results. The HTML layout is undocumented
// upstream, so every selector lives in this package.
package scrape
