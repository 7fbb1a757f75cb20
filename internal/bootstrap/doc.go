// Package bootstrap caches RDAP bootstrap files (dns.json, ipv4.json, ...) under a
// cache root directory. Each filename is an independent slot: <root>/<name> holds
// the last successfully fetched body verbatim and <root>/<name>.tmp is a staging
// file used only while a new body is being committed with a rename.
//
// Fetch decides per call whether the slot can be served from disk (present,
// younger than FreshnessWindow by creation time, parses as JSON) or must be
// fetched again. A fetch is attempted at most once per call and its error is
// returned as-is; there is no retry loop.
package bootstrap
