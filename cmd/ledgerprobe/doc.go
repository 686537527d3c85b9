// Package ledgerprobe implements the ledgerprobe command line: analyze,
// watch, catalogue listings, config helpers and the report schema.
package ledgerprobe
