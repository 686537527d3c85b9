// Package engine runs every analyzer over a byte buffer and assembles the
// AnalysisReport. It also expands directories into batch targets and keeps
// the incremental cache. This package is internal; external consumers
// should use the stable facade in pkg/core.
package engine
