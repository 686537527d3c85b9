// Package core provides a small, stable facade over ledgerprobe's internal
// engine for external integrations. It re-exports a narrow API surface so
// other tools can depend on a stable import path without reaching into
// internal packages.
//
// Example:
//
//	rep, err := core.AnalyzeFile(ctx, core.DefaultConfig(), "ledger.bin")
//	if err != nil { /* handle */ }
//	_ = core.MarshalReport(os.Stdout, rep)
package core
