// Package main hosts the truthsaver CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, opens the locked
// reconciliation store, and hands the update and download phases to
// internal/workflow. Reporting commands (list, stats) read the store and
// render go-pretty tables; link resolves a single detail page.
//
// Keep this package lean: behaviour lives in the internal packages and is
// surfaced here through commands and flags.
package main
