// Package preflight provides readiness checks for the filesystem paths and
// external services truthsaver depends on.
//
// The CLI runs them before a pass starts: a failed check for a phase that is
// about to run is fatal, since an unwritable video root or a missing yt-dlp
// would otherwise mark nothing and waste the whole pass. Checks for phases
// that are skipped (update-only, download-only) are not run.
package preflight
