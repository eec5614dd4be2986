// Package duration converts between the rankings site's run-time notation
// (M:SS or H:MM:SS) and whole seconds.
package duration
