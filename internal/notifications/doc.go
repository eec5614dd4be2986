// Package notifications pushes run outcomes to ntfy.
//
// The topic URL comes from config.toml; without one every Publish is a no-op.
// Runs that found nothing new stay silent.
package notifications
