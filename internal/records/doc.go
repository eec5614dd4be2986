// Package records defines the canonical time entry tracked by truthsaver and
// the static tables that describe the two ranked games.
//
// A TimeEntry is identified by its detail-page URL. The stage table is the
// single source for stage-to-game inference; an unknown stage slug is an
// error, never a default, because it means upstream changed shape or a
// normalizer emitted something it should not have.
//
// Status values form a small state machine (see Status.CanTransition). The
// store and the download manager rely on it to keep finished downloads from
// regressing.
package records
