// Package workflow sequences a truthsaver run: the update phase scrapes every
// stage and merges new times into the store, then the download phase drives
// the state machine over the merged store.
//
// The store is saved after each phase, including when a phase ends early
// because the run was cancelled, so no completed work is lost.
package workflow
