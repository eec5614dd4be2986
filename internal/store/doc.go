// Package store persists the reconciled set of ranked times and their
// download status.
//
// A Store is opened once per run. Open takes an exclusive lock beside the
// store file so a second concurrent run fails fast, then loads every entry
// into memory. The file extension selects the backend: .db, .sqlite and
// .sqlite3 use SQLite and anything else uses a JSON document. A missing file
// is an empty store. A file that cannot be decoded is moved aside and the run
// starts empty.
//
// Merge only ever inserts, so an entry that reached downloaded is never reset
// by a later update. Status changes go through SetStatus, which enforces the
// download state machine. Save overwrites the file completely and Close
// flushes pending changes before releasing the lock.
package store
