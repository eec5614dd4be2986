// Package download walks the stored entries and drives each eligible one
// through link resolution and video retrieval, recording the outcome as the
// entry's status.
//
// An entry is eligible when it is new, or when it previously failed and the
// caller asked to try everything again. Downloaded entries are never touched.
// Resolution failures mark the entry bad_link and retrieval failures of the
// video itself mark it bad_video. Local disk trouble, timeouts and network
// problems leave the entry as it was so the next run retries it.
package download
