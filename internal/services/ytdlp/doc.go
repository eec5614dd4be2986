// Package ytdlp wraps the yt-dlp command line tool: probing the renditions a
// video link offers and downloading one of them to a chosen path.
//
// Failures are classified from yt-dlp's stderr. Videos that are gone,
// private, age gated or offer nothing downloadable satisfy
// services.ErrBadVideo; disk and permission problems satisfy
// services.ErrLocalIO; network trouble satisfies services.ErrTransient and is
// retried by Fetcher.
package ytdlp
