// Package videolink extracts the single outbound video link from a time's
// detail page on the rankings site.
//
// Resolution is a pure read. Anchors inside paragraphs are scanned in document
// order and the first anchor matching a rule decides the outcome: YouTube
// links are returned, Twitch and manual download links are classified
// failures, and a page without any match reports ErrNoVideoFound. Every
// classified failure satisfies errors.Is(err, services.ErrBadLink).
package videolink
