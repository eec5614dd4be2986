package logging

import "strings"

// ProgressSampler suppresses repetitive download progress logs while keeping
// one line per percentage bucket or subject change.
type ProgressSampler struct {
	bucketSize  float64
	lastSubject string
	lastBucket  int
}

// NewProgressSampler constructs a sampler that emits when the percent crosses
// bucket boundaries (default 10%) or when the subject changes.
func NewProgressSampler(bucketSize float64) *ProgressSampler {
	if bucketSize <= 0 {
		bucketSize = 10
	}
	return &ProgressSampler{bucketSize: bucketSize, lastBucket: -1}
}

// ShouldLog reports whether a progress event should be logged. A negative
// percent means unknown and only subject changes emit.
func (s *ProgressSampler) ShouldLog(percent float64, subject string) bool {
	if s == nil {
		return true
	}
	subject = strings.TrimSpace(subject)
	emit := false
	if subject != "" && subject != s.lastSubject {
		s.lastSubject = subject
		s.lastBucket = -1
		emit = true
	}
	if percent >= 0 {
		if percent > 100 {
			percent = 100
		}
		bucket := int(percent / s.bucketSize)
		if bucket > s.lastBucket {
			s.lastBucket = bucket
			emit = true
		}
	}
	return emit
}

// Reset clears the sampler state before a new download starts.
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastSubject = ""
	s.lastBucket = -1
}
