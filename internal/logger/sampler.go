package logger

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Sampler rate-limits a noisy warning. Lines over the limit are counted and the
// count is attached to the next line that gets through.
type Sampler struct {
	limiter    *rate.Limiter
	now        func() time.Time
	suppressed atomic.Uint64
}

// NewSampler allows perSecond lines per second with a burst of the same size.
// A non-positive rate logs every line.
func NewSampler(perSecond float64) *Sampler {
	limit := rate.Limit(perSecond)
	burst := int(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &Sampler{
		limiter: rate.NewLimiter(limit, burst),
		now:     time.Now,
	}
}

// Warn logs msg on entry unless the sampler is over its limit.
// It reports whether the line was written.
func (s *Sampler) Warn(entry *logrus.Entry, msg string) bool {
	if !s.limiter.AllowN(s.now(), 1) {
		s.suppressed.Add(1)
		return false
	}
	if n := s.suppressed.Swap(0); n > 0 {
		entry = entry.WithField("suppressed", n)
	}
	entry.Warn(msg)
	return true
}

// Suppressed returns how many lines are waiting to be reported
func (s *Sampler) Suppressed() uint64 {
	return s.suppressed.Load()
}
