package clock

import "time"

// Domain identifies one of the two step sequences of a Schedule.
type Domain int

const (
	Domain0 Domain = iota
	Domain1
)

// Schedule interleaves two periodic step sequences in virtual time.
//
// Domain 0 steps at offset0 + k*period0 and domain 1 at offset1 + k*period1
// for k = 1, 2, .... Steps due at the same instant are ordered domain 0
// first. A Schedule is not safe for concurrent use.
type Schedule struct {
	period [2]time.Duration
	next   [2]time.Duration
}

// NewSchedule returns a Schedule. Periods must be positive; a non-positive
// period is treated as one nanosecond.
func NewSchedule(period0, period1, offset1 time.Duration) *Schedule {
	s := &Schedule{period: [2]time.Duration{period0, period1}}
	for i := range s.period {
		if s.period[i] <= 0 {
			s.period[i] = 1
		}
	}
	s.next[Domain0] = s.period[Domain0]
	s.next[Domain1] = offset1 + s.period[Domain1]
	return s
}

// Next returns the domain whose step is due next and its virtual time,
// and advances that domain.
func (s *Schedule) Next() (Domain, time.Duration) {
	d := Domain0
	if s.next[Domain1] < s.next[Domain0] {
		d = Domain1
	}
	at := s.next[d]
	s.next[d] += s.period[d]
	return d, at
}
