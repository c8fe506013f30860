package a

import "time"

type Service struct {
	now func() time.Time
}

func NewService(now func() time.Time) *Service {
	if now == nil {
		// Passing the func value is fine
		now = time.Now
	}
	return &Service{now: now}
}

func (s *Service) good() time.Time {
	return s.now()
}

func bad() time.Time {
	return time.Now() // want "time.Now called directly"
}
