package core

import "time"

// Clock abstracts time.Now so tests can pin createdAt/reviewedAt.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func NewRealClock() Clock { return RealClock{} }

func (RealClock) Now() time.Time { return time.Now() }
