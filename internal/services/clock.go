package services

import "time"

// Clock abstracts time for the throttler so tests can drive the state
// machine synchronously with a fake.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer mirrors the subset of *time.Timer the throttler needs.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SystemClock is the wall-clock implementation used in production.
var SystemClock Clock = systemClock{}
