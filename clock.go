package catfocus

import "time"

// Clock abstracts wall-clock time so simulations stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
