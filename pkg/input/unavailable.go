package input

import (
	"context"
	"fmt"
	"time"
)

// unavailable stands in for a backend that was not compiled in or is not
// supported on this platform.
type unavailable struct {
	name   string
	reason string
}

func (u unavailable) Name() string {
	return u.name
}

func (u unavailable) Start(context.Context) (<-chan Transition, error) {
	return nil, fmt.Errorf("%s: %s: %w", u.name, u.reason, ErrUnavailable)
}

func (u unavailable) Stop(time.Duration) error {
	return nil
}

func (u unavailable) State() State {
	return Stopped
}
