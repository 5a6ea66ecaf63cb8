package testutil

import (
	"context"
	"sync/atomic"
	"time"

	corehealth "forgeai/omega_gateway/internal/core/health"
)

// StubProbe is a configurable health.Probe for testing.
type StubProbe struct {
	Result corehealth.Result
	// Delay postpones the answer; the stub still honours ctx cancellation
	// unless IgnoreContext is set.
	Delay         time.Duration
	IgnoreContext bool

	calls atomic.Int64
}

func (p *StubProbe) Check(ctx context.Context) corehealth.Result {
	p.calls.Add(1)
	if p.Delay > 0 {
		if p.IgnoreContext {
			time.Sleep(p.Delay)
		} else {
			select {
			case <-time.After(p.Delay):
			case <-ctx.Done():
				return corehealth.Unavailable(ctx.Err().Error())
			}
		}
	}
	return p.Result
}

// Calls returns how many times Check ran.
func (p *StubProbe) Calls() int {
	return int(p.calls.Load())
}

var _ corehealth.Probe = (*StubProbe)(nil)
