// Package probe holds the liveness probes for the gateway's backing services.
package probe

import (
	"context"
	"errors"
	"fmt"

	corehealth "forgeai/omega_gateway/internal/core/health"
)

// FromError maps a ping error to a probe result.
func FromError(ctx context.Context, err error) corehealth.Result {
	if err == nil {
		return corehealth.Ok()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		if deadline, ok := ctx.Deadline(); ok {
			return corehealth.Unavailable(fmt.Sprintf("timeout waiting for response (deadline %s)", deadline.UTC().Format(corehealth.TimestampLayout)))
		}
		return corehealth.Unavailable("timeout waiting for response")
	}
	if errors.Is(err, context.Canceled) {
		return corehealth.Unavailable("check cancelled")
	}
	return corehealth.Unavailable(err.Error())
}
