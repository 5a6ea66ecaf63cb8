package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"forgeai/omega_gateway/internal/adapters/probe"
	corehealth "forgeai/omega_gateway/internal/core/health"
)

// Probe checks the cache with a PING.
type Probe struct {
	client redis.UniversalClient
}

func NewProbe(client redis.UniversalClient) *Probe {
	return &Probe{client: client}
}

func (p *Probe) Check(ctx context.Context) corehealth.Result {
	return probe.FromError(ctx, p.client.Ping(ctx).Err())
}

var _ corehealth.Probe = (*Probe)(nil)
