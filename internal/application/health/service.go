package health

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	corehealth "forgeai/omega_gateway/internal/core/health"
	"forgeai/omega_gateway/internal/infrastructure/cache"
	ctxutil "forgeai/omega_gateway/internal/infrastructure/context"
	"forgeai/omega_gateway/internal/infrastructure/security"
)

const (
	databaseKey = "database"
	cacheKey    = "cache"

	defaultProbeTimeout = time.Second
)

// Metadata contains immutable metadata about the running gateway.
type Metadata struct {
	Message  string
	Database corehealth.Dependency
	Cache    corehealth.Dependency
}

// Probes are the optional liveness checks. A nil probe leaves the matching
// description static.
type Probes struct {
	Database corehealth.Probe
	Cache    corehealth.Probe
}

// Options tune how probes are run.
type Options struct {
	Probes   Probes
	Timeout  time.Duration
	Results  *cache.ResultCache
	Redactor *security.Redactor
	Logger   *slog.Logger
	Clock    func() time.Time
}

// Service exposes the health-check use case to adapters.
type Service struct {
	meta     Metadata
	probes   Probes
	timeout  time.Duration
	results  *cache.ResultCache
	redactor *security.Redactor
	log      *slog.Logger
	clock    func() time.Time
}

func NewService(meta Metadata, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultProbeTimeout
	}
	if opts.Results == nil {
		opts.Results = cache.NewResultCache(0)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Service{
		meta:     meta,
		probes:   opts.Probes,
		timeout:  opts.Timeout,
		results:  opts.Results,
		redactor: opts.Redactor,
		log:      opts.Logger,
		clock:    opts.Clock,
	}
}

// Probing reports whether any dependency is actively checked.
func (s *Service) Probing() bool {
	return s.probes.Database != nil || s.probes.Cache != nil
}

// GetHealth returns a fresh snapshot. Without probes it always reports healthy
// with the static descriptions.
func (s *Service) GetHealth(ctx context.Context) corehealth.Snapshot {
	snapshot := corehealth.Snapshot{
		Status:    corehealth.StatusHealthy,
		Message:   s.meta.Message,
		Timestamp: corehealth.Timestamp(s.clock().UTC()),
		Database:  s.meta.Database.Description(),
		Cache:     s.meta.Cache.Description(),
	}
	if !s.Probing() {
		return snapshot
	}

	dbResult, cacheResult, err := s.checkAll(ctx)

	snapshot.Database = s.meta.Database.DescribeResult(dbResult)
	snapshot.Cache = s.meta.Cache.DescribeResult(cacheResult)
	if err != nil {
		snapshot.Status = corehealth.StatusDegraded
	}
	return snapshot
}

// checkAll runs the configured probes side by side. Probes are detached from
// the caller's cancellation and bounded only by the probe timeout, so a client
// that disconnects early cannot leave a failure in the shared result cache.
// The returned error is the first unavailable dependency, if any.
func (s *Service) checkAll(ctx context.Context) (corehealth.Result, corehealth.Result, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	dbResult, cacheResult := corehealth.Ok(), corehealth.Ok()

	var g errgroup.Group
	if s.probes.Database != nil {
		g.Go(func() error {
			dbResult = s.check(ctx, databaseKey, s.meta.Database, s.probes.Database)
			return unavailableError(s.meta.Database, dbResult)
		})
	}
	if s.probes.Cache != nil {
		g.Go(func() error {
			cacheResult = s.check(ctx, cacheKey, s.meta.Cache, s.probes.Cache)
			return unavailableError(s.meta.Cache, cacheResult)
		})
	}
	err := g.Wait()

	return dbResult, cacheResult, err
}

func unavailableError(dep corehealth.Dependency, r corehealth.Result) error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%s unavailable: %s", dep.Name, r.Reason)
}

func (s *Service) check(ctx context.Context, key string, dep corehealth.Dependency, probe corehealth.Probe) corehealth.Result {
	if cached, ok := s.results.Get(key); ok {
		return cached
	}

	result := runProbe(ctx, probe)
	if !result.OK() {
		result = corehealth.Unavailable(s.redactor.Redact(result.Reason))
		if s.log != nil {
			s.log.Warn("Dependency unavailable",
				"dependency", dep.Name,
				"address", dep.Address,
				"reason", result.Reason,
				"correlation_id", ctxutil.GetCorrelationID(ctx),
			)
		}
	}
	s.results.Set(key, result)
	return result
}

// runProbe bounds a probe by ctx even when the probe itself ignores cancellation.
func runProbe(ctx context.Context, probe corehealth.Probe) corehealth.Result {
	done := make(chan corehealth.Result, 1)
	go func() {
		done <- probe.Check(ctx)
	}()

	select {
	case result := <-done:
		return result
	case <-ctx.Done():
		return corehealth.Unavailable("timeout waiting for response")
	}
}
