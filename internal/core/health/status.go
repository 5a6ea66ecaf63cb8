package health

import (
	"context"
	"fmt"
	"time"
)

// Overall states reported by the gateway.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// TimestampLayout matches the ISO-8601 UTC form produced by JavaScript's toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Snapshot captures the state of the gateway at a moment in time.
type Snapshot struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp Timestamp `json:"timestamp"`
	Database  string    `json:"database"`
	Cache     string    `json:"cache"`
}

// Healthy reports whether every dependency answered.
func (s Snapshot) Healthy() bool {
	return s.Status == StatusHealthy
}

// Timestamp is a UTC instant serialized with millisecond precision.
type Timestamp time.Time

func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

func (t Timestamp) String() string {
	return time.Time(t).UTC().Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("timestamp must be a JSON string, got %s", data)
	}
	parsed, err := time.Parse(time.RFC3339Nano, string(data[1:len(data)-1]))
	if err != nil {
		return fmt.Errorf("parse timestamp: %w", err)
	}
	*t = Timestamp(parsed.UTC())
	return nil
}

// Dependency names a backing service and where it is expected to live.
type Dependency struct {
	Name    string
	Address string
}

// Description is the wording used when the dependency is not actively checked
// or answered its last check.
func (d Dependency) Description() string {
	return fmt.Sprintf("%s available on %s", d.Name, d.Address)
}

// DescribeResult words the outcome of a probe against the dependency.
func (d Dependency) DescribeResult(r Result) string {
	if r.OK() {
		return d.Description()
	}
	return fmt.Sprintf("%s unavailable on %s: %s", d.Name, d.Address, r.Reason)
}

// Result is the outcome of a single probe: either Ok or Unavailable with a reason.
type Result struct {
	Reason string
	failed bool
}

func Ok() Result {
	return Result{}
}

func Unavailable(reason string) Result {
	if reason == "" {
		reason = "unknown error"
	}
	return Result{Reason: reason, failed: true}
}

func (r Result) OK() bool {
	return !r.failed
}

// Probe checks the liveness of one dependency.
type Probe interface {
	Check(ctx context.Context) Result
}

// ProbeFunc adapts a plain function to Probe.
type ProbeFunc func(ctx context.Context) Result

func (f ProbeFunc) Check(ctx context.Context) Result {
	return f(ctx)
}
