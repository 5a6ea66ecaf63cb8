package context

import (
	"context"
	"testing"
	"time"
)

func TestWithCorrelationID(t *testing.T) {
	tests := []struct {
		name          string
		correlationID string
	}{
		{"stores request id", "host/abc-000001"},
		{"empty id leaves context untouched", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := context.Background()
			ctx := WithCorrelationID(parent, tt.correlationID)

			if got := GetCorrelationID(ctx); got != tt.correlationID {
				t.Errorf("expected %q, got %q", tt.correlationID, got)
			}
			if tt.correlationID == "" && ctx != parent {
				t.Error("expected parent context to be returned for empty id")
			}
		})
	}
}

func TestGetCorrelationID(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{"missing", context.Background(), ""},
		{"nil value", context.WithValue(context.Background(), CorrelationIDKey, nil), ""},
		{"wrong type", context.WithValue(context.Background(), CorrelationIDKey, 42), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCorrelationID(tt.ctx); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCorrelationID_SurvivesDerivedTimeout(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "req-1")

	derived, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if GetCorrelationID(derived) != "req-1" {
		t.Error("expected request id to propagate to probe contexts")
	}
}
