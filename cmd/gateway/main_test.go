package main

import (
	"context"
	"net"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestRootCmd_PortInUse(t *testing.T) {
	occupied, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to occupy a port: %v", err)
	}
	defer occupied.Close()
	port := strconv.Itoa(occupied.Addr().(*net.TCPAddr).Port)

	t.Setenv("APP_ENV", "test")
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--port", port, "--env-file", filepath.Join(t.TempDir(), "none.env")})

	err = cmd.ExecuteContext(context.Background())
	if err == nil {
		t.Fatal("expected an error when the port is occupied")
	}
	if !strings.Contains(err.Error(), port) {
		t.Errorf("expected error to name port %s, got %q", port, err.Error())
	}
}

func TestRootCmd_InvalidPortFlag(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--port", "70000", "--env-file", filepath.Join(t.TempDir(), "none.env")})

	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "APP_PORT must be between 1 and 65535") {
		t.Errorf("expected port validation error, got %v", err)
	}
}

func TestRootCmd_StopsOnCancel(t *testing.T) {
	probe, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("failed to find a free port: %v", err)
	}
	port := strconv.Itoa(probe.Addr().(*net.TCPAddr).Port)
	probe.Close()

	t.Setenv("APP_ENV", "test")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("HEALTH_PROBES_ENABLED", "false")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := newRootCmd()
	cmd.SetArgs([]string{"-p", port, "--env-file", filepath.Join(t.TempDir(), "none.env")})

	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Errorf("expected clean exit, got %v", err)
	}
}
