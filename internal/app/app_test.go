//nolint:varnamelen // Test files use idiomatic short variable names (t, etc.)
package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/joe/fetch-files/internal/app"
	"github.com/joe/fetch-files/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		RemoteURL:       "sftp://joe@files.example.com/inbox",
		LocalDir:        t.TempDir(),
		MaxIdleSessions: 4,
		AutoCreate:      true,
		AutoStart:       true,
		PollInterval:    time.Hour, // the loop never ticks during tests
		MaxSyncRate:     1,
	}
}

func TestNew_InvalidRemoteURL_Fails(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.RemoteURL = "http://joe@files.example.com/inbox"

	if _, err := app.New(cfg); err == nil {
		t.Fatal("New() succeeded with a non-sftp URL")
	}
}

func TestNew_MissingLocalDirWithoutAutoCreate_Fails(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.LocalDir = cfg.LocalDir + "/missing"
	cfg.AutoCreate = false

	if _, err := app.New(cfg); err == nil {
		t.Fatal("New() succeeded with a missing local directory and no auto-create")
	}
}

func TestRun_AutoStart_StartsAndStopsPool(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	application, err := app.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Run should start the pool, observe cancellation, and stop it

	if err := application.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if application.Pool().IsRunning() {
		t.Error("pool still running after Run returned")
	}
}

func TestRun_NoAutoStart_LeavesPoolStopped(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.AutoStart = false

	application, err := app.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := application.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if application.Pool().IsRunning() {
		t.Error("pool running despite auto-start being disabled")
	}
}

func TestRun_AutoStartWithBadPoolSize_Fails(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.MaxIdleSessions = 0 // normally rejected by config validation

	application, err := app.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := application.Run(context.Background()); err == nil {
		t.Fatal("Run() succeeded despite an unstartable pool")
	}
}
