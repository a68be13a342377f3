package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	siteerrors "github.com/salmonumbrella/notion-site/internal/errors"
)

func newTestApp() (*App, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	app := NewApp()
	app.Stdout = &stdout
	app.Stderr = &stderr
	app.Version = "1.2.3-test"
	return app, &stdout, &stderr
}

func TestVersionCommand(t *testing.T) {
	app, stdout, _ := newTestApp()

	if err := app.Execute(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != "1.2.3-test" {
		t.Errorf("version output = %q", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	app, _, _ := newTestApp()

	if err := app.Execute(context.Background(), []string{"frobnicate"}); err == nil {
		t.Error("expected an error for an unknown command")
	}
}

func TestRenderCommandRejectsBadID(t *testing.T) {
	app, _, _ := newTestApp()

	err := app.Execute(context.Background(), []string{"render", "not-a-notion-id"})
	if err == nil {
		t.Fatal("expected an error for an argument without a Notion ID")
	}
	if !strings.Contains(err.Error(), "no Notion ID found") {
		t.Errorf("error = %v", err)
	}
}

func TestRenderCommandRequiresArg(t *testing.T) {
	app, _, _ := newTestApp()

	if err := app.Execute(context.Background(), []string{"render"}); err == nil {
		t.Error("expected an error when the page argument is missing")
	}
}

func TestLoadConfigHonorsOverride(t *testing.T) {
	app, _, _ := newTestApp()
	app.ConfigPath = filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := app.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	// A missing override path still yields defaults.
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "user error", err: siteerrors.NewUserError("bad", ""), want: 2},
		{name: "wrapped user error", err: siteerrors.WrapUserError(errors.New("x"), "bad", ""), want: 2},
		{name: "plain error", err: errors.New("boom"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
