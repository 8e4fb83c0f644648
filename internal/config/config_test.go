package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/binder"
	"github.com/goliatone/go-formbind/pkg/request"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Dispatch.ContentType != "text/plain;charset=UTF-8" || cfg.Dispatch.Timeout != 30*time.Second {
		t.Fatalf("unexpected dispatch defaults %+v", cfg.Dispatch)
	}
	if diff := cmp.Diff(binder.DefaultMarkers(), cfg.Markers); diff != "" {
		t.Fatalf("markers mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "custom.yaml")
	const doc = `
log:
  level: debug
  format: json
dispatch:
  base_url: http://file.test/api/
  timeout: 5s
  headers:
    authorization: Bearer abc
  rate_limit: 2.5
  burst: 3
request:
  escape: url
  merge_body_paths: true
dom:
  content: text
markers:
  form_class: api
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FORMBIND_DISPATCH_BASE_URL", "http://env.test/")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := DispatchConfig{
		BaseURL:     "http://env.test/",
		Timeout:     5 * time.Second,
		ContentType: "text/plain;charset=UTF-8",
		Headers:     map[string]string{"authorization": "Bearer abc"},
		RateLimit:   2.5,
		Burst:       3,
	}
	if diff := cmp.Diff(want, cfg.Dispatch); diff != "" {
		t.Fatalf("dispatch mismatch (-want +got):\n%s", diff)
	}
	if cfg.Log != (LogConfig{Level: "debug", Format: "json"}) {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
	if cfg.Markers.FormClass != "api" || cfg.Markers.Endpoint != "data-endpoint" {
		t.Fatalf("unexpected markers %+v", cfg.Markers)
	}

	reqOpts, err := cfg.RequestOptions()
	if err != nil {
		t.Fatalf("request options: %v", err)
	}
	if got := request.NewOptions(reqOpts...); got.Escape != request.EscapeURL || !got.MergeBodyPaths {
		t.Fatalf("unexpected request options %+v", got)
	}
	if _, err := cfg.DOMOptions(); err != nil {
		t.Fatalf("dom options: %v", err)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Cleanup(func() { _ = os.Unsetenv("FORMBIND_LOG_LEVEL") })

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FORMBIND_LOG_LEVEL=warn\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("expected .env level, got %q", cfg.Log.Level)
	}
}

func TestLoad_DefaultFileIsPickedUp(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte("dom:\n  content: text\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DOM.Content != "text" {
		t.Fatalf("expected content mode from %s, got %q", DefaultFile, cfg.DOM.Content)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cases := map[string]string{
		"escape":   "request:\n  escape: html\n",
		"content":  "dom:\n  content: pdf\n",
		"base url": "dispatch:\n  base_url: not a url\n",
		"level":    "log:\n  level: loud\n",
		"burst":    "dispatch:\n  burst: -1\n",
	}
	for name, doc := range cases {
		path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".yaml")
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit file")
	}
}
