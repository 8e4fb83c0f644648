package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type received struct {
	Method      string
	Target      string
	ContentType string
	Auth        string
	Body        string
}

func recordingServer(t *testing.T) (*httptest.Server, <-chan received) {
	t.Helper()
	ch := make(chan received, 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		ch <- received{
			Method:      r.Method,
			Target:      r.URL.RequestURI(),
			ContentType: r.Header.Get("Content-Type"),
			Auth:        r.Header.Get("Authorization"),
			Body:        string(body),
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)
	return server, ch
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	bindings := writeFile(t, dir, "bindings.yaml", `
endpoint: GET /items/{id}
path:
  id: 42
query:
  sort: asc
`)
	stdout, _, err := execute(t, "", "build", bindings)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if diff := cmp.Diff(`{"method":"GET","path":"/items/42","query":"?sort=asc"}`+"\n", stdout); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildCommand_Send(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	server, requests := recordingServer(t)
	cfg := writeFile(t, dir, "formbind.yaml", "dispatch:\n  base_url: "+server.URL+"/api/\n  headers:\n    authorization: Bearer abc\n")
	bindings := writeFile(t, dir, "bindings.yaml", "endpoint: post items/{id}\npath:\n  id: 7\nbody:\n  name: Ada\n")

	if _, _, err := execute(t, "", "--config", cfg, "build", "--send", bindings); err != nil {
		t.Fatalf("build: %v", err)
	}

	want := received{
		Method:      "POST",
		Target:      "/api/items/7",
		ContentType: "text/plain;charset=UTF-8",
		Auth:        "Bearer abc",
		Body:        `{"name":"Ada"}`,
	}
	select {
	case got := <-requests:
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("request mismatch (-want +got):\n%s", diff)
		}
	default:
		t.Fatalf("request was not sent")
	}
}

const bindPage = `<div class="form" data-endpoint="PUT /items/{id}">
  <input data-path-arg="id" value="7">
  <input data-query-arg="notify" value="yes">
  <input data-body-arg="name" value="Ada">
  <button data-action="submit">Save</button>
</div>
<div class="form" data-endpoint="GET /items">
  <input data-query-arg="page" value="2">
  <button data-action="submit">List</button>
</div>
<div class="form" data-endpoint="broken">
  <button data-action="submit">Never</button>
</div>`

func TestBindCommand_PrintsRequests(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, stderr, err := execute(t, bindPage, "bind", "-")
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	want := `{"form":"PUT /items/{id}","request":{"method":"PUT","path":"/items/7","query":"?notify=yes","body":"{\"name\":\"Ada\"}"}}
{"form":"GET /items","request":{"method":"GET","path":"/items","query":"?page=2"}}
`
	if diff := cmp.Diff(want, stdout); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(stderr, "form setup failed") {
		t.Fatalf("expected setup failure to be logged, got %q", stderr)
	}
}

func TestBindCommand_Submit(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	server, requests := recordingServer(t)
	t.Setenv("FORMBIND_DISPATCH_BASE_URL", server.URL)
	pagePath := writeFile(t, dir, "page.html", bindPage)

	if _, _, err := execute(t, "", "bind", "--submit", "2", pagePath); err != nil {
		t.Fatalf("bind: %v", err)
	}
	select {
	case got := <-requests:
		if got.Method != "GET" || got.Target != "/items?page=2" || got.Body != "" {
			t.Fatalf("unexpected request %+v", got)
		}
	default:
		t.Fatalf("request was not sent")
	}

	if _, _, err := execute(t, "", "bind", "--submit", "3", pagePath); err == nil {
		t.Fatalf("expected error for missing trigger")
	}
}

func TestScaffoldCommand(t *testing.T) {
	fixture, err := filepath.Abs(filepath.Join("..", "..", "testdata", "petstore.yaml"))
	if err != nil {
		t.Fatalf("fixture path: %v", err)
	}
	dir := t.TempDir()
	t.Chdir(dir)

	stdout, _, err := execute(t, "", "scaffold", "--source", fixture, "--operation", "showPet", "--fragment")
	if err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	if !strings.Contains(stdout, `data-endpoint="GET /pets/{petId}"`) || strings.Contains(stdout, "<html") {
		t.Fatalf("unexpected fragment:\n%s", stdout)
	}

	out := filepath.Join(dir, "forms.html")
	if _, _, err := execute(t, "", "scaffold", "-s", fixture, "-o", out, "--title", "Pets"); err != nil {
		t.Fatalf("scaffold to file: %v", err)
	}
	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	stdout, _, err = execute(t, string(written), "bind", "-")
	if err != nil {
		t.Fatalf("bind scaffolded page: %v", err)
	}
	if got := strings.Count(stdout, "\n"); got != 4 {
		t.Fatalf("expected 4 bound forms, got %d:\n%s", got, stdout)
	}
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cfg := writeFile(t, dir, "bad.yaml", "request:\n  escape: html\n")

	if _, _, err := execute(t, "", "--config", cfg, "bind", "-"); err == nil {
		t.Fatalf("expected invalid config error")
	}
}
