package request_test

import (
	"testing"

	"github.com/goliatone/go-formbind/pkg/request"
)

func TestFirstPresent(t *testing.T) {
	t.Parallel()

	if got := request.FirstPresent(); !got.IsNone() {
		t.Fatalf("expected null for no candidates")
	}
	if got := request.FirstPresent(request.None(), request.None()); !got.IsNone() {
		t.Fatalf("expected null when all candidates are null")
	}
	got := request.FirstPresent(request.None(), request.Some(""), request.Some("later"))
	if text, ok := got.Get(); !ok || text != "" {
		t.Fatalf("expected first present empty string, got %q (present=%v)", text, ok)
	}
}

func TestIsBlank(t *testing.T) {
	t.Parallel()

	blank := []request.Value{
		request.None(),
		request.Some(""),
		request.Some(" \t\r\n"),
		request.Some("\u00a0\u2003\ufeff"),
	}
	for _, v := range blank {
		if !request.IsBlank(v) {
			t.Fatalf("expected %q to be blank", v.String())
		}
	}

	content := []request.Value{
		request.Some("x"),
		request.Some(" x "),
		request.Some("null"),
		request.Some("undefined"),
		request.Some("0"),
	}
	for _, v := range content {
		if !request.IsNotBlank(v) {
			t.Fatalf("expected %q to carry content", v.String())
		}
	}
}

func TestArgs_Ordering(t *testing.T) {
	t.Parallel()

	var args request.Args
	args.Set("b", request.Some("1"))
	args.Set("a", request.Some("2"))
	args.Set("b", request.Some("3"))
	args.Set("7", request.Some("4"))
	args.Set("07", request.Some("5"))

	keys := args.Keys()
	want := []string{"7", "b", "a", "07"}
	if len(keys) != len(want) {
		t.Fatalf("keys mismatch: want %v got %v", want, keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys mismatch: want %v got %v", want, keys)
		}
	}
	if args.Get("b").String() != "3" {
		t.Fatalf("expected overwritten value")
	}
	if _, ok := args.Lookup("missing"); ok {
		t.Fatalf("expected missing key lookup to fail")
	}
	if !args.Get("missing").IsNone() {
		t.Fatalf("expected missing key to read as null")
	}
}

func TestSplitKey(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		"a":      {"a"},
		"a.b":    {"a", "b"},
		"a...b":  {"a", "b"},
		"a.":     {"a", ""},
		"":       {""},
		"..a..b": {"", "a", "b"},
	}
	for key, want := range cases {
		got := request.SplitKey(key)
		if len(got) != len(want) {
			t.Fatalf("split %q: want %q got %q", key, want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("split %q: want %q got %q", key, want, got)
			}
		}
	}
}
