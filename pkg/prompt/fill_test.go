package prompt_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/binder"
	"github.com/goliatone/go-formbind/pkg/dom"
	"github.com/goliatone/go-formbind/pkg/prompt"
	"github.com/goliatone/go-formbind/pkg/request"
)

type stubDriver struct {
	inputs    []string
	selectIdx []int
	confirm   []bool
	textAreas []string
	passwords []string

	asked []string
	info  []string
}

func (s *stubDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	s.asked = append(s.asked, "input:"+cfg.Message+"="+cfg.Default)
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[0]
	s.inputs = s.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg prompt.InputConfig) (string, error) {
	s.asked = append(s.asked, "password:"+cfg.Message)
	if len(s.passwords) == 0 {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[0]
	s.passwords = s.passwords[1:]
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	s.asked = append(s.asked, "confirm:"+cfg.Message)
	if len(s.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[0]
	s.confirm = s.confirm[1:]
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	s.asked = append(s.asked, "select:"+cfg.Message+"="+cfg.Options[cfg.DefaultIndex])
	if len(s.selectIdx) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[0]
	s.selectIdx = s.selectIdx[1:]
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg prompt.TextAreaConfig) (string, error) {
	s.asked = append(s.asked, "textarea:"+cfg.Message+"="+cfg.Default)
	if len(s.textAreas) == 0 {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[0]
	s.textAreas = s.textAreas[1:]
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.info = append(s.info, msg)
	return nil
}

const page = `<form class="form" data-endpoint="POST /items/{id}">
  <input data-path-arg="id" value="1" required>
  <select data-query-arg="sort"><option>asc</option><option selected>desc</option></select>
  <input type="password" data-body-arg="secret">
  <textarea data-body-arg="notes">old</textarea>
  <button data-action="submit">Go</button>
</form>`

func boundForm(t *testing.T) *binder.Form {
	t.Helper()
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	forms := binder.New(binder.WithLogger(slog.New(slog.DiscardHandler))).Setup(context.Background(), doc).Forms()
	if len(forms) != 1 {
		t.Fatalf("expected one form, got %d", len(forms))
	}
	return forms[0]
}

func TestFill_WritesAnswersBack(t *testing.T) {
	t.Parallel()

	form := boundForm(t)
	driver := &stubDriver{
		inputs:    []string{"42"},
		selectIdx: []int{0},
		passwords: []string{"hunter2"},
		textAreas: []string{"new"},
	}
	if err := prompt.Fill(context.Background(), driver, form); err != nil {
		t.Fatalf("fill: %v", err)
	}

	wantAsked := []string{
		"input:path id=1",
		"select:query sort=desc",
		"password:body secret",
		"textarea:body notes=old",
	}
	if diff := cmp.Diff(wantAsked, driver.asked); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}

	got, err := form.Construct()
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	want := request.Descriptor{
		Method: "POST",
		Path:   "/items/42",
		Query:  "?sort=asc",
		Body:   []byte(`{"secret":"hunter2","notes":"new"}`),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_RequiredFieldRejectsBlank(t *testing.T) {
	t.Parallel()

	err := prompt.Fill(context.Background(), &stubDriver{inputs: []string{"  "}}, boundForm(t))
	if err == nil {
		t.Fatalf("expected validation error for blank required field")
	}
}

func TestFill_PropagatesAbort(t *testing.T) {
	t.Parallel()

	driver := &abortingDriver{stubDriver: &stubDriver{}}
	err := prompt.Fill(context.Background(), driver, boundForm(t))
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

type abortingDriver struct {
	*stubDriver
}

func (a *abortingDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	return "", prompt.ErrAborted
}

func TestConfirmSubmit(t *testing.T) {
	t.Parallel()

	req := request.Descriptor{Method: "POST", Path: "/users", Query: "?a=1", Body: []byte(`{"name":"Ada"}`)}

	driver := &stubDriver{confirm: []bool{true, false}}
	if err := prompt.ConfirmSubmit(context.Background(), driver, req); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := prompt.ConfirmSubmit(context.Background(), driver, req); !errors.Is(err, prompt.ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	want := []string{"POST /users?a=1\n{\"name\":\"Ada\"}", "POST /users?a=1\n{\"name\":\"Ada\"}"}
	if diff := cmp.Diff(want, driver.info); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}
