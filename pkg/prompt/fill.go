// Package prompt fills a bound form's fields from the terminal and confirms
// the request before it is sent.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbind/pkg/binder"
	"github.com/goliatone/go-formbind/pkg/request"
)

// Fill asks for a value for every field of form, path fields first, then
// query, then body. The current value is offered as the default and the
// answer is written back with SetValue, so the next construction sees it.
func Fill(ctx context.Context, driver Driver, form *binder.Form) error {
	if driver == nil {
		return errors.New("prompt: driver is nil")
	}
	if form == nil {
		return errors.New("prompt: form is nil")
	}
	for _, field := range form.Fields() {
		answer, err := ask(ctx, driver, field)
		if err != nil {
			return fmt.Errorf("prompt: %s %q: %w", field.Kind, field.Key, err)
		}
		field.Element.SetValue(answer)
	}
	return nil
}

func ask(ctx context.Context, driver Driver, field binder.Field) (string, error) {
	el := field.Element
	current := el.Value().String()
	message := fmt.Sprintf("%s %s", field.Kind, field.Key)
	help, _ := el.Attr("title")

	switch el.Tag() {
	case "select":
		options := el.Options()
		if len(options) == 0 {
			return current, nil
		}
		idx, err := driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: indexOf(options, current),
			Help:         help,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(options) {
			return "", fmt.Errorf("selection %d out of range", idx)
		}
		return options[idx], nil
	case "textarea":
		return driver.TextArea(ctx, TextAreaConfig{Message: message, Default: current, Help: help})
	}

	cfg := InputConfig{Message: message, Default: current, Help: help}
	if _, required := el.Attr("required"); required {
		cfg.Validator = requireValue
	}
	if t, _ := el.Attr("type"); strings.EqualFold(t, "password") {
		return driver.Password(ctx, cfg)
	}
	return driver.Input(ctx, cfg)
}

func requireValue(s string) error {
	if request.IsBlank(request.Some(s)) {
		return errors.New("a value is required")
	}
	return nil
}

// ConfirmSubmit shows req and asks whether to send it. A no answer returns
// ErrDeclined.
func ConfirmSubmit(ctx context.Context, driver Driver, req request.Descriptor) error {
	if driver == nil {
		return errors.New("prompt: driver is nil")
	}
	summary := req.Method + " " + req.Target()
	if req.HasBody() {
		summary += "\n" + req.BodyString()
	}
	if err := driver.Info(ctx, summary); err != nil {
		return err
	}
	ok, err := driver.Confirm(ctx, ConfirmConfig{Message: "Send this request?", Default: true})
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}
	return nil
}
