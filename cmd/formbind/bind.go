package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/pkg/binder"
	"github.com/goliatone/go-formbind/pkg/dispatch"
	"github.com/goliatone/go-formbind/pkg/dom"
	"github.com/goliatone/go-formbind/pkg/request"
)

type formLine struct {
	Form    string              `json:"form"`
	Request *request.Descriptor `json:"request,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func newBindCmd(a *app) *cobra.Command {
	var submit int
	cmd := &cobra.Command{
		Use:   "bind PAGE.html",
		Short: "Bind the forms of a page and print or send their requests",
		Long: `bind parses PAGE.html ("-" reads stdin) and prints one JSON line per bound
form with the request it currently describes. With --submit N the Nth submit
trigger is activated instead and its requests are sent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dispatcher *dispatch.HTTP
			if submit > 0 {
				d, err := a.newDispatcher()
				if err != nil {
					return err
				}
				dispatcher = d
			}

			page, err := a.bindPage(cmd, args[0], dispatcher)
			if err != nil {
				return err
			}

			if submit == 0 {
				return printForms(cmd.OutOrStdout(), page)
			}

			triggers := page.Triggers()
			if submit > len(triggers) {
				return fmt.Errorf("page has %d submit triggers, cannot activate #%d", len(triggers), submit)
			}
			activateErr := page.Activate(cmd.Context(), triggers[submit-1])
			dispatcher.Wait()
			return activateErr
		},
	}
	cmd.Flags().IntVar(&submit, "submit", 0, "activate the Nth submit trigger (1-based) and send its requests")
	return cmd
}

// bindPage parses the page at name and sets up a binder configured from the
// loaded settings. A nil dispatcher keeps activated requests local.
func (a *app) bindPage(cmd *cobra.Command, name string, dispatcher *dispatch.HTTP) (*binder.Page, error) {
	var r io.Reader = cmd.InOrStdin()
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open page: %w", err)
		}
		defer f.Close()
		r = f
	}

	domOpts, err := a.cfg.DOMOptions()
	if err != nil {
		return nil, err
	}
	doc, err := dom.Parse(r, domOpts...)
	if err != nil {
		return nil, err
	}
	reqOpts, err := a.cfg.RequestOptions()
	if err != nil {
		return nil, err
	}

	opts := []binder.Option{
		binder.WithMarkers(a.cfg.Markers),
		binder.WithLogger(a.logger),
		binder.WithRequestOptions(reqOpts...),
	}
	if dispatcher != nil {
		opts = append(opts, binder.WithDispatcher(dispatcher))
	}
	return binder.New(opts...).Setup(cmd.Context(), doc), nil
}

func printForms(w io.Writer, page *binder.Page) error {
	enc := json.NewEncoder(w)
	for _, form := range page.Forms() {
		line := formLine{Form: form.Descriptor()}
		if req, err := form.Construct(); err != nil {
			line.Error = err.Error()
		} else {
			line.Request = &req
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("encode form: %w", err)
		}
	}
	return nil
}
