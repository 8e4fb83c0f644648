package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/internal/config"
	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/pkg/dispatch"
)

type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "formbind",
		Short: "Bind annotated HTML forms to HTTP requests",
		Long: `formbind reads pages whose forms declare an endpoint and argument markers,
builds the request each form describes and sends it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default is ./"+config.DefaultFile+" when present)")

	root.AddCommand(
		newBuildCmd(a),
		newBindCmd(a),
		newScaffoldCmd(a),
		newPromptCmd(a),
	)
	return root
}

func (a *app) init(stderr io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) newDispatcher() (*dispatch.HTTP, error) {
	d := a.cfg.Dispatch
	opts := []dispatch.Option{
		dispatch.WithBaseURL(d.BaseURL),
		dispatch.WithTimeout(d.Timeout),
		dispatch.WithContentType(d.ContentType),
		dispatch.WithRateLimit(d.RateLimit, d.Burst),
		dispatch.WithLogger(a.logger),
	}
	names := make([]string, 0, len(d.Headers))
	for name := range d.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		opts = append(opts, dispatch.WithHeader(name, d.Headers[name]))
	}
	return dispatch.NewHTTP(opts...)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
