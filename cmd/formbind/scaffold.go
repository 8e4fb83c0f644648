package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind"
	pkgopenapi "github.com/goliatone/go-formbind/pkg/openapi"
	"github.com/goliatone/go-formbind/pkg/scaffold"
)

func newScaffoldCmd(a *app) *cobra.Command {
	var (
		source     string
		operations []string
		output     string
		title      string
		fragment   bool
	)
	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: "Render annotated forms for the operations of an OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := pkgopenapi.ParseSource(source)
			if err != nil {
				return err
			}

			renderOpts := []scaffold.Option{scaffold.WithMarkers(a.cfg.Markers)}
			if title != "" {
				renderOpts = append(renderOpts, scaffold.WithTitle(title))
			}
			if fragment {
				renderOpts = append(renderOpts, scaffold.WithFragment())
			}

			markup, err := formbind.ScaffoldHTML(cmd.Context(), src,
				formbind.WithLoaderOptions(pkgopenapi.WithHTTPFallback(a.cfg.Dispatch.Timeout)),
				formbind.WithOperations(operations...),
				formbind.WithRenderOptions(renderOpts...),
			)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(markup)
				return err
			}
			if err := os.WriteFile(output, markup, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			a.logger.InfoContext(cmd.Context(), "forms written",
				slog.String("path", output),
				slog.Int("bytes", len(markup)),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "OpenAPI document path or URL")
	cmd.Flags().StringSliceVar(&operations, "operation", nil, "operation ids to render, in order (default all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&title, "title", "", "page title")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "render the forms without the surrounding page")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}
