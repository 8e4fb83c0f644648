package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/pkg/bindingfile"
)

func newBuildCmd(a *app) *cobra.Command {
	var send bool
	cmd := &cobra.Command{
		Use:   "build BINDINGS.yaml",
		Short: "Construct a request from a YAML binding file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := bindingfile.Load(args[0])
			if err != nil {
				return err
			}
			reqOpts, err := a.cfg.RequestOptions()
			if err != nil {
				return err
			}
			req, err := file.Build(reqOpts...)
			if err != nil {
				return err
			}

			out, err := json.Marshal(req)
			if err != nil {
				return fmt.Errorf("encode request: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if !send {
				return nil
			}
			dispatcher, err := a.newDispatcher()
			if err != nil {
				return err
			}
			if err := dispatcher.Dispatch(cmd.Context(), req); err != nil {
				return err
			}
			dispatcher.Wait()
			return nil
		},
	}
	cmd.Flags().BoolVar(&send, "send", false, "dispatch the request after printing it")
	return cmd
}
