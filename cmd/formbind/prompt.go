package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/pkg/prompt"
)

func newPromptCmd(a *app) *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "prompt PAGE.html",
		Short: "Fill a form interactively and send its request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcher, err := a.newDispatcher()
			if err != nil {
				return err
			}
			page, err := a.bindPage(cmd, args[0], dispatcher)
			if err != nil {
				return err
			}
			forms := page.Forms()
			if index < 1 || index > len(forms) {
				return fmt.Errorf("page has %d bound forms, cannot fill #%d", len(forms), index)
			}
			form := forms[index-1]

			driver := prompt.NewSurveyDriver(cmd.OutOrStdout())
			if err := prompt.Fill(cmd.Context(), driver, form); err != nil {
				return err
			}
			req, err := form.Construct()
			if err != nil {
				return err
			}
			if err := prompt.ConfirmSubmit(cmd.Context(), driver, req); err != nil {
				if errors.Is(err, prompt.ErrDeclined) {
					fmt.Fprintln(cmd.OutOrStdout(), "request not sent")
					return nil
				}
				return err
			}
			if err := dispatcher.Dispatch(cmd.Context(), req); err != nil {
				return err
			}
			dispatcher.Wait()
			return nil
		},
	}
	cmd.Flags().IntVar(&index, "form", 1, "bound form to fill (1-based)")
	return cmd
}
