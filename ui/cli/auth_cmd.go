// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/avail/internal/i18n"
	"github.com/toeirei/avail/internal/source"
)

func newAuthCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to a calendar provider",
	}

	google := &cobra.Command{
		Use:   "google",
		Short: "Authorize Google Calendar (authorization code flow)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := source.GoogleOAuthConfig(opts.cfg.Google.CredentialsFile)
			if err != nil {
				return err
			}
			tokens := source.NewTokenStore(opts.cfg.Google.TokenFile)
			out := cmd.OutOrStdout()
			err = source.AuthorizeGoogle(cmd.Context(), conf, tokens, cmd.InOrStdin(), func(authURL string) {
				fmt.Fprintln(out, i18n.T("auth.open_url"))
				fmt.Fprintln(out, authURL)
				fmt.Fprint(out, i18n.T("auth.prompt_code"))
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, i18n.T("auth.saved", tokens.Path()))
			return nil
		},
	}

	outlook := &cobra.Command{
		Use:   "outlook",
		Short: "Authorize Outlook Calendar (device code flow)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfg.Outlook.ClientID == "" {
				return fmt.Errorf("outlook.client_id is not set; register an app in Azure and run with AVAIL_OUTLOOK_CLIENT_ID or edit %s", opts.cfgPath)
			}
			conf := source.OutlookOAuthConfig(opts.cfg.Outlook.ClientID, opts.cfg.Outlook.Tenant)
			tokens := source.NewTokenStore(opts.cfg.Outlook.TokenFile)
			out := cmd.OutOrStdout()
			err := source.AuthorizeOutlook(cmd.Context(), conf, tokens, func(uri, code string) {
				fmt.Fprintln(out, i18n.T("auth.device_prompt", uri, code))
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, i18n.T("auth.saved", tokens.Path()))
			return nil
		},
	}

	cmd.AddCommand(google, outlook)
	return cmd
}
