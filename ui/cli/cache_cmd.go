// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/avail/internal/cache"
	"github.com/toeirei/avail/internal/i18n"
)

func newCacheCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached calendar responses",
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cache.Open(opts.cfg.Cache)
			if err != nil {
				return errors.New(i18n.T("cache.clear_failed", err))
			}
			defer store.Close()
			if err := store.Clear(cmd.Context()); err != nil {
				return errors.New(i18n.T("cache.clear_failed", err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cache.cleared"))
			return nil
		},
	}
	cmd.AddCommand(clearCmd)
	return cmd
}
