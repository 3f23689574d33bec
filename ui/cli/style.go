// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/toeirei/avail/internal/logging"
	"golang.org/x/term"
)

var (
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// banner and notice print informational lines to stderr in verbose mode,
// styled when stderr is a terminal.
func banner(cmd *cobra.Command, text string) { styledInfo(cmd, bannerStyle, text) }

func notice(cmd *cobra.Command, text string) { styledInfo(cmd, noticeStyle, text) }

func styledInfo(cmd *cobra.Command, style lipgloss.Style, text string) {
	if !logging.Verbose() {
		return
	}
	w := cmd.ErrOrStderr()
	if isTerminal(w) {
		text = style.Render(text)
	}
	fmt.Fprintln(w, text)
}
