package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/i3-event-handler/pkg/config"
	"github.com/macropower/i3-event-handler/pkg/wm"
)

// ErrorHandler renders errors returned by the root command.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))
	mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Render(err.Error())))
	mustN(fmt.Fprintln(w))

	hint := errorHint(err)
	if hint == nil {
		return
	}

	parts := make([]string, 0, len(hint))
	for i, h := range hint {
		switch {
		case strings.HasPrefix(h, "-"):
			parts = append(parts, styles.Program.Flag.Render(h))
		case i == 0:
			parts = append(parts, styles.ErrorText.UnsetWidth().Render(h))
		default:
			parts = append(parts, styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render(h))
		}
	}

	mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Left, parts...)))
	mustN(fmt.Fprintln(w))
}

func errorHint(err error) []string {
	switch {
	case isUsageError(err):
		return []string{"Try", "--help", "for usage."}
	case errors.Is(err, wm.ErrConnect):
		return []string{"Is the window manager running? Set", "--socket", "to choose the IPC socket."}
	case errors.Is(err, config.ErrFileNotFound):
		return []string{"Create the file, or set", "--config-file", "to use another one."}
	}

	return nil
}

// XXX: this is a hack to detect usage errors.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
