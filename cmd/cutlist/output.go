package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"cutlist/internal/media"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTable prints a rendered table followed by a newline. Empty results
// print emptyMessage instead.
func writeTable(cmd *cobra.Command, headers []string, rows [][]string, aligns []columnAlignment, emptyMessage string) {
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, emptyMessage)
		return
	}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
}

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiGray   = "\033[90m"
)

// stateLabel renders a media state, colored when writing to a terminal.
func stateLabel(state media.State, colorize bool) string {
	label := state.String()
	if !colorize {
		return label
	}
	color := ansiGray
	switch state {
	case media.StateWaitingSegmentReview:
		color = ansiYellow
	case media.StateSegmentReviewed, media.StateMediaProcessing:
		color = ansiBlue
	case media.StateMediaProcessed:
		color = ansiGreen
	}
	return color + label + ansiReset
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// writeJSONLine encodes v as a single line, for streamed output.
func writeJSONLine(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
