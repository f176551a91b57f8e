package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cutlist/internal/config"
	"cutlist/internal/edl"
	"cutlist/internal/sidecar"
	"cutlist/internal/title"
)

type titleReport struct {
	Source      string `json:"source"`
	Channel     string `json:"channel,omitempty"`
	Strategy    string `json:"strategy"`
	Title       string `json:"title"`
	Filename    string `json:"filename"`
	Placeholder bool   `json:"placeholder"`
}

func newTitleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "title <file>",
		Short: "Resolve the output title of a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			titles, err := ctx.titleContext()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			md, err := sidecar.LoadMetadata(path)
			if err != nil {
				return err
			}
			res, err := title.ResolveOrPlaceholder(path, md, titles)
			if err != nil {
				return err
			}
			report := titleReport{
				Source:      path,
				Channel:     res.Channel,
				Strategy:    res.Strategy.String(),
				Title:       res.Title,
				Filename:    edl.OutputFilename(res.Title),
				Placeholder: res.Placeholder,
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			channel := report.Channel
			if channel == "" {
				channel = "(none)"
			}
			fmt.Fprintf(out, "Channel:     %s\n", channel)
			fmt.Fprintf(out, "Strategy:    %s\n", report.Strategy)
			fmt.Fprintf(out, "Title:       %s\n", report.Title)
			fmt.Fprintf(out, "Filename:    %s\n", report.Filename)
			fmt.Fprintf(out, "Placeholder: %s\n", yesNo(report.Placeholder))
			return nil
		},
	}
}
