package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cutlist/internal/api"
	"cutlist/internal/config"
	"cutlist/internal/segment"
	"cutlist/internal/sidecar"
)

type detectorReport struct {
	Key      string        `json:"detector_key"`
	Raw      string        `json:"raw"`
	Segments []api.Segment `json:"segments"`
	Total    float64       `json:"total_duration"`
}

func newSegmentsCommand(ctx *commandContext) *cobra.Command {
	segmentsCmd := &cobra.Command{
		Use:   "segments",
		Short: "Inspect detector segment lists",
	}
	segmentsCmd.AddCommand(newSegmentsShowCommand(ctx))
	return segmentsCmd
}

func newSegmentsShowCommand(ctx *commandContext) *cobra.Command {
	var detector string

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Show the detector results stored next to a recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			results, err := sidecar.LoadDetectorResults(path)
			if err != nil {
				return err
			}
			results = results.Normalized()

			keys := results.Keys()
			if detector != "" {
				if _, ok := results.Get(detector); !ok {
					return fmt.Errorf("detector %q not found in %s", detector, sidecar.SegmentsPath(path))
				}
				keys = []string{detector}
			}

			reports := make([]detectorReport, 0, len(keys))
			for _, key := range keys {
				raw, _ := results.Get(key)
				set, err := segment.DecodeSet(raw)
				if err != nil {
					return fmt.Errorf("detector %q: %w", key, err)
				}
				reports = append(reports, detectorReport{
					Key:      key,
					Raw:      raw,
					Segments: api.FromSet(set),
					Total:    set.TotalDuration(),
				})
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, reports)
			}

			out := cmd.OutOrStdout()
			if len(reports) == 0 {
				fmt.Fprintf(out, "No detector results for %s\n", sidecar.Stem(path))
				return nil
			}
			for i, report := range reports {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "Detector %s\n", report.Key)
				rows := make([][]string, 0, len(report.Segments))
				for n, dto := range report.Segments {
					seg, err := dto.ToSegment()
					if err != nil {
						return err
					}
					rows = append(rows, []string{strconv.Itoa(n + 1), segment.FormatRow(seg)})
				}
				if len(rows) == 0 {
					fmt.Fprintln(out, "No segments")
					continue
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Segment"},
					rows,
					[]columnAlignment{alignRight, alignLeft},
					"Total", segment.FormatPosition(report.Total),
				))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&detector, "detector", "d", "", "Only show this detector key")
	return cmd
}
