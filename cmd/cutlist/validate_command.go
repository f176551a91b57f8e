package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cutlist/internal/config"
	"cutlist/internal/edl"
	"cutlist/internal/media"
	"cutlist/internal/segment"
	"cutlist/internal/sidecar"
	"cutlist/internal/title"
)

type validateOptions struct {
	detector   string
	segments   string
	title      string
	skipBackup bool
	dryRun     bool
}

type validateReport struct {
	EDLPath  string      `json:"edl_path,omitempty"`
	Filename string      `json:"filename"`
	Segments string      `json:"segments"`
	State    media.State `json:"state,omitempty"`
	DryRun   bool        `json:"dry_run"`
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Write the EDL of a recording from a detector or an explicit segment list",
		Long: "Validate builds the EDL of a recording and writes it next to the file.\n" +
			"Segments come from --segments when given, otherwise from --detector\n" +
			"or the first detector entry of the segments sidecar.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			titles, err := ctx.titleContext()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			set, err := selectSegments(path, opts)
			if err != nil {
				return err
			}
			name, err := outputTitle(path, opts.title, titles)
			if err != nil {
				return err
			}
			filename := edl.OutputFilename(name)

			report := validateReport{
				Filename: filename,
				Segments: set.String(),
				DryRun:   opts.dryRun,
			}
			out := cmd.OutOrStdout()

			if opts.dryRun {
				doc := edl.NewDocument(filename, set, opts.skipBackup)
				if err := doc.Validate(); err != nil {
					return err
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, report)
				}
				return doc.Encode(out)
			}

			edlPath, err := edl.Commit(path, filename, set, opts.skipBackup)
			if err != nil {
				return err
			}
			report.EDLPath = edlPath
			if state, err := media.StateOf(path); err == nil {
				report.State = state
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, report)
			}
			fmt.Fprintf(out, "Wrote %s\n", edlPath)
			fmt.Fprintf(out, "Filename: %s\n", filename)
			fmt.Fprintf(out, "Segments: %d (%s kept)\n", set.Len(), segment.FormatPosition(set.TotalDuration()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.detector, "detector", "d", "", "Detector key to take segments from")
	cmd.Flags().StringVar(&opts.segments, "segments", "", "Explicit segment list, e.g. 00:00:10.000-00:00:20.000,")
	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "Output title; required when the title cannot be resolved")
	cmd.Flags().BoolVar(&opts.skipBackup, "skip-backup", false, "Mark the recording as not needing a backup")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the EDL instead of writing it")
	cmd.MarkFlagsMutuallyExclusive("detector", "segments")
	return cmd
}

// selectSegments builds the set to commit. An explicit list must not
// contain overlapping entries; detector lists are added leniently.
func selectSegments(path string, opts validateOptions) (*segment.Set, error) {
	if strings.TrimSpace(opts.segments) != "" {
		segments, err := segment.Decode(opts.segments)
		if err != nil {
			return nil, fmt.Errorf("--segments: %w", err)
		}
		set := segment.NewSet()
		for _, seg := range segments {
			if err := set.AddStrict(seg); err != nil {
				return nil, fmt.Errorf("--segments: %w", err)
			}
		}
		return set, nil
	}

	results, err := sidecar.LoadDetectorResults(path)
	if err != nil {
		return nil, err
	}
	results = results.Normalized()
	key, raw, ok := results.First()
	if opts.detector != "" {
		key = opts.detector
		raw, ok = results.Get(key)
	}
	if !ok {
		if opts.detector != "" {
			return nil, fmt.Errorf("detector %q not found in %s", opts.detector, sidecar.SegmentsPath(path))
		}
		return nil, errors.New("no detector results; pass --segments")
	}
	set, err := segment.DecodeSet(raw)
	if err != nil {
		return nil, fmt.Errorf("detector %q: %w", key, err)
	}
	return set, nil
}

func outputTitle(path, explicit string, titles *title.Context) (string, error) {
	if name := strings.TrimSpace(explicit); name != "" {
		return name, nil
	}
	md, err := sidecar.LoadMetadata(path)
	if err != nil {
		return "", err
	}
	res, err := title.ResolveOrPlaceholder(path, md, titles)
	if err != nil {
		return "", err
	}
	if res.Placeholder {
		return "", fmt.Errorf("title of %s could not be resolved; pass --title", sidecar.Stem(path))
	}
	return res.Title, nil
}
