package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cutlist/internal/config"
	"cutlist/internal/media"
	"cutlist/internal/mediawatch"
	"cutlist/internal/sidecar"
	"cutlist/internal/title"
)

type mediaEntry struct {
	Path        string      `json:"filepath"`
	Stem        string      `json:"stem"`
	State       media.State `json:"state"`
	Title       string      `json:"title"`
	Placeholder bool        `json:"placeholder"`
	Reviewed    bool        `json:"reviewed"`
}

func newMediaCommand(ctx *commandContext) *cobra.Command {
	mediaCmd := &cobra.Command{
		Use:   "media",
		Short: "Inspect recordings and their sidecar state",
	}
	mediaCmd.AddCommand(newMediaListCommand(ctx))
	mediaCmd.AddCommand(newMediaWatchCommand(ctx))
	return mediaCmd
}

func newMediaListCommand(ctx *commandContext) *cobra.Command {
	var stateFilter string

	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "List recordings with their state and resolved title",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			titles, err := ctx.titleContext()
			if err != nil {
				return err
			}
			root, err := targetDir(args)
			if err != nil {
				return err
			}
			entries, err := listMedia(root, cfg, titles)
			if err != nil {
				return err
			}
			if stateFilter != "" {
				want, err := media.ParseState(stateFilter)
				if err != nil {
					return err
				}
				entries = filterByState(entries, want)
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, entries)
			}

			colorize := shouldColorize(cmd.OutOrStdout())
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				name := entry.Title
				if entry.Placeholder {
					name += " (placeholder)"
				}
				rows = append(rows, []string{entry.Stem, stateLabel(entry.State, colorize), name})
			}
			writeTable(cmd, []string{"Media", "State", "Title"}, rows, nil,
				fmt.Sprintf("No %s files in %s", cfg.Media.Extension, root))
			return nil
		},
	}
	names := make([]string, 0, len(media.States()))
	for _, state := range media.States() {
		names = append(names, state.String())
	}
	cmd.Flags().StringVar(&stateFilter, "state", "", "Only list media in this state ("+strings.Join(names, ", ")+")")
	return cmd
}

func filterByState(entries []mediaEntry, state media.State) []mediaEntry {
	out := entries[:0]
	for _, entry := range entries {
		if entry.State == state {
			out = append(out, entry)
		}
	}
	return out
}

func listMedia(root string, cfg *config.Config, titles *title.Context) ([]mediaEntry, error) {
	paths, err := media.List(root, cfg.Media.Extension)
	if err != nil {
		return nil, err
	}
	snapshots := map[string]*media.Snapshot{}
	entries := make([]mediaEntry, 0, len(paths))
	for _, path := range paths {
		dir := filepath.Dir(path)
		snap, ok := snapshots[dir]
		if !ok {
			snap, err = media.TakeSnapshot(dir)
			if err != nil {
				return nil, err
			}
			snapshots[dir] = snap
		}
		md, err := sidecar.LoadMetadata(path)
		if err != nil {
			return nil, err
		}
		res, err := title.ResolveOrPlaceholder(path, md, titles)
		if err != nil {
			return nil, fmt.Errorf("resolve title of %s: %w", filepath.Base(path), err)
		}
		state := snap.State(filepath.Base(path))
		entries = append(entries, mediaEntry{
			Path:        path,
			Stem:        sidecar.Stem(filepath.Base(path)),
			State:       state,
			Title:       res.Title,
			Placeholder: res.Placeholder,
			Reviewed:    state.HasEDL(),
		})
	}
	return entries, nil
}

func newMediaWatchCommand(ctx *commandContext) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Print media state changes as sidecar files appear",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := targetDir(args)
			if err != nil {
				return err
			}
			watcher, err := mediawatch.New(root, mediawatch.Options{
				Extension: cfg.Media.Extension,
				Debounce:  debounce,
				Logger:    ctx.logger(cmd),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			jsonMode := ctx.jsonMode()

			states := watcher.States()
			paths := make([]string, 0, len(states))
			for path := range states {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			for _, path := range paths {
				change := mediawatch.Change{Path: path, Stem: sidecar.Stem(filepath.Base(path)), Current: states[path]}
				printChange(cmd, change, jsonMode, colorize)
			}
			if !jsonMode {
				fmt.Fprintf(out, "Watching %s (Ctrl-C to stop)\n", root)
			}

			return watcher.Run(cmd.Context(), func(change mediawatch.Change) {
				printChange(cmd, change, jsonMode, colorize)
			})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", mediawatch.DefaultDebounce, "Delay before rescanning after filesystem events")
	return cmd
}

func printChange(cmd *cobra.Command, change mediawatch.Change, jsonMode, colorize bool) {
	out := cmd.OutOrStdout()
	if jsonMode {
		_ = writeJSONLine(out, change)
		return
	}
	switch {
	case change.Removed:
		fmt.Fprintf(out, "%s: removed\n", change.Stem)
	case change.Previous == "":
		fmt.Fprintf(out, "%s: %s\n", change.Stem, stateLabel(change.Current, colorize))
	default:
		fmt.Fprintf(out, "%s: %s -> %s\n", change.Stem, stateLabel(change.Previous, colorize), stateLabel(change.Current, colorize))
	}
}

func targetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	return expanded, nil
}
