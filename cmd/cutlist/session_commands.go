package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cutlist/internal/api"
	"cutlist/internal/config"
	"cutlist/internal/review"
	"cutlist/internal/segment"
	"cutlist/internal/session"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage review sessions stored in the local database",
	}
	sessionCmd.AddCommand(newSessionCreateCommand(ctx))
	sessionCmd.AddCommand(newSessionListCommand(ctx))
	sessionCmd.AddCommand(newSessionShowCommand(ctx))
	sessionCmd.AddCommand(newSessionDeleteCommand(ctx))
	return sessionCmd
}

func newSessionCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create <dir>",
		Short: "Create a review session over a directory of recordings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(cmd, func(svc *review.Service) error {
				sess, err := svc.CreateSession(cmd.Context(), root)
				if err != nil {
					return err
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, api.FromSession(sess))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created session %s with %d media\n", sess.ID, len(sess.Medias))
				return nil
			})
		},
	}
}

func newSessionListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List review sessions, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *review.Service) error {
				summaries, err := svc.ListSessions(cmd.Context())
				if err != nil {
					return err
				}
				dtos := api.FromSummaries(summaries)
				if ctx.jsonMode() {
					return writeJSON(cmd, api.SessionListResponse{Sessions: dtos})
				}
				rows := make([][]string, 0, len(dtos))
				for _, s := range dtos {
					rows = append(rows, []string{s.ID, s.RootPath, strconv.Itoa(s.MediaCount), s.UpdatedAt})
				}
				writeTable(cmd, []string{"ID", "Root", "Media", "Updated"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}, "No sessions")
				return nil
			})
		},
	}
}

func newSessionShowCommand(ctx *commandContext) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the medias of a review session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *review.Service) error {
				sess, err := svc.GetSession(cmd.Context(), args[0], refresh)
				if err != nil {
					return err
				}
				if ctx.jsonMode() {
					return writeJSON(cmd, api.FromSession(sess))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Session %s\n", sess.ID)
				fmt.Fprintf(out, "Root: %s\n", sess.RootPath)
				writeTable(cmd, []string{"Media", "State", "Title", "Segments", "Kept", "Skip backup"},
					sessionRows(sess, shouldColorize(out)),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
					"No media")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Rebuild medias from disk, discarding unsaved edits")
	return cmd
}

func sessionRows(sess *session.Session, colorize bool) [][]string {
	rows := make([][]string, 0, len(sess.Medias))
	for _, m := range sess.Medias {
		count, kept := 0, 0.0
		if m.Segments != nil {
			count, kept = m.Segments.Len(), m.Segments.TotalDuration()
		}
		rows = append(rows, []string{
			m.Stem,
			stateLabel(m.State, colorize),
			m.Title,
			strconv.Itoa(count),
			segment.FormatPosition(kept),
			yesNo(m.SkipBackup),
		})
	}
	return rows
}

func newSessionDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a review session; sidecar files are left untouched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(svc *review.Service) error {
				if err := svc.DeleteSession(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
				return nil
			})
		},
	}
}
