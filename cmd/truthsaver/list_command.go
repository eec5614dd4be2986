package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WodahsReklaw/TruthSaver/internal/duration"
	"github.com/WodahsReklaw/TruthSaver/internal/records"
)

type listFilter struct {
	status string
	player string
	game   string
	asJSON bool
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var filter listFilter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			match, err := filter.matcher()
			if err != nil {
				return err
			}
			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := s.Close(); closeErr != nil {
					err = errors.Join(err, fmt.Errorf("close store: %w", closeErr))
				}
			}()

			entries := []records.TimeEntry{}
			for _, entry := range s.Entries() {
				if match(entry) {
					entries = append(entries, entry)
				}
			}
			if filter.asJSON {
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No matching times")
				return nil
			}
			fmt.Fprintln(out, renderEntries(entries))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.status, "status", "", "Only show entries with this status (new, downloaded, bad_link, bad_video)")
	cmd.Flags().StringVar(&filter.player, "player", "", "Only show entries whose player name contains this text")
	cmd.Flags().StringVar(&filter.game, "game", "", "Only show entries for this game (goldeneye, perfect-dark)")
	cmd.Flags().BoolVar(&filter.asJSON, "json", false, "Print entries as JSON")
	return cmd
}

func (f listFilter) matcher() (func(records.TimeEntry) bool, error) {
	var (
		status    records.Status
		game      records.Game
		hasStatus bool
		hasGame   bool
	)
	if value := strings.TrimSpace(f.status); value != "" {
		parsed, err := records.ParseStatus(value)
		if err != nil {
			return nil, err
		}
		status, hasStatus = parsed, true
	}
	if value := strings.TrimSpace(f.game); value != "" {
		parsed, err := records.ParseGame(value)
		if err != nil {
			return nil, err
		}
		game, hasGame = parsed, true
	}
	player := strings.ToLower(strings.TrimSpace(f.player))

	return func(entry records.TimeEntry) bool {
		if hasStatus && entry.Status != status {
			return false
		}
		if hasGame {
			entryGame, err := entry.Game()
			if err != nil || entryGame != game {
				return false
			}
		}
		if player != "" && !strings.Contains(strings.ToLower(entry.Player), player) {
			return false
		}
		return true
	}, nil
}

func renderEntries(entries []records.TimeEntry) string {
	headers := []string{"Stage", "Mode", "Time", "Player", "Status", "URL"}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Stage,
			string(entry.Mode),
			duration.Format(entry.Time),
			entry.Player,
			string(entry.Status),
			entry.URL,
		})
	}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}
	return renderTable(headers, rows, nil, aligns)
}
