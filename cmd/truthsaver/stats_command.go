package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/WodahsReklaw/TruthSaver/internal/records"
)

const unknownGame = "Unknown"

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize stored times per game and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := s.Close(); closeErr != nil {
					err = errors.Join(err, fmt.Errorf("close store: %w", closeErr))
				}
			}()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Store: %s (%s)\n", s.Path(), s.Kind())
			fmt.Fprintln(out, renderStats(s.Entries()))
			return nil
		},
	}
}

func renderStats(entries []records.TimeEntry) string {
	statuses := records.Statuses()
	counts := map[string]map[records.Status]int{}
	for _, entry := range entries {
		name := unknownGame
		if game, err := entry.Game(); err == nil {
			name = game.String()
		}
		if counts[name] == nil {
			counts[name] = map[records.Status]int{}
		}
		counts[name][entry.Status]++
	}

	games := make([]string, 0, len(records.Games())+1)
	for _, game := range records.Games() {
		games = append(games, game.String())
	}
	if _, ok := counts[unknownGame]; ok {
		games = append(games, unknownGame)
	}

	headers := []string{"Game"}
	aligns := []columnAlignment{alignLeft}
	for _, status := range statuses {
		headers = append(headers, statusTitle(status))
		aligns = append(aligns, alignRight)
	}
	headers = append(headers, "Total")
	aligns = append(aligns, alignRight)

	totals := make([]int, len(statuses)+1)
	rows := make([][]string, 0, len(games))
	for _, name := range games {
		row := []string{name}
		sum := 0
		for i, status := range statuses {
			n := counts[name][status]
			totals[i] += n
			sum += n
			row = append(row, strconv.Itoa(n))
		}
		totals[len(statuses)] += sum
		rows = append(rows, append(row, strconv.Itoa(sum)))
	}

	footer := []string{"Total"}
	for _, n := range totals {
		footer = append(footer, strconv.Itoa(n))
	}
	return renderTable(headers, rows, footer, aligns)
}

// statusTitle turns bad_link into "Bad Link".
func statusTitle(status records.Status) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(status), "_", " "))
}
