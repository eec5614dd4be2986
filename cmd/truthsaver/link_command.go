package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WodahsReklaw/TruthSaver/internal/records"
	"github.com/WodahsReklaw/TruthSaver/internal/videolink"
)

func newLinkCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "link <detail-url>",
		Short: "Print the video link found on a time's detail page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detailURL := strings.TrimSpace(args[0])
			if detailURL == "" {
				return errors.New("detail url is required")
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			client, err := ctx.fetchClient()
			if err != nil {
				return err
			}

			resolver := videolink.New(client, logger)
			link, err := resolver.Resolve(cmd.Context(), records.TimeEntry{URL: detailURL})
			if err != nil {
				var linkErr *videolink.LinkError
				if errors.As(err, &linkErr) {
					if linkErr.Link != "" {
						return fmt.Errorf("%s: %w (%s)", detailURL, linkErr.Kind, linkErr.Link)
					}
					return fmt.Errorf("%s: %w", detailURL, linkErr.Kind)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
}
