package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WodahsReklaw/TruthSaver/internal/config"
	"github.com/WodahsReklaw/TruthSaver/internal/logging"
	"github.com/WodahsReklaw/TruthSaver/internal/notifications"
	"github.com/WodahsReklaw/TruthSaver/internal/workflow"
)

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Notifications.NtfyTopic == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Notifications are disabled (notifications.ntfy_topic is empty)")
				return nil
			}
			svc := notifications.NewService(cfg)
			if err := svc.Publish(cmd.Context(), notifications.EventTest, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
}

// notifyRun publishes the run outcome. Delivery failures are logged only.
func notifyRun(ctx context.Context, cfg *config.Config, report workflow.Report, runErr error, logger *slog.Logger) {
	svc := notifications.NewService(cfg)
	var err error
	if runErr != nil {
		if ctx.Err() != nil {
			return
		}
		err = svc.Publish(ctx, notifications.EventError, notifications.Payload{
			"context": "run",
			"error":   runErr,
		})
	} else {
		payload := notifications.Payload{}
		if update := report.Update; update != nil {
			payload["added"] = update.Added
			payload["failedStages"] = strings.Join(update.FailedStages, ", ")
		}
		if summary := report.Download; summary != nil {
			payload["downloaded"] = summary.Downloaded
			payload["badLink"] = summary.BadLink
			payload["badVideo"] = summary.BadVideo
		}
		err = svc.Publish(ctx, notifications.EventRunCompleted, payload)
	}
	if err != nil {
		logging.WarnWithContext(logger, "notification failed", "notification_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run outcome was not pushed"),
		)
	}
}
