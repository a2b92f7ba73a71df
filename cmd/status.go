package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/alert-bot/internal/adapters/channel/fifo"
	"github.com/bnema/alert-bot/internal/adapters/liveness/pidfile"
	"github.com/bnema/alert-bot/internal/application"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon, channel and handler status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			registry, err := app.newRegistry(cmd.Context(), loaded.config, zap.NewNop())
			if err != nil {
				return err
			}

			status := application.NewStatusService(registry, pidfile.Inspector{}, fifo.Inspector{}).
				Snapshot(cmd.Context(), loaded.repo.Path(), loaded.config)

			return writeStatusOutput(cmd, app, status, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")

	return cmd
}

func writeStatusOutput(cmd *cobra.Command, app *app, status application.Status, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	rendered, err := app.statusRenderer(status)
	if err != nil {
		return fmt.Errorf("render status: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
