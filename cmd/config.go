package cmd

import (
	"fmt"
	"os"

	tomlrepo "github.com/bnema/alert-bot/internal/adapters/repo/toml"
	"github.com/bnema/alert-bot/internal/application"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(newConfigPathCmd(app), newConfigInitCmd(app), newConfigShowCmd(app))

	return cmd
}

func newConfigPathCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the resolved configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configs, err := app.configService()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), configs.Path())
			return err
		},
	}
}

func newConfigInitCmd(app *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configs, err := app.configService()
			if err != nil {
				return err
			}

			written, err := configs.Init(cmd.Context(), force)
			if err != nil {
				return err
			}
			if !written {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "config already exists at %s\n", configs.Path())
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote default config to %s\n", configs.Path())
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")

	return cmd
}

func (a *app) configService() (*application.ConfigService, error) {
	repo, err := tomlrepo.NewRepository(a.settings)
	if err != nil {
		return nil, fmt.Errorf("wire config repository: %w", err)
	}

	return application.NewConfigService(repo), nil
}

func newConfigShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the configuration file, writing defaults first when missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			data, err := os.ReadFile(loaded.repo.Path())
			if err != nil {
				return fmt.Errorf("read config: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
