package cmd

import (
	tomlrepo "github.com/bnema/alert-bot/internal/adapters/repo/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "alert-bot",
		Short:         "alert-bot: route local alerts to pluggable handlers",
		Long:          "alert-bot runs a daemon that reads alert records from a named pipe and dispatches each one to configured handlers (console, log, desktop notification, Telegram, webhook, plugins). The send command injects records from flags or piped text.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	settings := viper.New()
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to the config file (default $XDG_CONFIG_HOME/alert-bot/config.toml)")
	if err := settings.BindPFlag(tomlrepo.ConfigPathKey, rootCmd.PersistentFlags().Lookup("config")); err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	app := wireApp(settings)

	rootCmd.AddCommand(
		newVersionCmd(),
		newDaemonCmd(app),
		newSendCmd(app),
		newStatusCmd(app),
		newConfigCmd(app),
		newTelegramCmd(app),
	)

	return rootCmd
}
