package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bnema/alert-bot/internal/adapters/handlers/params"
	"github.com/bnema/alert-bot/internal/adapters/handlers/telegram"
	"github.com/bnema/alert-bot/internal/domain"
	"github.com/spf13/cobra"
)

// botParams is the subset of telegram parameters needed before a chat id is known.
type botParams struct {
	Token string `param:"token"`
	URL   string `param:"url"`
}

func newTelegramCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "telegram",
		Short: "Telegram bot helpers",
	}

	cmd.AddCommand(newTelegramChatIDCmd(app))

	return cmd
}

func newTelegramChatIDCmd(app *app) *cobra.Command {
	var instance string

	cmd := &cobra.Command{
		Use:   "chat-id",
		Short: "List the chats that messaged the bot",
		Long:  "chat-id reads the bot's pending updates, prints every chat id it finds and replies with the id to chats that sent /start. The updates are then acknowledged so a later run does not reply twice. The bot API endpoint comes from the instance's url parameter.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.telegramClient(cmd.Context(), instance)
			if err != nil {
				return err
			}

			found, err := client.Chats(cmd.Context())
			if err != nil {
				return fmt.Errorf("list telegram chats: %w", err)
			}
			if len(found.Chats) == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No chats found. Send /start to the bot and try again.")
				return err
			}

			for _, chat := range found.Chats {
				name := chat.Title
				if name == "" {
					name = chat.Username
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", chat.ID, chat.Type, name); err != nil {
					return err
				}
			}

			for _, chat := range found.Starters {
				if err := client.ReplyChatID(cmd.Context(), chat); err != nil {
					return fmt.Errorf("reply to chat %d: %w", chat.ID, err)
				}
			}

			if err := client.Acknowledge(cmd.Context(), found.NextOffset); err != nil {
				return fmt.Errorf("acknowledge telegram updates: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&instance, "instance", telegram.TypeName, "telegram handler instance to read the token from")

	return cmd
}

func (a *app) telegramClient(ctx context.Context, instance string) (*telegram.Client, error) {
	loaded, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	handlerCfg := loaded.config.HandlerConfigFor(instance)
	if handlerCfg.Type != telegram.TypeName {
		return nil, fmt.Errorf("%w: instance %q has type %q, not %s", domain.ErrHandlerMisconfigured, instance, handlerCfg.Type, telegram.TypeName)
	}

	resolver, err := a.paramResolver(loaded)
	if err != nil {
		return nil, err
	}
	raw, err := resolver.Resolve(ctx, handlerCfg.Config)
	if err != nil {
		return nil, fmt.Errorf("resolve %s params: %w", instance, err)
	}

	subset := map[string]any{}
	for _, key := range []string{"token", "url"} {
		if value, ok := raw[key]; ok {
			subset[key] = value
		}
	}

	var p botParams
	if err := params.Decode(subset, &p, "token"); err != nil {
		return nil, fmt.Errorf("%s: %w", instance, err)
	}

	httpClient := a.httpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return telegram.NewClient(p.URL, p.Token, httpClient), nil
}
