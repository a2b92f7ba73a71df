package cmd

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/bnema/alert-bot/internal/adapters/channel/fifo"
	"github.com/bnema/alert-bot/internal/adapters/liveness/pidfile"
	"github.com/bnema/alert-bot/internal/adapters/wire"
	"github.com/bnema/alert-bot/internal/application"
	"github.com/bnema/alert-bot/internal/domain"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type sendOptions struct {
	subject  string
	body     string
	handlers []string
	match    string
	exclude  string
}

func newSendCmd(app *app) *cobra.Command {
	opts := sendOptions{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message to the running daemon",
		Long:  "send writes one record per input line to the daemon channel. Input comes from --body or from piped stdin, never both.",
		Example: `  alert-bot send -s backup -b "nightly backup finished"
  journalctl -f | alert-bot send -s journal --match 'error|fail' --handlers tg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.request(cmd.InOrStdin(), cmd.Flags().Changed("body"))
			if err != nil {
				return err
			}

			loaded, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			tool := loaded.config.Tool

			producer := application.NewProducer(
				pidfile.Probe{Path: tool.PIDFile},
				fifo.NewWriterOpener(tool.ChannelPath),
				wire.JSONLines{},
				app.clock,
			)

			sent, err := producer.Send(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("send: %w", err)
			}
			if sent == 0 {
				_, err = fmt.Fprintln(cmd.ErrOrStderr(), "no lines sent")
				return err
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.subject, "subject", "s", "", "message subject")
	cmd.Flags().StringVarP(&opts.body, "body", "b", "", "message body; each line becomes one record")
	cmd.Flags().StringSliceVar(&opts.handlers, "handlers", nil, "handler instances to deliver to besides the defaults")
	cmd.Flags().StringVar(&opts.match, "match", "", "only send lines matching this regular expression")
	cmd.Flags().StringVar(&opts.exclude, "exclude", "", "skip lines matching this regular expression")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

// request picks the input source and compiles the line filters.
func (o sendOptions) request(stdin io.Reader, hasBody bool) (application.SendRequest, error) {
	piped := isPiped(stdin)

	var lines io.Reader
	switch {
	case hasBody && piped:
		return application.SendRequest{}, domain.ErrInputConflict
	case hasBody:
		lines = strings.NewReader(o.body)
	case piped:
		lines = stdin
	default:
		return application.SendRequest{}, domain.ErrNoInput
	}

	match, err := compileFilter("match", o.match)
	if err != nil {
		return application.SendRequest{}, err
	}
	exclude, err := compileFilter("exclude", o.exclude)
	if err != nil {
		return application.SendRequest{}, err
	}

	return application.SendRequest{
		Subject:  o.subject,
		Handlers: o.handlers,
		Lines:    lines,
		Match:    match,
		Exclude:  exclude,
	}, nil
}

func compileFilter(flag, expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, nil
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("parse --%s: %w", flag, err)
	}

	return re, nil
}

// isPiped reports whether r carries data from a pipe or redirected file. Readers
// that are not files, as set by tests, count as piped.
func isPiped(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return r != nil
	}

	fd := file.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return false
	}

	info, err := file.Stat()
	if err != nil {
		return false
	}
	mode := info.Mode()

	return mode&os.ModeNamedPipe != 0 || mode.IsRegular()
}
