package application

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
)

const maxInputLine = 1 << 20

// SendRequest describes one producer invocation. Every non-blank line of Lines
// that passes Match and Exclude becomes one record.
type SendRequest struct {
	Subject  string
	Handlers []string
	Lines    io.Reader
	Match    *regexp.Regexp
	Exclude  *regexp.Regexp
}

func (r SendRequest) accepts(line string) bool {
	if r.Match != nil && !r.Match.MatchString(line) {
		return false
	}
	if r.Exclude != nil && r.Exclude.MatchString(line) {
		return false
	}
	return true
}

type Producer struct {
	probe  ports.LivenessProbe
	opener ports.ChannelWriterOpener
	codec  ports.RecordCodec
	clock  ports.Clock
}

func NewProducer(probe ports.LivenessProbe, opener ports.ChannelWriterOpener, codec ports.RecordCodec, clock ports.Clock) *Producer {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Producer{probe: probe, opener: opener, codec: codec, clock: clock}
}

// Send writes the accepted lines of req to the channel and returns how many
// records were written. Each record goes out in a single Write so lines up to
// PIPE_BUF never interleave with other producers.
func (p *Producer) Send(ctx context.Context, req SendRequest) (int, error) {
	if !p.probe.IsReady() {
		return 0, domain.ErrDaemonNotRunning
	}
	if req.Lines == nil {
		return 0, domain.ErrNoInput
	}

	writer, err := p.opener.OpenWriter(ctx)
	if err != nil {
		return 0, fmt.Errorf("open channel: %w", err)
	}
	defer writer.Close()

	scanner := bufio.NewScanner(req.Lines)
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputLine)

	sent := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		body := strings.TrimSpace(scanner.Text())
		if body == "" || !req.accepts(body) {
			continue
		}

		line, err := p.codec.Encode(domain.NewRecord(req.Subject, body, p.clock.Now()), req.Handlers)
		if err != nil {
			return sent, fmt.Errorf("encode record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return sent, fmt.Errorf("write record: %w", err)
		}
		sent++
	}
	if err := scanner.Err(); err != nil {
		return sent, fmt.Errorf("read input: %w", err)
	}

	return sent, nil
}
