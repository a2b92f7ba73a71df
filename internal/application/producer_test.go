package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/bnema/alert-bot/internal/adapters/wire"
	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProbe bool

func (p staticProbe) IsReady() bool { return bool(p) }

// recordingWriter keeps each Write call separately.
type recordingWriter struct {
	writes   [][]byte
	closed   bool
	writeErr error
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	if w.writeErr != nil {
		return 0, w.writeErr
	}
	w.writes = append(w.writes, bytes.Clone(p))
	return len(p), nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

type writerOpener struct {
	writer *recordingWriter
	err    error
	opened int
}

func (o *writerOpener) OpenWriter(context.Context) (io.WriteCloser, error) {
	o.opened++
	if o.err != nil {
		return nil, o.err
	}
	return o.writer, nil
}

func decodeWrites(t *testing.T, writes [][]byte) []domain.Message {
	t.Helper()

	messages := make([]domain.Message, 0, len(writes))
	for _, line := range writes {
		require.True(t, bytes.HasSuffix(line, []byte("\n")))
		msg, err := wire.Decode(line)
		require.NoError(t, err)
		messages = append(messages, msg)
	}
	return messages
}

func TestProducerSendWritesOneRecordPerLine(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 30, 0, 123456789, time.UTC)
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(now)
	writer := &recordingWriter{}
	producer := NewProducer(staticProbe(true), &writerOpener{writer: writer}, wire.JSONLines{}, clock)

	sent, err := producer.Send(context.Background(), SendRequest{
		Subject:  "backup",
		Handlers: []string{"print"},
		Lines:    strings.NewReader("  started \n\n\tfinished\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.True(t, writer.closed)

	messages := decodeWrites(t, writer.writes)
	require.Len(t, messages, 2)
	assert.Equal(t, "started", messages[0].Record.Body)
	assert.Equal(t, "finished", messages[1].Record.Body)
	assert.Equal(t, "backup", messages[1].Record.Subject)
	assert.Equal(t, []string{"print"}, messages[0].Handlers)
	assert.True(t, now.Equal(messages[0].Record.Timestamp))
}

func TestProducerSendAppliesFilters(t *testing.T) {
	t.Parallel()

	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(time.Now())
	writer := &recordingWriter{}
	producer := NewProducer(staticProbe(true), &writerOpener{writer: writer}, wire.JSONLines{}, clock)

	sent, err := producer.Send(context.Background(), SendRequest{
		Subject: "log",
		Lines:   strings.NewReader("ERROR disk full\nINFO all good\nERROR retry ok\n"),
		Match:   regexp.MustCompile(`^ERROR`),
		Exclude: regexp.MustCompile(`retry`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	messages := decodeWrites(t, writer.writes)
	require.Len(t, messages, 1)
	assert.Equal(t, "ERROR disk full", messages[0].Record.Body)
}

func TestProducerSendRefusesWhenDaemonIsDown(t *testing.T) {
	t.Parallel()

	opener := &writerOpener{writer: &recordingWriter{}}
	producer := NewProducer(staticProbe(false), opener, wire.JSONLines{}, nil)

	_, err := producer.Send(context.Background(), SendRequest{Subject: "s", Lines: strings.NewReader("b")})
	require.ErrorIs(t, err, domain.ErrDaemonNotRunning)
	assert.Zero(t, opener.opened)
}

func TestProducerSendRequiresInput(t *testing.T) {
	t.Parallel()

	producer := NewProducer(staticProbe(true), &writerOpener{writer: &recordingWriter{}}, wire.JSONLines{}, nil)

	_, err := producer.Send(context.Background(), SendRequest{Subject: "s"})
	require.ErrorIs(t, err, domain.ErrNoInput)
}

func TestProducerSendWrapsOpenFailure(t *testing.T) {
	t.Parallel()

	producer := NewProducer(staticProbe(true), &writerOpener{err: domain.ErrNoReader}, wire.JSONLines{}, nil)

	_, err := producer.Send(context.Background(), SendRequest{Subject: "s", Lines: strings.NewReader("b")})
	require.ErrorIs(t, err, domain.ErrNoReader)
	assert.Contains(t, err.Error(), "open channel")
}

func TestProducerSendStopsOnWriteFailure(t *testing.T) {
	t.Parallel()

	writer := &recordingWriter{writeErr: errors.New("broken pipe")}
	producer := NewProducer(staticProbe(true), &writerOpener{writer: writer}, wire.JSONLines{}, nil)

	sent, err := producer.Send(context.Background(), SendRequest{Subject: "s", Lines: strings.NewReader("a\nb\n")})
	require.Error(t, err)
	assert.Zero(t, sent)
	assert.Contains(t, err.Error(), "write record")
	assert.True(t, writer.closed)
}
