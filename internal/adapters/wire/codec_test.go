package wire

import (
	"bytes"
	"testing"
	"time"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTripKeepsSubSecondPrecision(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 17, 9, 30, 12, 123456789, time.FixedZone("CEST", 2*60*60))
	record := domain.NewRecord("disk full", "/var is at 98%", ts)

	line, err := Encode(record, []string{"print", "tg"})
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(line, []byte("\n")))
	assert.Equal(t, 1, bytes.Count(line, []byte("\n")))

	msg, err := Decode(line)
	require.NoError(t, err)
	assert.Equal(t, record.Subject, msg.Record.Subject)
	assert.Equal(t, record.Body, msg.Record.Body)
	assert.True(t, record.Timestamp.Equal(msg.Record.Timestamp), "got %s", msg.Record.Timestamp)
	assert.Equal(t, []string{"print", "tg"}, msg.Handlers)
}

func TestEncodeKeepsMarkupAndNewlinesOnOneLine(t *testing.T) {
	t.Parallel()

	record := domain.NewRecord("<b>x</b>", "line one\nline two", time.Unix(0, 0).UTC())

	line, err := Encode(record, nil)
	require.NoError(t, err)
	assert.Contains(t, string(line), "<b>x</b>")
	assert.Contains(t, string(line), `"handlers":[]`)
	assert.Equal(t, 1, bytes.Count(line, []byte("\n")))

	msg, err := Decode(line)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", msg.Record.Body)
}

func TestDecodeNaiveTimestamp(t *testing.T) {
	t.Parallel()

	msg, err := Decode([]byte(`{"subject":"S","body":"B","timestamp":"2024-01-01T00:00:00","handlers":["print"]}`))
	require.NoError(t, err)
	assert.Equal(t, "S", msg.Record.Subject)
	assert.Equal(t, "B", msg.Record.Body)
	assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local).Equal(msg.Record.Timestamp))
	assert.Equal(t, []string{"print"}, msg.Handlers)
}

func TestDecodeHandlersOptional(t *testing.T) {
	t.Parallel()

	msg, err := Decode([]byte(`{"subject":"S","body":"B","timestamp":"2024-01-01T00:00:00.250000"}`))
	require.NoError(t, err)
	assert.Empty(t, msg.Handlers)
	assert.Equal(t, 250*time.Millisecond, time.Duration(msg.Record.Timestamp.Nanosecond()))
}

func TestDecodeRejectsMalformedLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		message string
	}{
		{name: "not json", line: "not json"},
		{name: "missing subject", line: `{"body":"B","timestamp":"2024-01-01T00:00:00"}`, message: "subject"},
		{name: "missing body and timestamp", line: `{"subject":"S"}`, message: "body, timestamp"},
		{name: "bad timestamp", line: `{"subject":"S","body":"B","timestamp":"yesterday"}`, message: "yesterday"},
		{name: "handlers wrong type", line: `{"subject":"S","body":"B","timestamp":"2024-01-01","handlers":"print"}`},
		{name: "json array", line: `["S","B"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.line))
			require.ErrorIs(t, err, domain.ErrMalformedRecord)
			if tt.message != "" {
				assert.ErrorContains(t, err, tt.message)
			}
		})
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want time.Time
	}{
		{raw: "2024-01-01T10:00:00Z", want: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{raw: "2024-01-01T10:00:00.5+02:00", want: time.Date(2024, 1, 1, 8, 0, 0, 500_000_000, time.UTC)},
		{raw: "2024-01-01 10:00:00", want: time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)},
		{raw: "2024-01-01", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTimestamp(tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestEncodeRecord(t *testing.T) {
	t.Parallel()

	data, err := EncodeRecord(domain.NewRecord("S", "B", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"subject":"S","body":"B","timestamp":"2024-01-01T00:00:00Z"}`, string(data))
}
