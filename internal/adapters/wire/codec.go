package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/alert-bot/internal/domain"
	"github.com/bnema/alert-bot/internal/ports"
)

// timestampLayouts are tried in order. Layouts without an offset are parsed in
// the local zone, matching naive ISO-8601 producers.
var timestampLayouts = []struct {
	layout string
	naive  bool
}{
	{layout: time.RFC3339Nano},
	{layout: "2006-01-02T15:04:05.999999999", naive: true},
	{layout: "2006-01-02 15:04:05.999999999Z07:00"},
	{layout: "2006-01-02 15:04:05.999999999", naive: true},
	{layout: "2006-01-02T15:04", naive: true},
	{layout: "2006-01-02", naive: true},
}

type envelope struct {
	Subject   *string  `json:"subject"`
	Body      *string  `json:"body"`
	Timestamp *string  `json:"timestamp"`
	Handlers  []string `json:"handlers,omitempty"`
}

type outgoing struct {
	Subject   string   `json:"subject"`
	Body      string   `json:"body"`
	Timestamp string   `json:"timestamp"`
	Handlers  []string `json:"handlers"`
}

// Encode renders one channel line, newline included.
func Encode(record domain.Record, handlers []string) ([]byte, error) {
	if handlers == nil {
		handlers = []string{}
	}

	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(outgoing{
		Subject:   record.Subject,
		Body:      record.Body,
		Timestamp: FormatTimestamp(record.Timestamp),
		Handlers:  handlers,
	}); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	return buf.Bytes(), nil
}

// EncodeRecord renders the record alone as a single JSON object without a trailing newline.
func EncodeRecord(record domain.Record) ([]byte, error) {
	data, err := json.Marshal(map[string]string{
		"subject":   record.Subject,
		"body":      record.Body,
		"timestamp": FormatTimestamp(record.Timestamp),
	})
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	return data, nil
}

// Decode parses one channel line. Missing required fields and unparsable
// timestamps wrap domain.ErrMalformedRecord.
func Decode(line []byte) (domain.Message, error) {
	line = bytes.TrimSpace(line)

	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}

	var missing []string
	if env.Subject == nil {
		missing = append(missing, "subject")
	}
	if env.Body == nil {
		missing = append(missing, "body")
	}
	if env.Timestamp == nil {
		missing = append(missing, "timestamp")
	}
	if len(missing) > 0 {
		return domain.Message{}, fmt.Errorf("%w: missing field(s) %s", domain.ErrMalformedRecord, strings.Join(missing, ", "))
	}

	timestamp, err := ParseTimestamp(*env.Timestamp)
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}

	return domain.Message{
		Record:   domain.NewRecord(*env.Subject, *env.Body, timestamp),
		Handlers: env.Handlers,
	}, nil
}

func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, candidate := range timestampLayouts {
		var (
			parsed time.Time
			err    error
		)
		if candidate.naive {
			parsed, err = time.ParseInLocation(candidate.layout, raw, time.Local)
		} else {
			parsed, err = time.Parse(candidate.layout, raw)
		}
		if err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", raw)
}

func FormatTimestamp(value time.Time) string {
	return value.Format(time.RFC3339Nano)
}

// JSONLines is the ports.RecordCodec for the channel's line-delimited JSON.
type JSONLines struct{}

var _ ports.RecordCodec = JSONLines{}

func (JSONLines) Encode(record domain.Record, handlers []string) ([]byte, error) {
	return Encode(record, handlers)
}

func (JSONLines) Decode(line []byte) (domain.Message, error) {
	return Decode(line)
}
