package domain

import (
	"fmt"
	"time"
)

// Record is one alert. It is passed to handlers by value.
type Record struct {
	Subject   string
	Body      string
	Timestamp time.Time
}

func NewRecord(subject, body string, timestamp time.Time) Record {
	return Record{Subject: subject, Body: body, Timestamp: timestamp}
}

func (r Record) String() string {
	return fmt.Sprintf("Record(subject=%q, body=%q, timestamp=%s)", r.Subject, r.Body, r.Timestamp.Format(time.RFC3339Nano))
}

// Message is a decoded channel line: the record plus the handler instances it asks for.
type Message struct {
	Record   Record
	Handlers []string
}

// DispatchSet returns defaults followed by extra, without duplicates or empty names.
func DispatchSet(defaults, extra []string) []string {
	seen := make(map[string]struct{}, len(defaults)+len(extra))
	out := make([]string, 0, len(defaults)+len(extra))
	for _, list := range [][]string{defaults, extra} {
		for _, name := range list {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}

	return out
}
