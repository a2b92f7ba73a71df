package ports

import "github.com/bnema/alert-bot/internal/domain"

// RecordCodec converts between records and channel lines.
type RecordCodec interface {
	Encode(record domain.Record, handlers []string) ([]byte, error)
	Decode(line []byte) (domain.Message, error)
}
