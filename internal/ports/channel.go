package ports

import (
	"context"
	"io"
)

// ChannelSource yields a fresh reader each time the previous one reached end of input.
type ChannelSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

type ChannelWriterOpener interface {
	OpenWriter(ctx context.Context) (io.WriteCloser, error)
}

type LivenessProbe interface {
	IsReady() bool
}

// ChannelInspector reports what occupies a channel path without opening it.
type ChannelInspector interface {
	State(path string) (string, error)
}

// ProcessInspector reads a daemon pid file and checks that its process exists.
type ProcessInspector interface {
	ReadPID(path string) (int, bool)
	ProcessExists(pid int) bool
}
