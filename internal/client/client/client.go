package client

import "context"

// Reply is the rendered result of a command: a short notice for the
// channel and a private message for the user only.
type Reply struct {
	Ephemeral string
	Private   string
}

type Client interface {
	Close() error
	Register(ctx context.Context, email, displayName string) (*Reply, error)
	CreateFree(ctx context.Context, displayName string) (*Reply, error)
}
