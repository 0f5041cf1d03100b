package core

import "context"

type (
	// Pinger is any store that can report whether it is reachable.
	Pinger interface {
		Ping(ctx context.Context) error
	}

	// Closer releases the connections held by a store.
	Closer interface {
		Close(ctx context.Context) error
	}
)
