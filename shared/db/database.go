package db

import "context"

// Database is a connection that is opened once at startup and closed on shutdown.
type Database interface {
	Connect(ctx context.Context) error
	Close() error
}
