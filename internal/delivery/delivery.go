// Package delivery defines the contract every transport-facing server
// fulfills so the application entrypoint can run them uniformly.
package delivery

import "context"

// Delivery is a long-running server owned by the application lifecycle.
type Delivery interface {
	// Serve blocks until the server stops or ctx is cancelled.
	Serve(ctx context.Context) error
}
