package arcmirror

import "context"

// Pacer spaces consecutive requests to the remote service. Cache hits
// bypass the pacer entirely.
type Pacer interface {
	// Wait blocks until the next request may be sent.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}
