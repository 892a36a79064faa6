package arcmirror

import "context"

// Fetcher retrieves JSON documents from ArcGIS REST endpoints.
type Fetcher interface {
	// Fetch performs a GET against the URL with the JSON format parameter
	// applied and returns the raw response body.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
