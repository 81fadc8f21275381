package ai

import "context"

// Client abstracts the generative text/image API so services can be tested
// against a double.
type Client interface {
	// ChatJSON sends a system+user message pair and requests a JSON-mode
	// completion, returning the raw message content.
	ChatJSON(ctx context.Context, system, user string) (string, error)

	// GenerateImage requests one image for the prompt and returns its URL.
	GenerateImage(ctx context.Context, prompt, size string) (string, error)
}
