// File path: internal/llm/providers/provider.go
package providers

import (
	"context"
	"errors"
)

// ErrUnavailable marks a provider with no usable credential. Callers treat
// it as "semantic scoring off", never as a request failure.
var ErrUnavailable = errors.New("llm provider unavailable")

type Message struct {
	Role    string
	Content string
}

// Provider is the minimal contract for the external AI collaborators: text
// generation for match explanations and embedding generation for semantic
// scoring.
type Provider interface {
	Generate(ctx context.Context, messages []Message) (string, error)
	Embed(ctx context.Context, input []string) ([][]float32, error)
	Available() bool
	Name() string
}

// UnavailableProvider is the permanent-failure stand-in used when no API key
// is configured. Every call reports ErrUnavailable.
type UnavailableProvider struct{}

func NewUnavailableProvider() *UnavailableProvider {
	return &UnavailableProvider{}
}

func (u *UnavailableProvider) Generate(ctx context.Context, messages []Message) (string, error) {
	return "", ErrUnavailable
}

func (u *UnavailableProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	return nil, ErrUnavailable
}

func (u *UnavailableProvider) Available() bool {
	return false
}

func (u *UnavailableProvider) Name() string {
	return "unavailable"
}
