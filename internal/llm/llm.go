package llm

import (
	"context"
	"fmt"
	"strings"
)

// Variant picks the model tier used for a call.
type Variant string

const (
	// VariantDocument uses the higher-capability model for resume generation.
	VariantDocument Variant = "document"
	// VariantAnswer uses the faster model for short answers.
	VariantAnswer Variant = "answer"
)

// Client abstracts LLM providers. Implementations send prompt to the model
// selected by variant and return the raw text result.
type Client interface {
	Generate(ctx context.Context, prompt string, variant Variant) (string, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, prompt string, variant Variant) (string, error)

// Generate calls f.
func (f ClientFunc) Generate(ctx context.Context, prompt string, variant Variant) (string, error) {
	return f(ctx, prompt, variant)
}

// ServiceError reports a failed call to the generation service. The cause is
// meant for operator logs, not for end users.
type ServiceError struct {
	Provider string
	Variant  Variant
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s %s call failed: %v", e.Provider, e.Variant, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// ConfigurationError reports a missing or invalid provider setting.
type ConfigurationError struct {
	Provider string
	Key      string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	reason := e.Reason
	if strings.TrimSpace(reason) == "" {
		reason = "is required"
	}
	if e.Provider == "" {
		return fmt.Sprintf("%s %s", e.Key, reason)
	}
	return fmt.Sprintf("%s: %s %s", e.Provider, e.Key, reason)
}

// RequireKey returns a ConfigurationError when value is blank.
func RequireKey(provider, key, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ConfigurationError{Provider: provider, Key: key}
	}
	return nil
}

// Models maps each variant to a provider model name.
type Models struct {
	Document string
	Answer   string
}

// For returns the model for variant.
func (m Models) For(variant Variant) string {
	if variant == VariantAnswer {
		return m.Answer
	}
	return m.Document
}
