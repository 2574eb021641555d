package llm

import (
	"context"
	"errors"
	"time"

	"latexme/internal/shared/metrics"
	"latexme/internal/shared/telemetry"
	"latexme/internal/shared/util"
)

// Gateway wraps a provider Client with the behavior every call shares:
// optional timeout, fence stripping for documents, error typing, logging
// and duration metrics.
type Gateway struct {
	client   Client
	provider string
	timeout  time.Duration
	now      func() time.Time
}

// NewGateway constructs a Gateway. A zero timeout leaves calls unbounded.
func NewGateway(client Client, provider string, timeout time.Duration) *Gateway {
	return &Gateway{
		client:   client,
		provider: provider,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Provider returns the configured provider name.
func (g *Gateway) Provider() string { return g.provider }

// Generate implements Client.
func (g *Gateway) Generate(ctx context.Context, prompt string, variant Variant) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	fields := map[string]any{
		"provider":    g.provider,
		"variant":     string(variant),
		"prompt_hash": util.Fingerprint(prompt),
		"prompt_len":  len(prompt),
	}
	start := g.now()
	out, err := g.client.Generate(ctx, prompt, variant)
	elapsed := g.now().Sub(start)
	metrics.ObserveLLMDurationMs(float64(elapsed.Milliseconds()))
	fields["duration_ms"] = elapsed.Milliseconds()

	if err != nil {
		var svcErr *ServiceError
		if !errors.As(err, &svcErr) {
			svcErr = &ServiceError{Provider: g.provider, Variant: variant, Err: err}
		}
		fields["err"] = svcErr.Error()
		telemetry.Error("llm.call_failed", fields)
		return "", svcErr
	}

	if variant == VariantDocument {
		out = StripFences(out)
	}
	fields["response_len"] = len(out)
	telemetry.Info("llm.call_complete", fields)
	return out, nil
}

var _ Client = (*Gateway)(nil)
