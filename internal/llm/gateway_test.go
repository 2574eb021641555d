package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGatewayStripsFencesForDocumentOnly(t *testing.T) {
	raw := "```latex\n\\documentclass{article}\n```"
	gw := NewGateway(ClientFunc(func(ctx context.Context, prompt string, variant Variant) (string, error) {
		return raw, nil
	}), "fake", 0)

	doc, err := gw.Generate(context.Background(), "p", VariantDocument)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if doc != "\\documentclass{article}" {
		t.Fatalf("unexpected document %q", doc)
	}

	ans, err := gw.Generate(context.Background(), "p", VariantAnswer)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if ans != raw {
		t.Fatalf("expected answer untouched, got %q", ans)
	}
}

func TestGatewayWrapsErrors(t *testing.T) {
	cause := errors.New("connection reset")
	gw := NewGateway(ClientFunc(func(ctx context.Context, prompt string, variant Variant) (string, error) {
		return "", cause
	}), "fake", 0)

	_, err := gw.Generate(context.Background(), "p", VariantAnswer)
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %T", err)
	}
	if svcErr.Provider != "fake" || svcErr.Variant != VariantAnswer {
		t.Fatalf("unexpected error fields %+v", svcErr)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved")
	}
}

func TestGatewayAppliesTimeout(t *testing.T) {
	gw := NewGateway(ClientFunc(func(ctx context.Context, prompt string, variant Variant) (string, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatalf("expected deadline on context")
		}
		<-ctx.Done()
		return "", ctx.Err()
	}), "fake", 10*time.Millisecond)

	_, err := gw.Generate(context.Background(), "p", VariantDocument)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestGatewayNoTimeoutByDefault(t *testing.T) {
	gw := NewGateway(ClientFunc(func(ctx context.Context, prompt string, variant Variant) (string, error) {
		if _, ok := ctx.Deadline(); ok {
			t.Fatalf("expected no deadline")
		}
		return "ok", nil
	}), "fake", 0)

	if _, err := gw.Generate(context.Background(), "p", VariantAnswer); err != nil {
		t.Fatalf("Generate: %v", err)
	}
}

func TestConfigurationError(t *testing.T) {
	err := RequireKey("gemini", "GEMINI_API_KEY", "  ")
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Error() != "gemini: GEMINI_API_KEY is required" {
		t.Fatalf("unexpected message %q", cfgErr.Error())
	}
	if RequireKey("gemini", "GEMINI_API_KEY", "k") != nil {
		t.Fatalf("expected nil for present key")
	}
}

func TestModelsFor(t *testing.T) {
	m := Models{Document: "pro", Answer: "flash"}
	if m.For(VariantDocument) != "pro" || m.For(VariantAnswer) != "flash" {
		t.Fatalf("unexpected model mapping")
	}
}
