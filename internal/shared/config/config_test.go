package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"LLM_PROVIDER", "GEMINI_API_KEY", "API_KEY", "LLM_DOCUMENT_MODEL", "LLM_ANSWER_MODEL", "LLM_TIMEOUT_SECONDS", "WORKSPACE_IDLE_TTL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("expected gemini provider, got %q", cfg.LLMProvider)
	}
	if cfg.DocumentModel != "gemini-2.5-pro" || cfg.AnswerModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected default models %q/%q", cfg.DocumentModel, cfg.AnswerModel)
	}
	if cfg.LLMTimeout != 0 {
		t.Fatalf("expected no timeout by default, got %s", cfg.LLMTimeout)
	}
	if cfg.WorkspaceIdleTTL != 2*time.Hour {
		t.Fatalf("expected 2h idle ttl, got %s", cfg.WorkspaceIdleTTL)
	}
	if cfg.ContentPolicy != "strict" {
		t.Fatalf("expected strict policy, got %q", cfg.ContentPolicy)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", " sk-test ")
	t.Setenv("LLM_ANSWER_MODEL", "gpt-5-mini")
	t.Setenv("LLM_TIMEOUT_SECONDS", "45")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("WORKSPACE_IDLE_TTL", "30m")
	t.Setenv("ENV", "prod")

	cfg := Load()
	if cfg.LLMProvider != "openai" {
		t.Fatalf("expected openai, got %q", cfg.LLMProvider)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Fatalf("expected trimmed key, got %q", cfg.OpenAIAPIKey)
	}
	if cfg.DocumentModel != "gpt-4o" || cfg.AnswerModel != "gpt-5-mini" {
		t.Fatalf("unexpected models %q/%q", cfg.DocumentModel, cfg.AnswerModel)
	}
	if cfg.LLMTimeout != 45*time.Second {
		t.Fatalf("expected 45s timeout, got %s", cfg.LLMTimeout)
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowOrigin)
	}
	if cfg.WorkspaceIdleTTL != 30*time.Minute {
		t.Fatalf("expected 30m, got %s", cfg.WorkspaceIdleTTL)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
}

func TestGeminiKeyFallsBackToAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "fallback")

	if got := Load().GeminiAPIKey; got != "fallback" {
		t.Fatalf("expected fallback key, got %q", got)
	}
}

func TestNormalizeProvider(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "gemini"},
		{in: " Gemini ", want: "gemini"},
		{in: "OpenAI", want: "openai"},
		{in: "yandex", want: "yandexgpt"},
		{in: "opneai", want: "opneai"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			if got := normalizeProvider(tt.in); got != tt.want {
				t.Fatalf("normalizeProvider(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadKeepsUnknownProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "opneai")
	t.Setenv("LLM_DOCUMENT_MODEL", "")
	t.Setenv("LLM_ANSWER_MODEL", "")

	cfg := Load()
	if cfg.LLMProvider != "opneai" {
		t.Fatalf("expected unknown provider to pass through, got %q", cfg.LLMProvider)
	}
	if cfg.DocumentModel != "" || cfg.AnswerModel != "" {
		t.Fatalf("expected no default models for unknown provider, got %q/%q", cfg.DocumentModel, cfg.AnswerModel)
	}
}
