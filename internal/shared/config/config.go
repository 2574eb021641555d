package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"latexme/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string

	LLMProvider      string
	GeminiAPIKey     string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	YandexIAMToken   string
	YandexCatalogID  string
	DocumentModel    string
	AnswerModel      string
	LLMTimeout       time.Duration
	ContentPolicy    string
	GuidelinesFile   string

	WorkspaceIdleTTL       time.Duration
	WorkspaceSweepInterval time.Duration
	LLMRatePerMinute       int
	LLMRateBurst           int
	MaxUploadBytes         int64
}

// Load reads configuration from the environment, an optional latexme.yaml,
// and local .env files, in that order of precedence.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("latexme")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			telemetry.Warn("config.file_ignored", map[string]any{"err": err.Error()})
		}
	}
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:8080")
	v.SetDefault("LLM_PROVIDER", "gemini")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("LLM_TIMEOUT_SECONDS", 0)
	v.SetDefault("RESUME_CONTENT_POLICY", "strict")
	v.SetDefault("WORKSPACE_IDLE_TTL", "2h")
	v.SetDefault("WORKSPACE_SWEEP_INTERVAL", "5m")
	v.SetDefault("RATE_LIMIT_LLM_PER_MINUTE", 10)
	v.SetDefault("RATE_LIMIT_LLM_BURST", 5)
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)

	// Keys without defaults still need registering so AutomaticEnv and
	// Unmarshal-free lookups see them.
	for _, key := range []string{
		"GEMINI_API_KEY", "API_KEY", "OPENAI_API_KEY", "YANDEX_IAM_TOKEN",
		"YANDEX_CATALOG_ID", "LLM_DOCUMENT_MODEL", "LLM_ANSWER_MODEL",
		"RESUME_GUIDELINES_FILE",
	} {
		v.SetDefault(key, "")
	}
}

func fromViper(v *viper.Viper) Config {
	provider := normalizeProvider(v.GetString("LLM_PROVIDER"))
	docModel, answerModel := defaultModels(provider)
	if m := strings.TrimSpace(v.GetString("LLM_DOCUMENT_MODEL")); m != "" {
		docModel = m
	}
	if m := strings.TrimSpace(v.GetString("LLM_ANSWER_MODEL")); m != "" {
		answerModel = m
	}
	geminiKey := strings.TrimSpace(v.GetString("GEMINI_API_KEY"))
	if geminiKey == "" {
		geminiKey = strings.TrimSpace(v.GetString("API_KEY"))
	}
	timeout := time.Duration(v.GetInt("LLM_TIMEOUT_SECONDS")) * time.Second
	if timeout < 0 {
		timeout = 0
	}

	return Config{
		Port:            v.GetString("PORT"),
		Env:             normalizeEnv(v.GetString("ENV")),
		LogLevel:        strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),

		LLMProvider:     provider,
		GeminiAPIKey:    geminiKey,
		OpenAIAPIKey:    strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		OpenAIBaseURL:   strings.TrimRight(strings.TrimSpace(v.GetString("OPENAI_BASE_URL")), "/"),
		YandexIAMToken:  strings.TrimSpace(v.GetString("YANDEX_IAM_TOKEN")),
		YandexCatalogID: strings.TrimSpace(v.GetString("YANDEX_CATALOG_ID")),
		DocumentModel:   docModel,
		AnswerModel:     answerModel,
		LLMTimeout:      timeout,
		ContentPolicy:   strings.TrimSpace(v.GetString("RESUME_CONTENT_POLICY")),
		GuidelinesFile:  strings.TrimSpace(v.GetString("RESUME_GUIDELINES_FILE")),

		WorkspaceIdleTTL:       positiveDuration(v.GetDuration("WORKSPACE_IDLE_TTL"), 2*time.Hour),
		WorkspaceSweepInterval: positiveDuration(v.GetDuration("WORKSPACE_SWEEP_INTERVAL"), 5*time.Minute),
		LLMRatePerMinute:       v.GetInt("RATE_LIMIT_LLM_PER_MINUTE"),
		LLMRateBurst:           v.GetInt("RATE_LIMIT_LLM_BURST"),
		MaxUploadBytes:         v.GetInt64("MAX_UPLOAD_BYTES"),
	}
}

func defaultModels(provider string) (document, answer string) {
	switch provider {
	case "openai":
		return "gpt-4o", "gpt-4o-mini"
	case "yandexgpt":
		return "yandexgpt", "yandexgpt-lite"
	case "gemini":
		return "gemini-2.5-pro", "gemini-2.5-flash"
	default:
		return "", ""
	}
}

func positiveDuration(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

// normalizeProvider resolves aliases. Unknown names pass through so startup
// can reject them instead of silently picking a provider.
func normalizeProvider(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "", "gemini", "google":
		return "gemini"
	case "yandex", "yandexgpt":
		return "yandexgpt"
	default:
		return name
	}
}
