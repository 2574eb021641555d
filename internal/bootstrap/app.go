package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"latexme/internal/llm"
	"latexme/internal/llm/gemini"
	"latexme/internal/llm/openai"
	"latexme/internal/llm/yandexgpt"
	"latexme/internal/prompt"
	"latexme/internal/services/health"
	"latexme/internal/shared/config"
	"latexme/internal/shared/server"
	"latexme/internal/shared/telemetry"
	"latexme/internal/workspace"
)

// App holds shared dependencies.
type App struct {
	Config     config.Config
	Router     *gin.Engine
	LLM        *llm.Gateway
	Workspaces *workspace.Service
	Health     *health.Service
}

// Build prepares dependencies and wires routes. A missing provider
// credential surfaces as *llm.ConfigurationError.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	policy, err := prompt.ParsePolicy(cfg.ContentPolicy)
	if err != nil {
		return nil, err
	}
	guidelines, err := loadGuidelines(cfg.GuidelinesFile)
	if err != nil {
		return nil, err
	}
	gateway, err := BuildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return assemble(cfg, gateway, policy, guidelines), nil
}

func assemble(cfg config.Config, gateway *llm.Gateway, policy prompt.ContentPolicy, guidelines string) *App {
	svc := &workspace.Service{
		Repo:       workspace.NewMemoryRepo(),
		LLM:        gateway,
		Policy:     policy,
		Guidelines: guidelines,
		IdleTTL:    cfg.WorkspaceIdleTTL,
	}
	healthSvc := health.NewService(gateway.Provider(), svc)
	app := &App{
		Config:     cfg,
		LLM:        gateway,
		Workspaces: svc,
		Health:     healthSvc,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:     cfg,
		Workspaces: workspace.NewHandler(svc, cfg.MaxUploadBytes),
		Health:     healthSvc,
	})
	telemetry.Info("bootstrap.ready", map[string]any{
		"provider":       gateway.Provider(),
		"document_model": cfg.DocumentModel,
		"answer_model":   cfg.AnswerModel,
		"content_policy": string(policy),
	})
	return app
}

// BuildLLM constructs the configured provider client behind a Gateway.
func BuildLLM(ctx context.Context, cfg config.Config) (*llm.Gateway, error) {
	models := llm.Models{Document: cfg.DocumentModel, Answer: cfg.AnswerModel}
	var (
		client llm.Client
		err    error
	)
	switch cfg.LLMProvider {
	case "", "gemini":
		client, err = gemini.NewClient(ctx, cfg.GeminiAPIKey, models)
	case "openai":
		client, err = openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, models)
	case "yandexgpt":
		client, err = yandexgpt.NewClient(cfg.YandexIAMToken, cfg.YandexCatalogID, models)
	default:
		return nil, &llm.ConfigurationError{Provider: cfg.LLMProvider, Key: "LLM_PROVIDER", Reason: "is not supported"}
	}
	if err != nil {
		return nil, err
	}
	provider := cfg.LLMProvider
	if provider == "" {
		provider = "gemini"
	}
	return llm.NewGateway(client, provider, cfg.LLMTimeout), nil
}

func loadGuidelines(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return prompt.DefaultGuidelines(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read guidelines file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
