package yandexgpt

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	yandexgptclient "github.com/sheeiavellie/go-yandexgpt"

	"latexme/internal/llm"
)

const liteModel = "yandexgpt-lite"

type completeFunc func(ctx context.Context, req yandexgptclient.YandexGPTRequest) (string, error)

// Client implements llm.Client on YandexGPT foundation models.
type Client struct {
	catalogID string
	models    llm.Models
	complete  completeFunc
}

// NewClient constructs a YandexGPT client authenticated with an IAM token.
func NewClient(iamToken, catalogID string, models llm.Models) (*Client, error) {
	if err := llm.RequireKey("yandexgpt", "YANDEX_IAM_TOKEN", iamToken); err != nil {
		return nil, err
	}
	if err := llm.RequireKey("yandexgpt", "YANDEX_CATALOG_ID", catalogID); err != nil {
		return nil, err
	}
	api := yandexgptclient.NewYandexGPTClientWithIAMToken(iamToken)
	complete := func(ctx context.Context, req yandexgptclient.YandexGPTRequest) (string, error) {
		response, err := api.CreateRequest(ctx, req)
		if err != nil {
			return "", errors.Wrap(err, "yandexgpt completion request")
		}
		if len(response.Result.Alternatives) == 0 {
			return "", errors.New("yandexgpt response has no alternatives")
		}
		return response.Result.Alternatives[0].Message.Text, nil
	}
	return &Client{catalogID: catalogID, models: models, complete: complete}, nil
}

// Generate sends prompt as a single user message.
func (c *Client) Generate(ctx context.Context, prompt string, variant llm.Variant) (string, error) {
	request := yandexgptclient.YandexGPTRequest{
		ModelURI:          modelURI(c.catalogID, c.models.For(variant)),
		CompletionOptions: completionOptions(variant),
		Messages: []yandexgptclient.YandexGPTMessage{
			{
				Role: yandexgptclient.YandexGPTMessageRoleUser,
				Text: prompt,
			},
		},
	}
	text, err := c.complete(ctx, request)
	if err != nil {
		return "", errors.Wrapf(err, "yandexgpt %s", variant)
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.Errorf("yandexgpt %s: empty response", variant)
	}
	return text, nil
}

func modelURI(catalogID, model string) string {
	model = strings.TrimSpace(model)
	if model == "" || model == liteModel {
		return yandexgptclient.MakeModelURI(catalogID, yandexgptclient.YandexGPTModelLite)
	}
	return fmt.Sprintf("gpt://%s/%s/latest", catalogID, model)
}

// maxOutputTokens is the largest completion YandexGPT accepts. The request
// field is required, so it is set to the provider ceiling for both variants.
const maxOutputTokens = 8000

func completionOptions(variant llm.Variant) yandexgptclient.YandexGPTCompletionOptions {
	if variant == llm.VariantAnswer {
		return yandexgptclient.YandexGPTCompletionOptions{Stream: false, Temperature: 0.6, MaxTokens: maxOutputTokens}
	}
	return yandexgptclient.YandexGPTCompletionOptions{Stream: false, Temperature: 0.3, MaxTokens: maxOutputTokens}
}

var _ llm.Client = (*Client)(nil)
