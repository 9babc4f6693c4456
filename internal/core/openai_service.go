package core

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

const defaultOpenAIModelName = "gpt-4o"

// OpenAIGenerator uses the Responses API with structured output.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	if model == "" {
		model = defaultOpenAIModelName
	}
	return &OpenAIGenerator{client: &client, model: model}
}

func (g *OpenAIGenerator) Close() error { return nil }

func (g *OpenAIGenerator) GenerateJSON(ctx context.Context, req JSONRequest) (string, error) {
	params := responses.ResponseNewParams{
		Model:        g.model,
		Instructions: openai.String(req.System),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(req.User, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responseFormat(req),
		},
	}

	resp, err := g.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai %s request failed: %w", req.Name, err)
	}
	out := resp.OutputText()
	if out == "" {
		return "", fmt.Errorf("openai %s response was empty", req.Name)
	}
	return out, nil
}

// responseFormat uses strict json_schema when a schema is known. Free-form
// objects (emotion maps keyed by name) only get json_object mode.
func responseFormat(req JSONRequest) responses.ResponseFormatTextConfigUnionParam {
	if req.Schema == nil {
		return responses.ResponseFormatTextConfigUnionParam{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	return responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:   req.Name,
			Schema: req.Schema,
			Strict: openai.Bool(true),
			Type:   "json_schema",
		},
	}
}
