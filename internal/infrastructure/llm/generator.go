package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"artisanmart/pkg/logger"
)

type Generator struct {
	llm         llms.Model
	maxTokens   int
	temperature float64
}

func NewOpenAIGenerator(token, model string) (*Generator, error) {
	if token == "" {
		return nil, fmt.Errorf("llm token is empty")
	}

	client, err := openai.New(
		openai.WithModel(model),
		openai.WithToken(token),
	)
	if err != nil {
		return nil, fmt.Errorf("openai.New: %w", err)
	}
	return NewGenerator(client)
}

func NewGenerator(llm llms.Model) (*Generator, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm is nil")
	}
	return &Generator{llm: llm, maxTokens: 1200, temperature: 0.4}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, "You are an SAP Analytics Cloud business analyst for an artisan marketplace. Reply with a single JSON object and nothing else."),
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}

	completion, err := g.llm.GenerateContent(ctx, content,
		llms.WithMaxTokens(g.maxTokens),
		llms.WithTemperature(g.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("llm.GenerateContent: %w", err)
	}

	var response strings.Builder
	for _, choice := range completion.Choices {
		if choice == nil {
			continue
		}

		response.WriteString(choice.Content)

		// "stop" is the normal stop reason for OpenAI
		if choice.StopReason != "" && choice.StopReason != "stop" {
			logger.With("method", "Generator.Generate", "stop_reason", choice.StopReason).
				Warn("Unexpected stop reason")
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return response.String(), nil
}

// ExtractJSON pulls the outermost JSON object out of a completion, tolerating
// markdown fences and leading prose.
func ExtractJSON(completion string) (string, error) {
	start := strings.Index(completion, "{")
	end := strings.LastIndex(completion, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in completion")
	}
	return completion[start : end+1], nil
}
