// ABOUTME: OpenAI chat-completions backed intro message generator
// ABOUTME: Builds a single-turn prompt from the message context and parses subject and body
package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	DefaultModel = "gpt-4o-mini"

	systemPrompt = "You write short, warm, professional introduction requests. " +
		"Reply with a first line of the form 'Subject: ...', a blank line, then the message body. " +
		"Keep the body under 120 words and never invent facts."
)

// OpenAIGenerator writes intro requests with a chat model.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float64
}

type OpenAIParams struct {
	APIKey  string
	BaseURL string
	Model   string
	// DisableRetries turns off the client's automatic retries.
	DisableRetries bool
}

// NewOpenAIGenerator returns nil when no API key is configured.
func NewOpenAIGenerator(params OpenAIParams) *OpenAIGenerator {
	if params.APIKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(params.APIKey),
	}
	if params.BaseURL != "" {
		options = append(options, option.WithBaseURL(params.BaseURL))
	}
	if params.DisableRetries {
		options = append(options, option.WithMaxRetries(0))
	}

	model := params.Model
	if model == "" {
		model = DefaultModel
	}

	client := openai.NewClient(options...)
	return &OpenAIGenerator{client: &client, model: model, temperature: 0.3}
}

func (g *OpenAIGenerator) GenerateMessage(ctx context.Context, mc MessageContext) (*Message, error) {
	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(mc)),
		},
		Temperature: openai.Float(g.temperature),
	}

	response, err := g.client.Chat.Completions.New(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response from model")
	}
	content := response.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("empty response from model (finish_reason: %s)", response.Choices[0].FinishReason)
	}

	msg := parseReply(content)
	if mc.RelationshipContext != "" {
		msg.Personalization = append(msg.Personalization, mc.RelationshipContext)
	}
	return msg, nil
}

func buildPrompt(mc MessageContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a message to %s asking for an introduction to %s", mc.ConnectorName, mc.TargetName)
	if mc.TargetTitle != "" {
		fmt.Fprintf(&b, " (%s)", mc.TargetTitle)
	}
	if mc.TargetCompany != "" {
		fmt.Fprintf(&b, " at %s", mc.TargetCompany)
	}
	b.WriteString(".\n")
	if mc.RelationshipContext != "" {
		fmt.Fprintf(&b, "How we know each other: %s.\n", mc.RelationshipContext)
	}
	if mc.SenderName != "" {
		fmt.Fprintf(&b, "Sign it as %s.\n", mc.SenderName)
	}
	if mc.Purpose != "" {
		fmt.Fprintf(&b, "Purpose: %s.\n", mc.Purpose)
	}
	fmt.Fprintf(&b, "The target is %d degrees away from me.", mc.Degree)
	return b.String()
}

// parseReply splits an optional leading "Subject:" line from the body.
func parseReply(content string) *Message {
	content = strings.TrimSpace(content)
	first, rest, found := strings.Cut(content, "\n")
	if after, ok := strings.CutPrefix(first, "Subject:"); ok {
		body := ""
		if found {
			body = strings.TrimSpace(rest)
		}
		return &Message{Subject: strings.TrimSpace(after), Body: body}
	}
	return &Message{Body: content}
}
