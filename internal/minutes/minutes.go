package minutes

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// Topic is one discussed subject.
type Topic struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

// ActionItem is one follow-up task.
type ActionItem struct {
	Assignee string `json:"assignee"`
	Task     string `json:"task"`
	DueDate  string `json:"dueDate,omitempty"`
}

// Minutes is the structured meeting-minutes document.
type Minutes struct {
	Title       string       `json:"title"`
	Date        string       `json:"date"`
	Attendees   []string     `json:"attendees"`
	Summary     string       `json:"summary"`
	Topics      []Topic      `json:"topics"`
	Decisions   []string     `json:"decisions"`
	ActionItems []ActionItem `json:"actionItems"`
}

// Config holds generator settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // override for tests
}

// Generator turns a transcript into minutes with one structured-generation
// request.
type Generator struct {
	client *openai.Client
	config Config
}

func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("minutes API key required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client: openai.NewClientWithConfig(clientCfg),
		config: cfg,
	}, nil
}

// Generate submits the full transcript and returns the minutes document
// validated against the fixed schema.
func (g *Generator) Generate(ctx context.Context, transcriptText string) (*Minutes, error) {
	if strings.TrimSpace(transcriptText) == "" {
		return nil, fmt.Errorf("transcript is empty")
	}

	schema, err := jsonschema.GenerateSchemaForType(Minutes{})
	if err != nil {
		return nil, fmt.Errorf("build minutes schema: %w", err)
	}

	model := g.config.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: BuildSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: BuildUserPrompt(transcriptText, time.Now())},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "meeting_minutes",
				Schema: schema,
				Strict: true,
			},
		},
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("Minutes: generation failed after %v: %v", duration, err)
		return nil, fmt.Errorf("minutes completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("minutes completion: no response choices")
	}

	result, err := Parse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	log.Printf("Minutes: generated in %v: %q", duration, result.Title)
	return result, nil
}

// Parse decodes a minutes document from the model's JSON output.
func Parse(raw string) (*Minutes, error) {
	var m Minutes
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("parse minutes document: %w", err)
	}
	if m.Title == "" && m.Summary == "" {
		return nil, fmt.Errorf("parse minutes document: empty title and summary")
	}
	return &m, nil
}
