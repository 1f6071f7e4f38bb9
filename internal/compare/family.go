package compare

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Completion is the normalized output of one model invocation. Token counts
// are 0 when the backend does not report them.
type Completion struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Family describes the wire format shared by a group of model IDs: how to
// build the request payload and how to read the response back. Adding a
// model family means adding a Registry entry, not touching the invocation
// loop.
type Family interface {
	Name() string
	Matches(modelID string) bool
	BuildRequest(modelID, prompt string) ([]byte, error)
	ParseResponse(body []byte) (Completion, error)
}

// Registry classifies model IDs into families. Classification walks the
// families in order; the last entry matches everything and acts as the
// fallback.
type Registry struct {
	families []Family
}

// NewRegistry returns the registry with the built-in families: Anthropic
// chat, OpenAI-compatible chat, and the generic completion fallback.
func NewRegistry() *Registry {
	return &Registry{
		families: []Family{
			anthropicChatFamily{},
			openAIChatFamily{},
			completionFamily{},
		},
	}
}

// Register adds a family ahead of the fallback.
func (r *Registry) Register(f Family) {
	last := len(r.families) - 1
	r.families = append(r.families[:last], f, r.families[last])
}

// Classify returns the first family matching modelID.
func (r *Registry) Classify(modelID string) Family {
	for _, f := range r.families {
		if f.Matches(modelID) {
			return f
		}
	}
	// Unreachable: the fallback family matches everything.
	return r.families[len(r.families)-1]
}

// anthropicChatFamily speaks the Anthropic messages format used by
// anthropic.claude model IDs.
type anthropicChatFamily struct{}

const anthropicVersion = "bedrock-2023-05-31"

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float64            `json:"temperature"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (anthropicChatFamily) Name() string { return "anthropic-chat" }

func (anthropicChatFamily) Matches(modelID string) bool {
	return strings.Contains(modelID, "anthropic.claude")
}

func (anthropicChatFamily) BuildRequest(_, prompt string) ([]byte, error) {
	return json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxOutputTokens,
		Temperature:      temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	})
}

func (anthropicChatFamily) ParseResponse(body []byte) (Completion, error) {
	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Completion{}, fmt.Errorf("invalid response body: %w", err)
	}
	if len(resp.Content) == 0 {
		return Completion{}, fmt.Errorf("response contained no content blocks")
	}
	return Completion{
		Text:         resp.Content[0].Text,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}

// openAIChatFamily speaks the OpenAI chat completion format, which
// OpenAI-compatible proxy endpoints expose for gpt models.
type openAIChatFamily struct{}

func (openAIChatFamily) Name() string { return "openai-chat" }

func (openAIChatFamily) Matches(modelID string) bool {
	return strings.Contains(modelID, "openai.") || strings.HasPrefix(modelID, "gpt-")
}

func (openAIChatFamily) BuildRequest(modelID, prompt string) ([]byte, error) {
	return json.Marshal(openai.ChatCompletionRequest{
		Model: modelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxOutputTokens,
		Temperature: temperature,
	})
}

func (openAIChatFamily) ParseResponse(body []byte) (Completion, error) {
	var resp openai.ChatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Completion{}, fmt.Errorf("invalid response body: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, fmt.Errorf("response contained no choices")
	}
	return Completion{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

// completionFamily is the generic flat-prompt format. It matches every
// model ID and is therefore the registry fallback.
type completionFamily struct{}

type completionRequest struct {
	Prompt            string  `json:"prompt"`
	MaxTokensToSample int     `json:"max_tokens_to_sample"`
	Temperature       float64 `json:"temperature"`
}

type completionResponse struct {
	Completion string `json:"completion"`
	Results    []struct {
		OutputText string `json:"outputText"`
		TokenCount int    `json:"tokenCount"`
	} `json:"results"`
	InputTokens         int `json:"input_tokens"`
	OutputTokens        int `json:"output_tokens"`
	InputTextTokenCount int `json:"inputTextTokenCount"`
}

func (completionFamily) Name() string { return "completion" }

func (completionFamily) Matches(string) bool { return true }

func (completionFamily) BuildRequest(_, prompt string) ([]byte, error) {
	return json.Marshal(completionRequest{
		Prompt:            prompt,
		MaxTokensToSample: maxOutputTokens,
		Temperature:       temperature,
	})
}

// ParseResponse reads the completion text from the first known output field
// and takes token counters best-effort, defaulting to 0.
func (completionFamily) ParseResponse(body []byte) (Completion, error) {
	var resp completionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Completion{}, fmt.Errorf("invalid response body: %w", err)
	}
	c := Completion{
		Text:         resp.Completion,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
	}
	if c.Text == "" && len(resp.Results) > 0 {
		c.Text = resp.Results[0].OutputText
	}
	if c.InputTokens == 0 {
		c.InputTokens = resp.InputTextTokenCount
	}
	if c.OutputTokens == 0 && len(resp.Results) > 0 {
		c.OutputTokens = resp.Results[0].TokenCount
	}
	return c, nil
}
