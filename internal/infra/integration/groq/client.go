package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xavierca1/ligue-outreach/internal/entity"
	"github.com/xavierca1/ligue-outreach/internal/usecase"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

const initialSystemPrompt = `You are a professional job seeker reaching out to recruiters. Compose a personalized message based on the job post and previous message history.

Guidelines:
- Write a complete, ready-to-send message without any placeholders or [brackets]
- Be professional but friendly
- Reference specific details from their post
- If there's message history, acknowledge previous interactions
- Keep the message concise and clear, include a call to action
- Don't use emojis, templates or placeholders
- Be direct and write a really short message

Previous message history:
%s

Job post text:
%s

Compose a professional message to send to the recruiter.`

const followupSystemPrompt = `You are a professional job seeker following up with recruiters. Compose an engaging follow-up message that maintains the conversation and shows continued interest.

Guidelines:
- Write a complete, ready-to-send message without any placeholders
- Be professional but warm and engaging
- Acknowledge previous interaction and show continued interest
- Ask a specific question or provide new information
- Keep the message concise and clear
- Don't use emojis, templates or placeholders

Previous message history:
%s

Context:
%s

Compose a professional follow-up message that keeps the conversation going.`

// Client implements the Text Generator on top of the Groq chat
// completions API.
type Client struct {
	apiKey      string
	model       string
	temperature float64
	baseURL     string
	http        *http.Client
}

func NewClient(apiKey, model string, temperature float64) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("groq: GROQ_API_KEY é obrigatória")
	}

	return &Client{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		baseURL:     defaultBaseURL,
		http:        &http.Client{Timeout: 90 * time.Second},
	}, nil
}

// Compose returns plain, ready-to-send text for the given purpose.
func (c *Client) Compose(ctx context.Context, purpose usecase.Purpose, history []entity.HistoryEntry, contextText string) (string, error) {
	prompt := initialSystemPrompt
	if purpose == usecase.PurposeFollowup {
		prompt = followupSystemPrompt
	}

	payload := ChatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []ChatMessage{
			{
				Role:    "system",
				Content: fmt.Sprintf(prompt, formatHistory(history), contextText),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq api retornou status %d: %s", resp.StatusCode, string(respBody))
	}

	var result ChatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("groq: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("groq: resposta sem choices")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// formatHistory renders entries as "[timestamp] message" lines, the
// context shape the prompts expect.
func formatHistory(history []entity.HistoryEntry) string {
	if len(history) == 0 {
		return "No previous messages"
	}

	lines := make([]string, 0, len(history))
	for _, e := range history {
		lines = append(lines, fmt.Sprintf("[%s] %s", e.SentAt.Format(time.RFC3339), e.Message))
	}
	return strings.Join(lines, "\n")
}
