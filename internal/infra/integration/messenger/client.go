package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

// Client is the social-platform channel adapter. It talks to the
// browser-automation bridge, an external service that owns the single
// authenticated Messenger session (login, typing pacing, anti
// detection all live there). The bridge synchronously drives the real
// send, so calls block for minutes and the timeout is sized for that.
type Client struct {
	bridgeURL string
	http      *http.Client
}

func NewClient(bridgeURL string) (*Client, error) {
	if bridgeURL == "" {
		return nil, errors.New("messenger: MESSENGER_BRIDGE_URL é obrigatória")
	}

	return &Client{
		bridgeURL: bridgeURL,
		http:      &http.Client{Timeout: 5 * time.Minute},
	}, nil
}

func (c *Client) Name() entity.Channel {
	return entity.ChannelMessenger
}

// Send asks the bridge to deliver one message to a platform user id.
func (c *Client) Send(ctx context.Context, target, message string) bool {
	body, err := json.Marshal(SendRequest{UserID: target, Message: message})
	if err != nil {
		log.Printf("❌ Messenger: erro ao serializar payload: %v", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.bridgeURL+"/send", bytes.NewReader(body))
	if err != nil {
		log.Printf("❌ Messenger: erro ao criar requisição: %v", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("❌ Messenger: erro ao chamar bridge: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ Messenger: bridge retornou status %d", resp.StatusCode)
		return false
	}

	var result SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("❌ Messenger: erro ao parsear resposta: %v", err)
		return false
	}

	if !result.Sent {
		log.Printf("❌ Messenger: envio para %s falhou: %s", target, result.Error)
		return false
	}

	log.Printf("✅ Messenger: mensagem enviada para %s", target)
	return true
}
