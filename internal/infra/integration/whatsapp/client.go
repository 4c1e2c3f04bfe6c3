package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

// Client is the phone-based channel adapter, backed by the WhatsApp
// Cloud API. Delivery failure is an ordinary outcome (Send returns
// false); only missing credentials are an error, at construction.
type Client struct {
	accessToken string
	phoneID     string
	baseURL     string
	http        *http.Client
}

func NewClient(accessToken, phoneID, baseURL string) (*Client, error) {
	if accessToken == "" || phoneID == "" {
		return nil, errors.New("whatsapp: ACCESS_TOKEN e PHONE_ID são obrigatórios")
	}

	return &Client{
		accessToken: accessToken,
		phoneID:     phoneID,
		baseURL:     baseURL,
		// The API is expected to answer well before this; the bound
		// exists so a hung call reads as a failure instead of stalling
		// the whole loop forever.
		http: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (c *Client) Name() entity.Channel {
	return entity.ChannelWhatsApp
}

// Send delivers one text message to a +-prefixed phone number.
func (c *Client) Send(ctx context.Context, target, message string) bool {
	payload := SendMessageInput{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               target,
		Type:             "text",
		Text:             TextBody{Body: message},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("❌ WhatsApp: erro ao serializar payload: %v", err)
		return false
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("❌ WhatsApp: erro ao criar requisição: %v", err)
		return false
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("❌ WhatsApp: erro ao enviar mensagem: %v", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("❌ WhatsApp: API retornou status %d: %s", resp.StatusCode, string(respBody))
		return false
	}

	var result SendMessageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		log.Printf("❌ WhatsApp: erro ao parsear resposta: %v", err)
		return false
	}

	if result.Error != nil {
		log.Printf("❌ WhatsApp: erro na API: %s (Code: %d)", result.Error.Message, result.Error.Code)
		return false
	}

	log.Printf("✅ WhatsApp: mensagem enviada para %s", target)
	return true
}
