package whatsapp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"

	"donna/internal/logger"
	"donna/internal/model"
)

const graphBaseURL = "https://graph.facebook.com"

// Client talks to the WhatsApp Graph API: outbound text messages and media
// downloads. Every call is bounded by the HTTP client timeout.
type Client struct {
	http          *http.Client
	accessToken   string
	phoneNumberID string
	version       string
}

func NewClient(config model.WhatsAppConfig) *Client {
	return &Client{
		http:          &http.Client{Timeout: 10 * time.Second},
		accessToken:   config.AccessToken,
		phoneNumberID: config.PhoneNumberID,
		version:       config.APIVersion,
	}
}

type textMessageRequest struct {
	MessagingProduct string      `json:"messaging_product"`
	RecipientType    string      `json:"recipient_type"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             textPayload `json:"text"`
}

type textPayload struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

// SendText delivers one text message to the recipient.
func (c *Client) SendText(ctx context.Context, recipient, text string) error {
	body, err := sonic.Marshal(textMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               recipient,
		Type:             "text",
		Text:             textPayload{PreviewURL: false, Body: text},
	})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/messages", graphBaseURL, c.version, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("send message returned status %d: %s", resp.StatusCode, detail)
	}

	logger.Info().Str("recipient", recipient).Int("status", resp.StatusCode).Msg("sent whatsapp message")
	return nil
}

type mediaResponse struct {
	URL string `json:"url"`
}

// DownloadDocument resolves the media URL (directly or via the media id) and
// stages the document in the temp directory. Returns the local path.
func (c *Client) DownloadDocument(ctx context.Context, doc *Document) (string, error) {
	if doc == nil || doc.Filename == "" {
		return "", fmt.Errorf("document payload has no filename")
	}

	mediaURL := doc.MediaURL
	if mediaURL == "" {
		if doc.ID == "" {
			return "", fmt.Errorf("document payload has no media url or media id")
		}
		resolved, err := c.resolveMediaURL(ctx, doc.ID)
		if err != nil {
			return "", err
		}
		mediaURL = resolved
	}

	content, err := c.fetch(ctx, mediaURL)
	if err != nil {
		return "", fmt.Errorf("failed to download media: %w", err)
	}

	localPath := filepath.Join(os.TempDir(), filepath.Base(doc.Filename))
	if err := os.WriteFile(localPath, content, 0o600); err != nil {
		return "", fmt.Errorf("failed to stage document: %w", err)
	}

	logger.Info().Str("file", doc.Filename).Str("path", localPath).Msg("downloaded document")
	return localPath, nil
}

func (c *Client) resolveMediaURL(ctx context.Context, mediaID string) (string, error) {
	body, err := c.fetch(ctx, fmt.Sprintf("%s/%s/%s", graphBaseURL, c.version, mediaID))
	if err != nil {
		return "", fmt.Errorf("failed to resolve media url: %w", err)
	}

	var media mediaResponse
	if err := sonic.Unmarshal(body, &media); err != nil {
		return "", fmt.Errorf("invalid media response: %w", err)
	}
	if media.URL == "" {
		return "", fmt.Errorf("media response carries no url")
	}
	return media.URL, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
