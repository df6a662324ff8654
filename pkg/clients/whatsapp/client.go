package whatsapp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/farmstead/internal/config"
)

// MaxBodyLength is the longest text body the Cloud API accepts in one message.
const MaxBodyLength = 4096

// Client sends text messages through the WhatsApp Cloud API.
type Client interface {
	SendText(ctx context.Context, msg TextMessage) (*SendResult, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	http          *resty.Client
	phoneNumberID string
}

// NewClient builds a WhatsApp API client using the provided configuration values.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	rc := resty.New().
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r.StatusCode() >= http.StatusInternalServerError
		})

	return &APIClient{http: rc, phoneNumberID: cfg.PhoneNumberID}
}

// TextMessage is a plain text notification to one recipient.
type TextMessage struct {
	To         string
	Body       string
	PreviewURL bool
}

// SendResult lists the message IDs Meta assigned, one per chunk sent.
type SendResult struct {
	MessageIDs []string
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// APIError is the error envelope returned by the Graph API.
type APIError struct {
	Status    int    `json:"-"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	FBTraceID string `json:"fbtrace_id"`
}

func (e *APIError) Error() string {
	code := e.Code
	if code == 0 {
		code = e.Status
	}
	return fmt.Sprintf("whatsapp api error: status=%d code=%d message=%s", e.Status, code, e.Message)
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

// SendText delivers msg, splitting bodies longer than MaxBodyLength on line
// boundaries. Sending stops at the first failed chunk.
func (c *APIClient) SendText(ctx context.Context, msg TextMessage) (*SendResult, error) {
	if msg.To == "" {
		return nil, fmt.Errorf("send whatsapp message: empty recipient")
	}
	result := &SendResult{}
	for _, chunk := range Split(msg.Body, MaxBodyLength) {
		id, err := c.send(ctx, msg.To, chunk, msg.PreviewURL)
		if err != nil {
			return result, err
		}
		result.MessageIDs = append(result.MessageIDs, id)
	}
	return result, nil
}

func (c *APIClient) send(ctx context.Context, to, body string, preview bool) (string, error) {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "text",
		"text": map[string]any{
			"body":        body,
			"preview_url": preview,
		},
	}

	out := new(sendResponse)
	envelope := new(errorEnvelope)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(out).
		SetError(envelope).
		Post(fmt.Sprintf("%s/messages", c.phoneNumberID))
	if err != nil {
		return "", fmt.Errorf("send whatsapp message: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		apiErr := envelope.Error
		apiErr.Status = resp.StatusCode()
		return "", &apiErr
	}
	if len(out.Messages) == 0 {
		return "", nil
	}
	return out.Messages[0].ID, nil
}

// Split breaks body into pieces of at most limit bytes, preferring newline
// boundaries. An empty body yields one empty piece.
func Split(body string, limit int) []string {
	if len(body) <= limit || limit <= 0 {
		return []string{body}
	}
	var parts []string
	for len(body) > limit {
		cut := strings.LastIndex(body[:limit], "\n")
		if cut <= 0 {
			cut = limit
		}
		parts = append(parts, body[:cut])
		body = strings.TrimPrefix(body[cut:], "\n")
	}
	if body != "" {
		parts = append(parts, body)
	}
	return parts
}
