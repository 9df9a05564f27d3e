package watsonx

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/wxcompass/wxcompass/internal/transport"
	"github.com/wxcompass/wxcompass/pkg/catalog"
	"github.com/wxcompass/wxcompass/pkg/errors"
	"github.com/wxcompass/wxcompass/pkg/logging"
)

// chatPath is the text-chat endpoint path.
const chatPath = "/ml/v1/text/chat"

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client invokes a watsonx.ai chat model with a validated Config. It sends
// the configured credential as a bearer token; token negotiation is the
// caller's concern.
type Client struct {
	config    Config
	transport *transport.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTransport replaces the transport client. Used by tests.
func WithTransport(t *transport.Client) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// NewClient validates the config and returns a chat client.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:    cfg,
		transport: transport.New(transport.WithBearerToken(cfg.APIKey)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.config
}

// chatRequest is the text-chat request body.
type chatRequest struct {
	ModelID    string    `json:"model_id"`
	ProjectID  string    `json:"project_id,omitempty"`
	Messages   []Message `json:"messages"`
	Parameters map[string]any
}

// MarshalJSON flattens the generation parameters into the request object,
// as the endpoint expects them at the top level.
func (r chatRequest) MarshalJSON() ([]byte, error) {
	body := map[string]any{
		"model_id": r.ModelID,
		"messages": r.Messages,
	}
	if r.ProjectID != "" {
		body["project_id"] = r.ProjectID
	}
	for k, v := range r.Parameters {
		body[k] = v
	}
	return json.Marshal(body)
}

// chatResponse is the subset of the text-chat response the client reads.
type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Chat sends the conversation to the configured model and returns the
// assistant's reply text.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.NewValidationError("messages", nil, "at least one message is required")
	}

	ctx = logging.WithModel(ctx, c.config.ModelName)
	endpoint := c.config.URL + chatPath
	query := url.Values{}
	query.Set("version", catalog.APIVersion)

	logging.Ctx(ctx).Debug().
		Str("endpoint", endpoint).
		Int("message_count", len(messages)).
		Msg("Invoking chat model")

	req := chatRequest{
		ModelID:    c.config.ModelName,
		ProjectID:  c.config.ProjectID,
		Messages:   messages,
		Parameters: c.config.Parameters(),
	}

	resp, err := c.transport.Post(ctx, endpoint, query, req)
	if err != nil {
		return "", errors.WrapFetch(c.config.ModelName, endpoint, err)
	}

	var body chatResponse
	if err := transport.DecodeResponse(resp, c.config.ModelName, &body); err != nil {
		return "", err
	}

	if len(body.Choices) == 0 {
		return "", errors.NewParseError("json", endpoint, "response contains no choices", nil)
	}

	return body.Choices[0].Message.Content, nil
}
