// Package gemini adapts session history to the Gemini API and exposes a
// single streaming completion call.
package gemini

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/aimchat/aimchat/chat"
	"github.com/aimchat/aimchat/configuration"
)

// Client wraps the genai client.
type Client struct {
	client *genai.Client
	config *configuration.Config
}

// NewClient instantiates a Gemini client from the configuration.
func NewClient(ctx context.Context, config *configuration.Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("no API key configured: set api_key in the config file or GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating genai client")
	}
	return &Client{client: client, config: config}, nil
}

// StreamCompletion opens a chat seeded with history, sends the new user turn
// and streams the response. onChunk is invoked synchronously for each
// non-empty text fragment, in delivery order; the full accumulated text is
// returned. Any transport or API failure is returned as-is, unclassified,
// and nothing is retried here.
func (c *Client) StreamCompletion(
	ctx context.Context,
	history []*chat.Message,
	newText string,
	attachments []chat.Attachment,
	modelID string,
	onChunk func(string),
) (string, error) {
	model, err := c.config.Model(modelID)
	if err != nil {
		return "", err
	}
	if err := validateAttachments(attachments); err != nil {
		return "", err
	}

	contents, err := historyContents(history)
	if err != nil {
		return "", err
	}

	var generateConfig *genai.GenerateContentConfig
	if model.ThinkingBudget != nil {
		generateConfig = &genai.GenerateContentConfig{
			ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: model.ThinkingBudget},
		}
	}

	session, err := c.client.Chats.Create(ctx, model.Name, generateConfig, contents)
	if err != nil {
		return "", errors.Wrap(err, "creating chat")
	}

	parts, err := turnParts(newText, attachments)
	if err != nil {
		return "", err
	}

	var fullText strings.Builder
	for response, err := range session.SendMessageStream(ctx, parts...) {
		if err != nil {
			return "", errors.Wrap(err, "streaming response")
		}
		if text := response.Text(); text != "" {
			onChunk(text)
			fullText.WriteString(text)
		}
	}
	return fullText.String(), nil
}

// historyContents converts message history into the API's alternating
// user/model turns. Attachment parts come before the text part, and only
// user turns carry attachments.
func historyContents(history []*chat.Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := genai.RoleModel
		var parts []*genai.Part
		if msg.Role == chat.RoleUser {
			role = genai.RoleUser
			for _, attachment := range msg.Attachments {
				blob, err := attachmentBlob(attachment)
				if err != nil {
					return nil, err
				}
				parts = append(parts, &genai.Part{InlineData: blob})
			}
		}
		if msg.Content != "" {
			parts = append(parts, &genai.Part{Text: msg.Content})
		}
		if len(parts) == 0 {
			continue
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}
	return contents, nil
}

// turnParts builds the parts of the new user turn.
func turnParts(text string, attachments []chat.Attachment) ([]genai.Part, error) {
	parts := make([]genai.Part, 0, len(attachments)+1)
	for _, attachment := range attachments {
		blob, err := attachmentBlob(attachment)
		if err != nil {
			return nil, err
		}
		parts = append(parts, genai.Part{InlineData: blob})
	}
	if text != "" {
		parts = append(parts, genai.Part{Text: text})
	}
	if len(parts) == 0 {
		return nil, errors.New("nothing to send")
	}
	return parts, nil
}
