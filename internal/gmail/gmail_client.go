package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"inboxpilot/internal/assistant"
	"inboxpilot/internal/logger"
	"inboxpilot/internal/model"
)

type gmailClient struct {
	client     *gmail.Service
	maxResults int64
	logger     *logger.Logger
}

func NewGmailClient(ctx context.Context, accessToken string, maxResults int, logger *logger.Logger) (assistant.MailClient, error) {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})

	gmailService, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &gmailClient{
		client:     gmailService,
		maxResults: int64(maxResults),
		logger:     logger,
	}, nil
}

// ListUnreadMessages fetches unread inbox messages with their headers and
// body parts decoded.
func (g *gmailClient) ListUnreadMessages(ctx context.Context) ([]*model.Message, error) {
	user := "me"
	list, err := g.client.Users.Messages.List(user).
		Q("is:unread in:inbox").
		MaxResults(g.maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list unread messages: %w", err)
	}

	var messages []*model.Message

	for _, msg := range list.Messages {
		full, err := g.client.Users.Messages.Get(user, msg.Id).Format("full").Context(ctx).Do()
		if err != nil {
			g.logger.Error("Failed to get message:", msg.Id, err)
			continue
		}

		var subject, from, to string
		for _, header := range full.Payload.Headers {
			switch header.Name {
			case "Subject":
				subject = header.Value
			case "From":
				from = header.Value
			case "To":
				to = header.Value
			}
		}

		plainBody, htmlBody := g.extractBodies(full.Payload)
		receivedAt := time.Unix(full.InternalDate/1000, 0)

		messages = append(messages, model.NewMessage(
			msg.Id, full.ThreadId, from, to, subject, plainBody, htmlBody, receivedAt))
	}

	g.logger.Info("Fetched", len(messages), "unread emails from Gmail")
	return messages, nil
}

// extractBodies walks the MIME tree collecting the first text/plain and
// text/html parts. Plain text drives the analysis; HTML is stored alongside.
func (g *gmailClient) extractBodies(payload *gmail.MessagePart) (plain, html string) {
	if payload == nil {
		return "", ""
	}

	if payload.Body != nil && payload.Body.Data != "" {
		decoded, err := base64.URLEncoding.DecodeString(payload.Body.Data)
		if err != nil {
			g.logger.Error("Failed to decode email body:", err)
		} else {
			switch payload.MimeType {
			case "text/plain":
				plain = string(decoded)
			case "text/html":
				html = string(decoded)
			}
		}
	}

	for _, part := range payload.Parts {
		partPlain, partHTML := g.extractBodies(part)
		if plain == "" {
			plain = partPlain
		}
		if html == "" {
			html = partHTML
		}
		if plain != "" && html != "" {
			break
		}
	}

	return plain, html
}
