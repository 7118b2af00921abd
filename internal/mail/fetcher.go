package mail

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const gmailUser = "me"

// Headers requested in metadata format; everything the signal pipeline
// reads and nothing more, so no message bodies ever leave Gmail.
var metadataHeaders = []string{
	"From", "To", "Subject", "Date", "List-Unsubscribe", "Reply-To",
}

// Source supplies message metadata for one mailbox.
type Source interface {
	UserEmail(ctx context.Context) (string, error)
	FetchReceived(ctx context.Context, max int) ([]Message, error)
	FetchSent(ctx context.Context, max int) ([]Message, error)
}

// GmailSource fetches message metadata through the Gmail API.
type GmailSource struct {
	srv *gmail.Service
}

// NewGmailSource creates a source from an authenticated HTTP client.
func NewGmailSource(ctx context.Context, httpClient *http.Client) (*GmailSource, error) {
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &GmailSource{srv: srv}, nil
}

// UserEmail returns the mailbox owner's address.
func (g *GmailSource) UserEmail(ctx context.Context) (string, error) {
	profile, err := g.srv.Users.GetProfile(gmailUser).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("get gmail profile: %w", err)
	}
	return profile.EmailAddress, nil
}

// FetchReceived returns up to max inbox messages.
func (g *GmailSource) FetchReceived(ctx context.Context, max int) ([]Message, error) {
	return g.fetch(ctx, "in:inbox", max)
}

// FetchSent returns up to max sent messages.
func (g *GmailSource) FetchSent(ctx context.Context, max int) ([]Message, error) {
	return g.fetch(ctx, "in:sent", max)
}

func (g *GmailSource) fetch(ctx context.Context, query string, max int) ([]Message, error) {
	var messages []Message
	pageToken := ""

	for len(messages) < max {
		batch := int64(max - len(messages))
		if batch > 100 {
			batch = 100
		}

		call := g.srv.Users.Messages.List(gmailUser).
			Q(query).
			MaxResults(batch).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list messages (%s): %w", query, err)
		}
		if len(list.Messages) == 0 {
			break
		}

		for _, ref := range list.Messages {
			msg, err := g.srv.Users.Messages.Get(gmailUser, ref.Id).
				Format("metadata").
				MetadataHeaders(metadataHeaders...).
				Context(ctx).
				Do()
			if err != nil {
				// One bad message never sinks the run.
				log.Printf("Gmail: skipping message %s: %v", ref.Id, err)
				continue
			}
			messages = append(messages, fromGmail(msg))
			if len(messages) == max {
				break
			}
		}

		pageToken = list.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return messages, nil
}

// fromGmail flattens a Gmail metadata message into the internal record.
func fromGmail(msg *gmail.Message) Message {
	out := Message{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
		Labels:   msg.LabelIds,
	}
	if msg.Payload == nil {
		return out
	}
	for _, header := range msg.Payload.Headers {
		switch header.Name {
		case "From":
			out.From = header.Value
		case "To":
			out.To = header.Value
		case "Subject":
			out.Subject = header.Value
		case "Date":
			out.Date = header.Value
		case "List-Unsubscribe":
			out.ListUnsubscribe = header.Value
		case "Reply-To":
			out.ReplyTo = header.Value
		}
	}
	return out
}
