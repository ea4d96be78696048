package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/9ssi7/exponent"

	"ziorum/internal/moderation"
	"ziorum/internal/store"
)

// SendPendingVenueToAdmins alerts every admin device that a new venue is
// waiting in the moderation queue.
func SendPendingVenueToAdmins(ctx context.Context, push PushSender, storage *store.Storage, venueName, venueID string) error {
	tokens, err := storage.PushTokens.ListForRole(ctx, moderation.RoleAdmin)
	if err != nil {
		return err
	}
	tokens = dedupe(tokens)
	if len(tokens) == 0 {
		return errors.New("no push tokens")
	}

	msgs := make([]*exponent.Message, 0, len(tokens))
	title := "Nuovo locale da moderare"
	body := fmt.Sprintf("%s è in attesa di approvazione", venueName)
	screen := fmt.Sprintf("admin/pending/%s", venueID)
	for _, t := range tokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":     "pending_venue",
				"venue_id": venueID,
				"screen":   screen,
			},
		})
	}

	_, err = push.Publish(ctx, msgs)
	return err
}

// SendPendingContentToAdmins covers the non-venue submissions (bartender
// profiles, owner messages, community events and posts).
func SendPendingContentToAdmins(ctx context.Context, push PushSender, storage *store.Storage, kind, label string) error {
	tokens, err := storage.PushTokens.ListForRole(ctx, moderation.RoleAdmin)
	if err != nil {
		return err
	}
	tokens = dedupe(tokens)
	if len(tokens) == 0 {
		return errors.New("no push tokens")
	}

	msgs := make([]*exponent.Message, 0, len(tokens))
	title := "Nuovo contenuto da moderare"
	body := fmt.Sprintf("%s: %s", kind, label)
	for _, t := range tokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":   "pending_content",
				"kind":   kind,
				"screen": "admin/moderation",
			},
		})
	}

	_, err = push.Publish(ctx, msgs)
	return err
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
