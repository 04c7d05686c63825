package worker

import (
	"context"
	"fmt"

	"pulsegram/internal/queue"
)

// Notifier is the dispatcher surface workers need. Abstracting it keeps the
// worker package off the service package's other dependencies and makes the
// handler testable without a database or push transport.
type Notifier interface {
	NotifyWelcome(ctx context.Context, userID, displayName string)
	NotifyWelcomeBack(ctx context.Context, userID, displayName string)
	NotifyNewMessage(ctx context.Context, recipientID, senderName, preview string)
	NotifyLike(ctx context.Context, ownerID, actorName string)
	NotifyComment(ctx context.Context, ownerID, actorName, preview string)
	NotifyNewPost(ctx context.Context, authorName, title string)
	NotifyNewVideo(ctx context.Context, authorName, title string)
}

// Handler maps notification events from the queue onto dispatcher wrappers.
type Handler struct {
	notifier Notifier
}

// NewHandler creates a new event handler.
func NewHandler(notifier Notifier) *Handler {
	return &Handler{notifier: notifier}
}

// HandleEvent routes one event to the matching notification wrapper.
// The wrappers swallow delivery failures themselves, so the only errors here
// are events the worker does not understand.
func (h *Handler) HandleEvent(ctx context.Context, event queue.NotificationEvent) error {
	switch event.Type {
	case queue.EventUserRegistered:
		h.notifier.NotifyWelcome(ctx, event.RecipientID, event.ActorName)
	case queue.EventUserReturned:
		h.notifier.NotifyWelcomeBack(ctx, event.RecipientID, event.ActorName)
	case queue.EventMessageSent:
		h.notifier.NotifyNewMessage(ctx, event.RecipientID, event.ActorName, event.Preview)
	case queue.EventPostLiked:
		h.notifier.NotifyLike(ctx, event.RecipientID, event.ActorName)
	case queue.EventCommentAdded:
		h.notifier.NotifyComment(ctx, event.RecipientID, event.ActorName, event.Preview)
	case queue.EventPostPublished:
		h.notifier.NotifyNewPost(ctx, event.ActorName, event.Title)
	case queue.EventVideoPublished:
		h.notifier.NotifyNewVideo(ctx, event.ActorName, event.Title)
	default:
		return fmt.Errorf("unknown event type: %s", event.Type)
	}
	return nil
}
