package service

import (
	"context"
	"log"

	"pulsegram/internal/model"
)

// PreviewLimit is the character budget for message/comment previews embedded
// in notification bodies.
const PreviewLimit = 50

// realtimeEvent is what connected WebSocket sessions receive for a domain
// event, mirroring the push payload.
type realtimeEvent struct {
	Type    string                     `json:"type"`
	Payload *model.NotificationPayload `json:"payload"`
}

// truncatePreview cuts a preview down to PreviewLimit runes and marks the
// cut with an ellipsis. Previews at or under the budget pass through
// unchanged.
func truncatePreview(s string) string {
	runes := []rune(s)
	if len(runes) <= PreviewLimit {
		return s
	}
	return string(runes[:PreviewLimit]) + "..."
}

// The Notify* wrappers fix the audience and content for common domain
// events. A failed notification must never fail the triggering action
// (a broken push must not fail "send message"), so every wrapper swallows
// delivery errors and only logs them.

// NotifyWelcome greets a newly registered user.
func (d *Dispatcher) NotifyWelcome(ctx context.Context, userID, displayName string) {
	d.notify(ctx, "welcome", model.AudienceUsers(userID), &model.NotificationPayload{
		Title: "Welcome to Pulsegram",
		Body:  "Hi " + displayName + ", thanks for joining!",
		URL:   "/feed",
	})
}

// NotifyWelcomeBack greets a returning user.
func (d *Dispatcher) NotifyWelcomeBack(ctx context.Context, userID, displayName string) {
	d.notify(ctx, "welcome_back", model.AudienceUsers(userID), &model.NotificationPayload{
		Title: "Welcome back",
		Body:  "Good to see you again, " + displayName + "!",
		URL:   "/feed",
	})
}

// NotifyNewMessage tells a user about a direct message.
func (d *Dispatcher) NotifyNewMessage(ctx context.Context, recipientID, senderName, preview string) {
	d.notify(ctx, "new_message", model.AudienceUsers(recipientID), &model.NotificationPayload{
		Title: senderName + " sent you a message",
		Body:  truncatePreview(preview),
		URL:   "/messages",
	})
}

// NotifyLike tells a content owner their post was liked.
func (d *Dispatcher) NotifyLike(ctx context.Context, ownerID, actorName string) {
	d.notify(ctx, "like", model.AudienceUsers(ownerID), &model.NotificationPayload{
		Title: "New like",
		Body:  actorName + " liked your post",
	})
}

// NotifyComment tells a content owner about a new comment.
func (d *Dispatcher) NotifyComment(ctx context.Context, ownerID, actorName, preview string) {
	d.notify(ctx, "comment", model.AudienceUsers(ownerID), &model.NotificationPayload{
		Title: actorName + " commented on your post",
		Body:  truncatePreview(preview),
	})
}

// NotifyNewPost announces a new public post to all active subscribers.
func (d *Dispatcher) NotifyNewPost(ctx context.Context, authorName, title string) {
	d.notify(ctx, "new_post", model.AudienceAll(), &model.NotificationPayload{
		Title: "New post from " + authorName,
		Body:  truncatePreview(title),
	})
}

// NotifyNewVideo announces a newly published video to all active subscribers.
func (d *Dispatcher) NotifyNewVideo(ctx context.Context, authorName, title string) {
	d.notify(ctx, "new_video", model.AudienceAll(), &model.NotificationPayload{
		Title: "New video from " + authorName,
		Body:  truncatePreview(title),
	})
}

// Broadcast sends a notification to every active subscriber and,
// unlike the wrappers, reports the aggregate result to the caller.
func (d *Dispatcher) Broadcast(ctx context.Context, title, body, url string) (*model.DispatchResult, error) {
	d.publishRelay("broadcast", model.AudienceAll(), &model.NotificationPayload{
		Title: title, Body: body, URL: url,
	})
	return d.Dispatch(ctx, &model.NotificationPayload{Title: title, Body: body, URL: url}, model.AudienceAll())
}

// notify dispatches a payload and swallows every error.
func (d *Dispatcher) notify(ctx context.Context, eventType string, audience model.Audience, payload *model.NotificationPayload) {
	d.publishRelay(eventType, audience, payload)

	if _, err := d.Dispatch(ctx, payload, audience); err != nil {
		log.Printf("[Dispatcher] %s notification failed: %v", eventType, err)
	}
}

// publishRelay mirrors the payload to live sessions.
func (d *Dispatcher) publishRelay(eventType string, audience model.Audience, payload *model.NotificationPayload) {
	if d.relay == nil {
		return
	}
	event := realtimeEvent{Type: eventType, Payload: payload}
	if audience.All {
		d.relay.Broadcast(event)
		return
	}
	for _, userID := range audience.UserIDs {
		d.relay.Publish(userID, event)
	}
}
