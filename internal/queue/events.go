package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the notification stream
const (
	EventUserRegistered = "user_registered"
	EventUserReturned   = "user_returned"
	EventMessageSent    = "message_sent"
	EventPostLiked      = "post_liked"
	EventCommentAdded   = "comment_added"
	EventPostPublished  = "post_published"
	EventVideoPublished = "video_published"
)

// Stream names
const (
	StreamNotifications = "stream:notifications"
)

// Consumer group name for notification workers
const (
	ConsumerGroupNotifications = "notification_workers"
)

// NotificationEvent represents a domain event published to the notification
// stream. All notification triggers share this structure; the worker maps
// each type onto one dispatcher wrapper.
type NotificationEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	// RecipientID targets the notification at one user. Empty for events
	// that broadcast to all subscribers (new post/video).
	RecipientID string `json:"recipient_id,omitempty"`

	// ActorName is the display name of whoever triggered the event.
	ActorName string `json:"actor_name,omitempty"`

	// Preview carries message/comment text; the dispatcher truncates it.
	Preview string `json:"preview,omitempty"`

	// Title carries a post/video title for publish events.
	Title string `json:"title,omitempty"`
}

// NewUserRegisteredEvent fires the welcome notification for a new account.
func NewUserRegisteredEvent(userID, displayName string) NotificationEvent {
	return NotificationEvent{
		Type:        EventUserRegistered,
		Timestamp:   time.Now().Unix(),
		RecipientID: userID,
		ActorName:   displayName,
	}
}

// NewUserReturnedEvent fires the welcome-back notification on login after an
// absence.
func NewUserReturnedEvent(userID, displayName string) NotificationEvent {
	return NotificationEvent{
		Type:        EventUserReturned,
		Timestamp:   time.Now().Unix(),
		RecipientID: userID,
		ActorName:   displayName,
	}
}

// NewMessageSentEvent notifies a user about a direct message.
func NewMessageSentEvent(recipientID, senderName, preview string) NotificationEvent {
	return NotificationEvent{
		Type:        EventMessageSent,
		Timestamp:   time.Now().Unix(),
		RecipientID: recipientID,
		ActorName:   senderName,
		Preview:     preview,
	}
}

// NewPostLikedEvent notifies a post owner about a like.
func NewPostLikedEvent(ownerID, actorName string) NotificationEvent {
	return NotificationEvent{
		Type:        EventPostLiked,
		Timestamp:   time.Now().Unix(),
		RecipientID: ownerID,
		ActorName:   actorName,
	}
}

// NewCommentAddedEvent notifies a post owner about a comment.
func NewCommentAddedEvent(ownerID, actorName, preview string) NotificationEvent {
	return NotificationEvent{
		Type:        EventCommentAdded,
		Timestamp:   time.Now().Unix(),
		RecipientID: ownerID,
		ActorName:   actorName,
		Preview:     preview,
	}
}

// NewPostPublishedEvent announces a public post to every subscriber.
func NewPostPublishedEvent(authorName, title string) NotificationEvent {
	return NotificationEvent{
		Type:      EventPostPublished,
		Timestamp: time.Now().Unix(),
		ActorName: authorName,
		Title:     title,
	}
}

// NewVideoPublishedEvent announces a new video to every subscriber.
func NewVideoPublishedEvent(authorName, title string) NotificationEvent {
	return NotificationEvent{
		Type:      EventVideoPublished,
		Timestamp: time.Now().Unix(),
		ActorName: authorName,
		Title:     title,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e NotificationEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseNotificationEvent parses a NotificationEvent from Redis stream message values.
func ParseNotificationEvent(values map[string]interface{}) (NotificationEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return NotificationEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event NotificationEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return NotificationEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
