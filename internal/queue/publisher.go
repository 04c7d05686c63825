package queue

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// Publisher defines the interface for publishing events to a stream.
type Publisher interface {
	// Publish adds an event to the specified stream.
	// Returns the message ID assigned by Redis.
	Publish(ctx context.Context, stream string, event NotificationEvent) (messageID string, err error)
}

// RedisPublisher implements Publisher using Redis Streams.
type RedisPublisher struct {
	client *redis.Client
}

// NewPublisher creates a new Publisher backed by Redis Streams.
func NewPublisher(client *redis.Client) Publisher {
	return &RedisPublisher{client: client}
}

// Publish adds an event to the stream using XADD.
// Uses "*" for auto-generated message ID (timestamp-sequence).
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event NotificationEvent) (string, error) {
	values, err := event.ToMap()
	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("serialize event: %w", err)
	}

	messageID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()
	if err != nil {
		log.Printf("[Publisher] Publish FAILED: stream=%s type=%s err=%v", stream, event.Type, err)
		return "", fmt.Errorf("xadd to stream: %w", err)
	}

	log.Printf("[Publisher] Publish OK: stream=%s type=%s msgID=%s recipient=%s",
		stream, event.Type, messageID, event.RecipientID)
	return messageID, nil
}

// PublishMessageSent is a convenience method for direct-message events.
func (p *RedisPublisher) PublishMessageSent(ctx context.Context, recipientID, senderName, preview string) (string, error) {
	return p.Publish(ctx, StreamNotifications, NewMessageSentEvent(recipientID, senderName, preview))
}

// PublishPostLiked is a convenience method for like events.
func (p *RedisPublisher) PublishPostLiked(ctx context.Context, ownerID, actorName string) (string, error) {
	return p.Publish(ctx, StreamNotifications, NewPostLikedEvent(ownerID, actorName))
}

// PublishCommentAdded is a convenience method for comment events.
func (p *RedisPublisher) PublishCommentAdded(ctx context.Context, ownerID, actorName, preview string) (string, error) {
	return p.Publish(ctx, StreamNotifications, NewCommentAddedEvent(ownerID, actorName, preview))
}

// PublishVideoPublished is a convenience method for video publish events.
func (p *RedisPublisher) PublishVideoPublished(ctx context.Context, authorName, title string) (string, error) {
	return p.Publish(ctx, StreamNotifications, NewVideoPublishedEvent(authorName, title))
}
