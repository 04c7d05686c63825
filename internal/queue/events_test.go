package queue

import (
	"testing"
)

func TestNotificationEvent_MapRoundTrip(t *testing.T) {
	event := NewMessageSentEvent("user-42", "alice", "hey, are you around?")

	values, err := event.ToMap()
	if err != nil {
		t.Fatalf("ToMap: %v", err)
	}
	if values["type"] != EventMessageSent {
		t.Errorf("type field = %v, want %q", values["type"], EventMessageSent)
	}

	parsed, err := ParseNotificationEvent(values)
	if err != nil {
		t.Fatalf("ParseNotificationEvent: %v", err)
	}
	if parsed != event {
		t.Errorf("round trip = %+v, want %+v", parsed, event)
	}
}

func TestParseNotificationEvent_MissingData(t *testing.T) {
	_, err := ParseNotificationEvent(map[string]interface{}{"type": EventPostLiked})
	if err == nil {
		t.Fatal("expected error for missing data field")
	}
}

func TestParseNotificationEvent_MalformedData(t *testing.T) {
	_, err := ParseNotificationEvent(map[string]interface{}{"data": "{not json"})
	if err == nil {
		t.Fatal("expected error for malformed data field")
	}
}

func TestBroadcastEventsHaveNoRecipient(t *testing.T) {
	for _, event := range []NotificationEvent{
		NewPostPublishedEvent("bob", "my hike"),
		NewVideoPublishedEvent("bob", "my hike, part two"),
	} {
		if event.RecipientID != "" {
			t.Errorf("%s: recipient = %q, want empty (broadcast)", event.Type, event.RecipientID)
		}
		if event.Timestamp == 0 {
			t.Errorf("%s: timestamp not set", event.Type)
		}
	}
}
