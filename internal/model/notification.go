package model

// NotificationPayload is the content delivered to a push endpoint.
// Transient: built per call site, never persisted.
type NotificationPayload struct {
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Icon  string                 `json:"icon,omitempty"`
	Badge string                 `json:"badge,omitempty"`
	URL   string                 `json:"url,omitempty"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

// DispatchResult aggregates the outcome of one fan-out operation.
// Callers get counts only; per-subscription failure detail stays in the logs.
type DispatchResult struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Total      int `json:"total"`
}

// Audience is the set of users a notification should reach. Either an
// explicit user-ID set, or every active subscriber.
type Audience struct {
	All     bool
	UserIDs []string
}

// AudienceAll targets every active subscription.
func AudienceAll() Audience {
	return Audience{All: true}
}

// AudienceUsers targets the active subscriptions of the given users.
func AudienceUsers(userIDs ...string) Audience {
	return Audience{UserIDs: userIDs}
}
