package models

const (
	// DateLayout is the storage and wire format for reservation date bounds.
	DateLayout = "2006-01-02"

	// SessionTTLHours is the lifetime of an issued session token.
	SessionTTLHours = 24

	// ChatStateTTL is the lifetime of assistant conversation state, seconds.
	ChatStateTTL = 24 * 60 * 60

	// ChatHistoryLimit caps the turns kept per conversation.
	ChatHistoryLimit = 20

	// MinCarYear is the oldest accepted model year for fleet vehicles.
	MinCarYear = 1900

	// RateLimitRequests / RateLimitWindow bound per-client request rates.
	RateLimitRequests = 30
	RateLimitWindow   = 60

	// NotificationQueueSize bounds the notification worker queue.
	NotificationQueueSize = 256
)
