package model

// NotificationKind labels why a message is being sent.
type NotificationKind string

// The kinds of messages the bot pushes without being asked.
const (
	NotificationResult     NotificationKind = "result"
	NotificationPrediction NotificationKind = "prediction"
	NotificationReminder   NotificationKind = "reminder"
)

// Notification is one chat message awaiting delivery.
type Notification struct {
	ChatID int64            `json:"chat_id"`
	Kind   NotificationKind `json:"kind"`
	Text   string           `json:"text"`
}
