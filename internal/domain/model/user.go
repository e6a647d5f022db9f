package model

import "time"

// DefaultUserWindow is the analysis window preset for new chat users.
const DefaultUserWindow = 50

// UserSettings is one chat user's bot preferences.
type UserSettings struct {
	ChatID      int64     `json:"chat_id"`
	Notify      bool      `json:"notify"`       // send draw results
	Reminder    bool      `json:"reminder"`     // send the daily pre-draw reminder
	AutoPredict bool      `json:"auto_predict"` // predict the next period automatically
	Window      int       `json:"window"`       // preferred analysis window
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserSettings returns the defaults for a newly seen chat: results on,
// everything else opt-in.
func NewUserSettings(chatID int64, now time.Time) UserSettings {
	return UserSettings{
		ChatID:    chatID,
		Notify:    true,
		Window:    DefaultUserWindow,
		CreatedAt: now,
	}
}
