package telegram

import "time"

// Option configures the bot.
type Option func(*Bot)

// WithBotAPI injects a prebuilt Telegram client instead of dialing the
// token.
func WithBotAPI(api botAPI) Option {
	return func(b *Bot) {
		if api != nil {
			b.api = api
		}
	}
}

// WithTopN sets how many categories a prediction recommends.
func WithTopN(n int) Option {
	return func(b *Bot) {
		if n > 0 {
			b.topN = n
		}
	}
}

// WithLocation overrides the draw time zone used for countdowns.
func WithLocation(loc *time.Location) Option {
	return func(b *Bot) {
		if loc != nil {
			b.loc = loc
		}
	}
}
