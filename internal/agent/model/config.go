package model

import "github.com/atendai-core/server/internal/ticket"

// VoiceText selects the text output channel; any other Voice value names a
// synthesis voice and selects the speech channel.
const VoiceText = "text"

// Settings is the per-bot configuration surface the engine consumes.
type Settings struct {
	Name        string  `envconfig:"BOT_NAME" default:"assistant"`
	Prompt      string  `envconfig:"BOT_PROMPT"`
	Voice       string  `envconfig:"BOT_VOICE" default:"text"`
	VoiceKey    string  `envconfig:"BOT_VOICE_KEY"`
	VoiceRegion string  `envconfig:"BOT_VOICE_REGION"`
	MaxTokens   int     `envconfig:"BOT_MAX_TOKENS" default:"1024"`
	Temperature float32 `envconfig:"BOT_TEMPERATURE" default:"0.7"`
	APIKey      string  `envconfig:"BOT_API_KEY"`
	Model       string  `envconfig:"BOT_MODEL" default:"gemini-2.5-flash"`
	QueueID     int     `envconfig:"BOT_QUEUE_ID"`
	MaxMessages int     `envconfig:"BOT_MAX_MESSAGES" default:"10"`
}

// TextMode reports whether replies go out as text rather than speech.
func (s *Settings) TextMode() bool {
	return s.Voice == VoiceText
}

// Inbound is one customer message entering the engine.
type Inbound struct {
	Kind ticket.MediaKind
	// Body carries the text for MediaText messages.
	Body string
	// AudioPath points at the stored recording for MediaAudio messages.
	AudioPath string
}
