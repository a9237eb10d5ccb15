package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/atendai-core/server/internal/agent/model"
	"github.com/atendai-core/server/internal/ticket"
	logx "github.com/atendai-core/server/pkg/logger"
)

// replyPrefix marks engine-originated messages so upstream listeners can
// tell them apart from human agent replies.
const replyPrefix = "‎ "

// unspeakable matches characters the synthesis voice cannot render sensibly.
var unspeakable = regexp.MustCompile(`[^\p{L}\p{N}\s.,;:!?()'"-]`)

// deliver renders the sanitized reply over exactly one channel, selected by
// configuration, never inferred from content. The greeting of a transferred
// queue follows the reply, never precedes it.
func (e *Engine) deliver(ctx context.Context, settings *model.Settings, t *ticket.Ticket, c *ticket.Contact, reply, greeting string) error {
	if settings.TextMode() {
		if err := e.deliverText(ctx, t, c, reply); err != nil {
			return err
		}
	} else {
		if err := e.deliverSpeech(ctx, t, c, reply); err != nil {
			return err
		}
	}
	return e.deliverGreeting(ctx, c, greeting)
}

func (e *Engine) deliverText(ctx context.Context, t *ticket.Ticket, c *ticket.Contact, reply string) error {
	sent, err := e.messenger.SendText(ctx, c.Endpoint, replyPrefix+reply)
	if err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	if err := e.messenger.VerifyMessage(ctx, sent, t, c); err != nil {
		return fmt.Errorf("verify reply: %w", err)
	}
	return nil
}

// deliverSpeech synthesizes the reply to a turn-scoped temporary file and
// delivers it as a voice message. Both candidate artifacts are deleted
// whatever the outcome; a delete failure is logged, never raised.
func (e *Engine) deliverSpeech(ctx context.Context, t *ticket.Ticket, c *ticket.Contact, reply string) error {
	base := filepath.Join(e.mediaDir, fmt.Sprintf("%d_%d", t.ID, e.now().UnixMilli()))
	mp3 := base + ".mp3"
	wav := base + ".wav"
	defer func() {
		deleteFile(mp3)
		deleteFile(wav)
	}()

	if err := e.synthesizer.Synthesize(ctx, speakable(reply), base); err != nil {
		return fmt.Errorf("synthesize reply: %w", err)
	}
	sent, err := e.messenger.SendAudio(ctx, c.Endpoint, mp3)
	if err != nil {
		return fmt.Errorf("send audio reply: %w", err)
	}
	if err := e.messenger.VerifyMedia(ctx, sent, t, c); err != nil {
		return fmt.Errorf("verify audio reply: %w", err)
	}
	return nil
}

func (e *Engine) deliverGreeting(ctx context.Context, c *ticket.Contact, greeting string) error {
	if greeting == "" {
		return nil
	}
	if _, err := e.messenger.SendText(ctx, c.Endpoint, replyPrefix+greeting); err != nil {
		return fmt.Errorf("send queue greeting: %w", err)
	}
	return nil
}

// speakable strips characters that trip up speech synthesis.
func speakable(text string) string {
	return unspeakable.ReplaceAllString(text, "")
}

func deleteFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logx.Warn().Err(err).Str("path", path).Msg("failed to delete temp audio file")
	}
}
