package transport

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/atendai-core/server/internal/ticket"
	logx "github.com/atendai-core/server/pkg/logger"
)

// LoggingMessenger writes deliveries to the log instead of a real transport.
// It backs the wiring demo in main and local development.
type LoggingMessenger struct {
	seq atomic.Int64
}

func NewLoggingMessenger() *LoggingMessenger {
	return &LoggingMessenger{}
}

func (m *LoggingMessenger) SendText(ctx context.Context, endpoint string, text string) (*SentMessage, error) {
	id := fmt.Sprintf("msg-%d", m.seq.Add(1))
	logx.Info().Str("endpoint", endpoint).Str("id", id).Str("text", text).Msg("send text")
	return &SentMessage{ID: id, Endpoint: endpoint, Body: text}, nil
}

func (m *LoggingMessenger) SendAudio(ctx context.Context, endpoint string, filePath string) (*SentMessage, error) {
	id := fmt.Sprintf("msg-%d", m.seq.Add(1))
	logx.Info().Str("endpoint", endpoint).Str("id", id).Str("file", filePath).Msg("send audio")
	return &SentMessage{ID: id, Endpoint: endpoint, Body: filePath, Audio: true}, nil
}

func (m *LoggingMessenger) VerifyMessage(ctx context.Context, sent *SentMessage, t *ticket.Ticket, c *ticket.Contact) error {
	logx.Debug().Str("id", sent.ID).Int("ticketID", t.ID).Msg("verify message")
	return nil
}

func (m *LoggingMessenger) VerifyMedia(ctx context.Context, sent *SentMessage, t *ticket.Ticket, c *ticket.Contact) error {
	logx.Debug().Str("id", sent.ID).Int("ticketID", t.ID).Msg("verify media")
	return nil
}

var _ Messenger = (*LoggingMessenger)(nil)
