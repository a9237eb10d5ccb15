package repo

import (
	"context"
	"encoding/json"
	"fmt"

	errx "github.com/atendai-core/server/internal/core/error"
	"github.com/atendai-core/server/internal/ticket"
	logx "github.com/atendai-core/server/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisTicketStore persists the ticketing entities the engine reads and
// mutates. Entity collections are JSON lists, tag associations are sets, the
// ticket itself is a plain JSON value.
type RedisTicketStore struct {
	rdb redis.Cmdable
}

func NewRedisTicketStore(rdb redis.Cmdable) *RedisTicketStore {
	return &RedisTicketStore{rdb: rdb}
}

func companyQueuesKey(companyID int) string {
	return fmt.Sprintf("company:%d:queues", companyID)
}

func companyTagsKey(companyID int) string {
	return fmt.Sprintf("company:%d:tags", companyID)
}

func companyUsersKey(companyID int) string {
	return fmt.Sprintf("company:%d:users", companyID)
}

func ticketKey(ticketID int) string {
	return fmt.Sprintf("ticket:%d", ticketID)
}

func ticketMessagesKey(ticketID int) string {
	return fmt.Sprintf("ticket:%d:messages", ticketID)
}

func ticketTagsKey(ticketID int) string {
	return fmt.Sprintf("ticket:%d:tags", ticketID)
}

func contactTagsKey(contactID int) string {
	return fmt.Sprintf("contact:%d:tags", contactID)
}

func ticketNotesKey(ticketID int) string {
	return fmt.Sprintf("ticket:%d:notes", ticketID)
}

func listJSON[T any](ctx context.Context, rdb redis.Cmdable, key string, limit int64) ([]T, error) {
	rows, err := rdb.LRange(ctx, key, 0, limit).Result()
	if err != nil {
		if err == redis.Nil {
			return []T{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load list from redis")
		return nil, errx.WrapRedis(err)
	}
	out := make([]T, 0, len(rows))
	for i, s := range rows {
		var v T
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			logx.Error().Err(err).Str("key", key).Int("index", i).Msg("failed to unmarshal entry")
			return nil, fmt.Errorf("unmarshal %s at index %d: %w", key, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func pushJSON(ctx context.Context, rdb redis.Cmdable, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal for %s: %w", key, err)
	}
	if err := rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (s *RedisTicketStore) ListQueues(ctx context.Context, companyID int) ([]ticket.Queue, error) {
	return listJSON[ticket.Queue](ctx, s.rdb, companyQueuesKey(companyID), -1)
}

func (s *RedisTicketStore) ListTags(ctx context.Context, companyID int) ([]ticket.Tag, error) {
	return listJSON[ticket.Tag](ctx, s.rdb, companyTagsKey(companyID), -1)
}

func (s *RedisTicketStore) ListUsers(ctx context.Context, companyID int) ([]ticket.User, error) {
	return listJSON[ticket.User](ctx, s.rdb, companyUsersKey(companyID), -1)
}

func (s *RedisTicketStore) ListMessages(ctx context.Context, ticketID int, limit int) ([]ticket.Message, error) {
	if limit <= 0 {
		return []ticket.Message{}, nil
	}
	return listJSON[ticket.Message](ctx, s.rdb, ticketMessagesKey(ticketID), int64(limit)-1)
}

func (s *RedisTicketStore) TransferQueue(ctx context.Context, queueID int, t *ticket.Ticket, c *ticket.Contact) error {
	t.QueueID = queueID
	if err := s.SaveTicket(ctx, t); err != nil {
		return err
	}
	logx.Info().Int("ticketID", t.ID).Int("queueID", queueID).Msg("ticket transferred to queue")
	return nil
}

func (s *RedisTicketStore) SaveTicket(ctx context.Context, t *ticket.Ticket) error {
	b, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal ticket %d: %w", t.ID, err)
	}
	if err := s.rdb.Set(ctx, ticketKey(t.ID), b, 0).Err(); err != nil {
		logx.Error().Err(err).Int("ticketID", t.ID).Msg("failed to save ticket")
		return errx.WrapRedis(err)
	}
	return nil
}

func (s *RedisTicketStore) FindTicket(ctx context.Context, ticketID int) (*ticket.Ticket, error) {
	raw, err := s.rdb.Get(ctx, ticketKey(ticketID)).Result()
	if err != nil {
		return nil, errx.WrapRedis(err)
	}
	var t ticket.Ticket
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return nil, fmt.Errorf("unmarshal ticket %d: %w", ticketID, err)
	}
	return &t, nil
}

func (s *RedisTicketStore) UpsertTicketTag(ctx context.Context, ticketID, tagID int) error {
	if err := s.rdb.SAdd(ctx, ticketTagsKey(ticketID), tagID).Err(); err != nil {
		logx.Error().Err(err).Int("ticketID", ticketID).Int("tagID", tagID).Msg("failed to upsert ticket tag")
		return errx.WrapRedis(err)
	}
	return nil
}

func (s *RedisTicketStore) UpsertContactTag(ctx context.Context, contactID, tagID int) error {
	if err := s.rdb.SAdd(ctx, contactTagsKey(contactID), tagID).Err(); err != nil {
		logx.Error().Err(err).Int("contactID", contactID).Int("tagID", tagID).Msg("failed to upsert contact tag")
		return errx.WrapRedis(err)
	}
	return nil
}

func (s *RedisTicketStore) CreateNote(ctx context.Context, n ticket.Note) error {
	return pushJSON(ctx, s.rdb, ticketNotesKey(n.TicketID), n)
}

// Seeding helpers used by wiring code and fixtures.

func (s *RedisTicketStore) AddQueue(ctx context.Context, q ticket.Queue) error {
	return pushJSON(ctx, s.rdb, companyQueuesKey(q.CompanyID), q)
}

func (s *RedisTicketStore) AddTag(ctx context.Context, t ticket.Tag) error {
	return pushJSON(ctx, s.rdb, companyTagsKey(t.CompanyID), t)
}

func (s *RedisTicketStore) AddUser(ctx context.Context, u ticket.User) error {
	return pushJSON(ctx, s.rdb, companyUsersKey(u.CompanyID), u)
}

func (s *RedisTicketStore) AddMessage(ctx context.Context, m ticket.Message) error {
	return pushJSON(ctx, s.rdb, ticketMessagesKey(m.TicketID), m)
}

var _ ticket.Store = (*RedisTicketStore)(nil)
