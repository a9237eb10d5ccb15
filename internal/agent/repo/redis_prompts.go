package repo

import (
	"context"
	"fmt"

	errx "github.com/atendai-core/server/internal/core/error"
	"github.com/atendai-core/server/internal/ticket"
	logx "github.com/atendai-core/server/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisPrompts stores named prompt overrides.
type RedisPrompts struct {
	rdb redis.Cmdable
}

func NewRedisPrompts(rdb redis.Cmdable) *RedisPrompts {
	return &RedisPrompts{rdb: rdb}
}

func promptKey(name string) string {
	return fmt.Sprintf("prompt:%s", name)
}

// Find returns the override for the given bot name. A missing override is a
// not-found error; callers keep their statically configured prompt.
func (p *RedisPrompts) Find(ctx context.Context, name string) (string, error) {
	val, err := p.rdb.Get(ctx, promptKey(name)).Result()
	if err != nil {
		if err != redis.Nil {
			logx.Error().Err(err).Str("name", name).Msg("failed to load prompt override")
		}
		return "", errx.WrapRedis(err)
	}
	return val, nil
}

// Set records an override for the given bot name.
func (p *RedisPrompts) Set(ctx context.Context, name, prompt string) error {
	if err := p.rdb.Set(ctx, promptKey(name), prompt, 0).Err(); err != nil {
		logx.Error().Err(err).Str("name", name).Msg("failed to save prompt override")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ ticket.Prompts = (*RedisPrompts)(nil)
