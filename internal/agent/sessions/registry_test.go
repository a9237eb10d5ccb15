package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	chatmodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	apiKey string
}

func (s *stubModel) Generate(ctx context.Context, in []*schema.Message, opts ...chatmodel.Option) (*schema.Message, error) {
	return schema.AssistantMessage("", nil), nil
}

func (s *stubModel) Stream(ctx context.Context, in []*schema.Message, opts ...chatmodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func (s *stubModel) WithTools(tools []*schema.ToolInfo) (chatmodel.ToolCallingChatModel, error) {
	return s, nil
}

func countingFactory(created *int) Factory {
	return func(ctx context.Context, cred Credentials) (chatmodel.ToolCallingChatModel, error) {
		*created++
		return &stubModel{apiKey: cred.APIKey}, nil
	}
}

func TestAcquireCreatesOncePerTicket(t *testing.T) {
	var created int
	r := NewRegistry(countingFactory(&created))
	ctx := context.Background()

	h1, err := r.Acquire(ctx, 1, Credentials{APIKey: "a"})
	require.NoError(t, err)
	h2, err := r.Acquire(ctx, 1, Credentials{APIKey: "a"})
	require.NoError(t, err)

	assert.Same(t, h1, h2)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, r.Len())
}

func TestAcquireIgnoresCredentialChange(t *testing.T) {
	var created int
	r := NewRegistry(countingFactory(&created))
	ctx := context.Background()

	h1, err := r.Acquire(ctx, 1, Credentials{APIKey: "old"})
	require.NoError(t, err)
	h2, err := r.Acquire(ctx, 1, Credentials{APIKey: "rotated"})
	require.NoError(t, err)

	assert.Same(t, h1, h2)
	assert.Equal(t, "old", h2.(*stubModel).apiKey, "rotation requires a new ticket id")
}

func TestAcquireSeparatesTickets(t *testing.T) {
	var created int
	r := NewRegistry(countingFactory(&created))
	ctx := context.Background()

	h1, err := r.Acquire(ctx, 1, Credentials{})
	require.NoError(t, err)
	h2, err := r.Acquire(ctx, 2, Credentials{})
	require.NoError(t, err)

	assert.NotSame(t, h1, h2)
	assert.Equal(t, 2, created)
}

func TestAcquireFactoryErrorIsNotCached(t *testing.T) {
	fail := true
	r := NewRegistry(func(ctx context.Context, cred Credentials) (chatmodel.ToolCallingChatModel, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return &stubModel{}, nil
	})
	ctx := context.Background()

	_, err := r.Acquire(ctx, 1, Credentials{})
	require.Error(t, err)
	assert.Equal(t, 0, r.Len())

	fail = false
	_, err = r.Acquire(ctx, 1, Credentials{})
	require.NoError(t, err)
}

func TestAcquireConcurrentDistinctTickets(t *testing.T) {
	var mu sync.Mutex
	created := 0
	r := NewRegistry(func(ctx context.Context, cred Credentials) (chatmodel.ToolCallingChatModel, error) {
		mu.Lock()
		created++
		mu.Unlock()
		return &stubModel{apiKey: cred.APIKey}, nil
	})

	const tickets = 20
	const perTicket = 5
	var wg sync.WaitGroup
	errs := make(chan error, tickets*perTicket)
	for id := 1; id <= tickets; id++ {
		for j := 0; j < perTicket; j++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				if _, err := r.Acquire(context.Background(), id, Credentials{APIKey: fmt.Sprint(id)}); err != nil {
					errs <- err
				}
			}(id)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("acquire: %v", err)
	}

	assert.Equal(t, tickets, r.Len())
	assert.Equal(t, tickets, created, "one handle per ticket despite concurrent first access")
}
