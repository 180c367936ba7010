package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Steps int     `json:"steps"`
	Eps   float64 `json:"eps"`
}

func TestKeyStableAndDistinct(t *testing.T) {
	a, err := Key(payload{Steps: 10, Eps: 1e-8})
	require.NoError(t, err)
	b, err := Key(payload{Steps: 10, Eps: 1e-8})
	require.NoError(t, err)
	c, err := Key(payload{Steps: 11, Eps: 1e-8})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, keyPrefix))
	assert.Len(t, a, len(keyPrefix)+16)

	_, err = Key(func() {})
	assert.Error(t, err)
}

func TestFetchWithoutRedisComputes(t *testing.T) {
	c := New(nil, time.Minute, nil)
	calls := 0
	compute := func() (payload, error) {
		calls++
		return payload{Steps: 3}, nil
	}

	out, hit, err := Fetch(context.Background(), c, "k", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, out.Steps)

	_, _, err = Fetch(context.Background(), c, "k", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFetchPropagatesError(t *testing.T) {
	c := New(nil, time.Minute, nil)
	boom := errors.New("boom")
	_, _, err := Fetch(context.Background(), c, "k", func() (payload, error) { return payload{}, boom })
	assert.ErrorIs(t, err, boom)
}

func TestFetchCollapsesConcurrentCalls(t *testing.T) {
	c := New(nil, time.Minute, nil)
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	compute := func() (payload, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return payload{Steps: 7}, nil
	}

	var wg sync.WaitGroup
	results := make([]payload, 8)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _, _ = Fetch(context.Background(), c, "same", compute)
	}()
	<-started
	for i := 1; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, _ = Fetch(context.Background(), c, "same", compute)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	for _, r := range results {
		assert.Equal(t, 7, r.Steps)
	}
}

func TestInvalidateWithoutRedis(t *testing.T) {
	assert.NoError(t, New(nil, time.Minute, nil).Invalidate(context.Background()))
}

// ctxHook answers redis commands locally and records whether the context
// each one ran under was already cancelled.
type ctxHook struct {
	mu   sync.Mutex
	errs map[string]error
}

func (h *ctxHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *ctxHook) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.mu.Lock()
		h.errs[cmd.Name()] = ctx.Err()
		h.mu.Unlock()
		if cmd.Name() == "get" {
			cmd.SetErr(redis.Nil)
			return redis.Nil
		}
		return nil
	}
}

func (h *ctxHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestFetchSurvivesCallerCancellation(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { rdb.Close() })
	hook := &ctxHook{errs: map[string]error{}}
	rdb.AddHook(hook)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(rdb, time.Minute, nil)
	out, hit, err := Fetch(ctx, c, "gone", func() (payload, error) { return payload{Steps: 2}, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, out.Steps)

	hook.mu.Lock()
	defer hook.mu.Unlock()
	require.Contains(t, hook.errs, "get")
	require.Contains(t, hook.errs, "set")
	assert.NoError(t, hook.errs["get"])
	assert.NoError(t, hook.errs["set"])
}
