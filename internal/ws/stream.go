package ws

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/playpool/billiard/internal/trajectory"
	"go.uber.org/zap"
)

// Simulator validates a request into runnable parameters.
type Simulator interface {
	Prepare(req trajectory.SimulateRequest) (trajectory.Params, error)
}

func (c *Client) handleMessage(raw []byte) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		c.reply(errorFrame(trajectory.BadRequest("invalid frame: %v", err)))
		return
	}

	switch in.Type {
	case TypeSimulate:
		var req trajectory.SimulateRequest
		if err := json.Unmarshal(in.Data, &req); err != nil {
			c.reply(errorFrame(trajectory.BadRequest("invalid simulate request: %v", err)))
			return
		}
		p, err := c.hub.simulator.Prepare(req)
		if err != nil {
			c.reply(errorFrame(err))
			return
		}
		c.startStream(p)
	case TypeCancel:
		c.stopStream()
	case TypeWatch:
		if in.Table == "" {
			c.reply(errorFrame(trajectory.BadRequest("watch requires a table name")))
			return
		}
		c.hub.watch(c, in.Table)
		c.reply(WatchingFrame{Type: TypeWatching, Table: in.Table})
	case TypeUnwatch:
		c.hub.watch(c, "")
		c.reply(WatchingFrame{Type: TypeWatching})
	default:
		c.reply(errorFrame(trajectory.BadRequest("unknown frame type %q", in.Type)))
	}
}

// startStream replaces any running stream with one for p.
func (c *Client) startStream(p trajectory.Params) {
	ctx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.mu.Unlock()

	c.streams.Add(1)
	go func() {
		defer c.streams.Done()
		defer cancel()

		count := 0
		term, err := trajectory.Stream(ctx, p, func(dto trajectory.CollisionDTO) error {
			if err := c.enqueue(ctx, CollisionFrame{Type: TypeCollision, CollisionDTO: dto}); err != nil {
				return err
			}
			count++
			return nil
		})

		switch {
		case errors.Is(err, context.Canceled):
			c.reply(DoneFrame{Type: TypeDone, Count: count, Cancelled: true})
		case err != nil:
			c.hub.log.Warn("[WS] stream failed", zap.String("client", c.id), zap.Error(err))
			c.enqueue(ctx, errorFrame(err))
		default:
			c.enqueue(ctx, DoneFrame{Type: TypeDone, Termination: term, Count: count})
		}
	}()
}

// reply queues a control frame without blocking; a full buffer drops it.
func (c *Client) reply(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
		c.hub.log.Debug("[WS] reply dropped", zap.String("client", c.id))
	}
}
