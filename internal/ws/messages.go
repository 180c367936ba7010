package ws

import (
	"encoding/json"

	"github.com/playpool/billiard/internal/dynamics"
	"github.com/playpool/billiard/internal/trajectory"
)

// Inbound frame types.
const (
	TypeSimulate = "simulate"
	TypeCancel   = "cancel"
	TypeWatch    = "watch"
	TypeUnwatch  = "unwatch"
)

// Outbound frame types.
const (
	TypeCollision = "collision"
	TypeDone      = "done"
	TypeError     = "error"
	TypeWatching  = "watching"
	TypeRun       = "run_completed"
)

// Inbound is a client frame. Data carries a trajectory.SimulateRequest for
// simulate frames.
type Inbound struct {
	Type  string          `json:"type"`
	Table string          `json:"table,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type CollisionFrame struct {
	Type string `json:"type"`
	trajectory.CollisionDTO
}

type DoneFrame struct {
	Type        string               `json:"type"`
	Termination dynamics.Termination `json:"termination,omitempty"`
	Count       int                  `json:"count"`
	Cancelled   bool                 `json:"cancelled,omitempty"`
}

type ErrorFrame struct {
	Type    string          `json:"type"`
	Error   trajectory.Code `json:"error"`
	Message string          `json:"message"`
}

type WatchingFrame struct {
	Type  string `json:"type"`
	Table string `json:"table"`
}

// RunEvent is published on the events channel when a stored-table run
// completes, and relayed to clients watching that table.
type RunEvent struct {
	Type        string               `json:"type"`
	RunID       string               `json:"run_id"`
	Table       string               `json:"table"`
	Count       int                  `json:"count"`
	Termination dynamics.Termination `json:"termination"`
}

func errorFrame(err error) ErrorFrame {
	body := trajectory.AsError(err).Body()
	return ErrorFrame{Type: TypeError, Error: body.Error, Message: body.Message}
}
