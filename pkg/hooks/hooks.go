// Package hooks adapts the bootstrap composer to host lifecycle events.
// The host runs the binary as a hook executable: it writes one JSON payload
// to stdin and reads the messages to inject from stdout. A failing hook must
// never abort the host session, so every failure degrades to "inject nothing".
package hooks

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/superpowers-pi/superpowers/pkg/logger"
)

// HookType represents the lifecycle event delivered by the host
type HookType string

// Hook type constants for the events that inject the bootstrap payload
const (
	HookTypeSessionStart         HookType = "session_start"
	HookTypeSessionBeforeCompact HookType = "session_before_compact"
)

// SupportedHookTypes lists the events this hook reacts to
func SupportedHookTypes() []HookType {
	return []HookType{HookTypeSessionStart, HookTypeSessionBeforeCompact}
}

// Message roles and entry types understood by the host
const (
	RoleUser        = "user"
	EntryTypeCustom = "custom_message"
)

// Payload is sent by the host for every lifecycle event
type Payload struct {
	Event     HookType `json:"event"`
	SessionID string   `json:"session_id,omitempty"`
	CWD       string   `json:"cwd,omitempty"`
}

// Message is a conversation entry the host appends for the model to see
type Message struct {
	Type      string `json:"type"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// Result is returned to the host. No messages means nothing to inject.
type Result struct {
	Messages []Message `json:"messages,omitempty"`
}

// Composer builds the bootstrap payload, empty when there is nothing to inject
type Composer interface {
	Compose(compact bool) (string, error)
}

// Handler turns lifecycle events into injected messages
type Handler struct {
	composer Composer
	now      func() time.Time
}

// NewHandler creates a handler backed by composer
func NewHandler(composer Composer) *Handler {
	return &Handler{
		composer: composer,
		now:      time.Now,
	}
}

// Handle returns the messages to inject for payload. Session start gets the
// full bootstrap, pre-compaction the compact one, other events nothing.
func (h *Handler) Handle(ctx context.Context, payload Payload) Result {
	log := logger.G(ctx).WithField("event", payload.Event)

	var compact bool
	switch payload.Event {
	case HookTypeSessionStart:
		compact = false
	case HookTypeSessionBeforeCompact:
		compact = true
	default:
		log.Debug("ignoring unsupported hook event")
		return Result{}
	}

	content, err := h.composer.Compose(compact)
	if err != nil {
		log.WithError(err).Warn("failed to compose superpowers bootstrap, skipping injection")
		return Result{}
	}
	if content == "" {
		log.Debug("orientation skill not installed, nothing to inject")
		return Result{}
	}

	log.WithField("compact", compact).Debug("injecting superpowers bootstrap")
	return Result{
		Messages: []Message{{
			Type:      EntryTypeCustom,
			Role:      RoleUser,
			Content:   content,
			Timestamp: h.now().UnixMilli(),
		}},
	}
}

// Run reads a payload from r and writes the JSON result to w. Malformed
// payloads yield an empty result; only a failed write is reported.
func (h *Handler) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	var payload Payload
	result := Result{}

	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		logger.G(ctx).WithError(err).Warn("failed to decode hook payload")
	} else {
		result = h.Handle(ctx, payload)
	}

	return WriteResult(w, result)
}

// WriteResult encodes result to w as a single JSON line
func WriteResult(w io.Writer, result Result) error {
	if err := json.NewEncoder(w).Encode(result); err != nil {
		return errors.Wrap(err, "failed to write hook result")
	}
	return nil
}
