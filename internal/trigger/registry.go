// Package trigger routes store change events to the handlers registered for
// a path pattern. The hosting runtime (Kafka change feed or webhook) is just
// a caller of Registry.Dispatch; handlers never see the transport.
package trigger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nguyentranbao-ct/community-worker/internal/store"
	"github.com/nguyentranbao-ct/community-worker/pkg/util"
)

type Kind string

const (
	// Created fires when there was no value before the mutation.
	Created Kind = "created"
	// Updated fires when a value changed but existed before and after.
	Updated Kind = "updated"
	// Deleted fires when the value was removed.
	Deleted Kind = "deleted"
	// Written fires on any mutation.
	Written Kind = "written"
)

// Event is one store mutation as seen by a handler.
type Event struct {
	Path   string
	Kind   Kind
	Params map[string]string
	Before json.RawMessage
	After  json.RawMessage
}

func (e Event) HasBefore() bool { return !isNull(e.Before) }
func (e Event) HasAfter() bool  { return !isNull(e.After) }

func (e Event) DecodeBefore(into any) error {
	if !e.HasBefore() {
		return nil
	}
	if err := json.Unmarshal(e.Before, into); err != nil {
		return fmt.Errorf("decode before snapshot of %s: %w", e.Path, err)
	}
	return nil
}

func (e Event) DecodeAfter(into any) error {
	if !e.HasAfter() {
		return nil
	}
	if err := json.Unmarshal(e.After, into); err != nil {
		return fmt.Errorf("decode after snapshot of %s: %w", e.Path, err)
	}
	return nil
}

type HandlerFunc func(ctx context.Context, ev Event) error

// Trigger binds a handler to a path pattern like /discussion/{messageId}.
type Trigger struct {
	Name    string
	Pattern string
	Kind    Kind
	Handle  HandlerFunc
}

type compiled struct {
	Trigger
	segments []string
}

type Registry struct {
	triggers []compiled
	metrics  *prometheus.HistogramVec
}

func NewRegistry() (*Registry, error) {
	metrics, err := util.GetHistogramVec("store_events_handled", "trigger", "status")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &Registry{metrics: metrics}, nil
}

func (r *Registry) Register(t Trigger) {
	r.triggers = append(r.triggers, compiled{
		Trigger:  t,
		segments: store.Split(t.Pattern),
	})
}

// Dispatch derives the event kind from the before/after snapshots and runs
// every matching trigger. Handler errors are logged and swallowed: a failed
// handler must not fail the invocation or starve its siblings.
func (r *Registry) Dispatch(ctx context.Context, path string, before, after json.RawMessage) {
	kind := deriveKind(before, after)
	segments := store.Split(path)

	for _, t := range r.triggers {
		if t.Kind != Written && t.Kind != kind {
			continue
		}
		params, ok := match(t.segments, segments)
		if !ok {
			continue
		}

		ev := Event{
			Path:   store.Join(segments...),
			Kind:   kind,
			Params: params,
			Before: before,
			After:  after,
		}
		r.run(ctx, t.Trigger, ev)
	}
}

func (r *Registry) run(ctx context.Context, t Trigger, ev Event) {
	start := time.Now()
	err := safeHandle(ctx, t, ev)
	status := "success"
	if err != nil {
		status = "error"
		log.Errorw(ctx, "trigger failed",
			"trigger", t.Name,
			"path", ev.Path,
			"kind", ev.Kind,
			"error", err,
		)
	} else {
		log.Debugw(ctx, "trigger handled",
			"trigger", t.Name,
			"path", ev.Path,
			"kind", ev.Kind,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	r.metrics.WithLabelValues(t.Name, status).Observe(time.Since(start).Seconds())
}

func safeHandle(ctx context.Context, t Trigger, ev Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("PANIC RECOVER: %+v", rec)
		}
	}()
	return t.Handle(ctx, ev)
}

func deriveKind(before, after json.RawMessage) Kind {
	switch {
	case isNull(before) && !isNull(after):
		return Created
	case !isNull(before) && isNull(after):
		return Deleted
	default:
		return Updated
	}
}

func match(pattern, path []string) (map[string]string, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range pattern {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			params[seg[1:len(seg)-1]] = path[i]
			continue
		}
		if seg != path[i] {
			return nil, false
		}
	}
	return params, true
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
