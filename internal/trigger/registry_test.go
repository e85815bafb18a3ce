package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry()
	require.NoError(t, err)
	return r
}

func TestDispatchMatchesPatternAndParams(t *testing.T) {
	r := newTestRegistry(t)

	var got Event
	calls := 0
	r.Register(Trigger{
		Name:    "on_message_created",
		Pattern: "/discussion/{messageId}",
		Kind:    Created,
		Handle: func(ctx context.Context, ev Event) error {
			calls++
			got = ev
			return nil
		},
	})

	r.Dispatch(context.Background(), "/discussion/m1", nil, json.RawMessage(`{"message":"hi"}`))

	require.Equal(t, 1, calls)
	assert.Equal(t, "m1", got.Params["messageId"])
	assert.Equal(t, Created, got.Kind)
	assert.Equal(t, "/discussion/m1", got.Path)
}

func TestDispatchKindFiltering(t *testing.T) {
	r := newTestRegistry(t)

	kinds := map[Kind]int{}
	for _, kind := range []Kind{Created, Updated, Deleted, Written} {
		kind := kind
		r.Register(Trigger{
			Name:    "count_" + string(kind),
			Pattern: "/complaints/{id}",
			Kind:    kind,
			Handle: func(ctx context.Context, ev Event) error {
				kinds[kind]++
				return nil
			},
		})
	}

	ctx := context.Background()
	before := json.RawMessage(`{"status":"open"}`)
	after := json.RawMessage(`{"status":"resolved"}`)

	r.Dispatch(ctx, "/complaints/c1", nil, after)    // created
	r.Dispatch(ctx, "/complaints/c1", before, after) // updated
	r.Dispatch(ctx, "/complaints/c1", before, nil)   // deleted

	assert.Equal(t, 1, kinds[Created])
	assert.Equal(t, 1, kinds[Updated])
	assert.Equal(t, 1, kinds[Deleted])
	assert.Equal(t, 3, kinds[Written])
}

func TestDispatchIgnoresOtherPaths(t *testing.T) {
	r := newTestRegistry(t)

	calls := 0
	r.Register(Trigger{
		Name:    "on_report",
		Pattern: "/message_reports/{reportId}",
		Kind:    Written,
		Handle: func(ctx context.Context, ev Event) error {
			calls++
			return nil
		},
	})

	r.Dispatch(context.Background(), "/discussion/m1", nil, json.RawMessage(`{}`))
	r.Dispatch(context.Background(), "/message_reports/r1/status", nil, json.RawMessage(`"open"`))

	assert.Equal(t, 0, calls)
}

func TestDispatchIsolatesHandlerFailures(t *testing.T) {
	r := newTestRegistry(t)

	calls := 0
	r.Register(Trigger{
		Name:    "failing",
		Pattern: "/discussion/{messageId}",
		Kind:    Written,
		Handle: func(ctx context.Context, ev Event) error {
			return errors.New("boom")
		},
	})
	r.Register(Trigger{
		Name:    "panicking",
		Pattern: "/discussion/{messageId}",
		Kind:    Written,
		Handle: func(ctx context.Context, ev Event) error {
			panic("boom")
		},
	})
	r.Register(Trigger{
		Name:    "healthy",
		Pattern: "/discussion/{messageId}",
		Kind:    Written,
		Handle: func(ctx context.Context, ev Event) error {
			calls++
			return nil
		},
	})

	assert.NotPanics(t, func() {
		r.Dispatch(context.Background(), "/discussion/m1", nil, json.RawMessage(`{}`))
	})
	assert.Equal(t, 1, calls, "healthy handler still runs after failures")
}

func TestEventDecodeHelpers(t *testing.T) {
	ev := Event{
		Before: json.RawMessage(`null`),
		After:  json.RawMessage(`{"status":"resolved"}`),
	}

	assert.False(t, ev.HasBefore())
	assert.True(t, ev.HasAfter())

	var after struct {
		Status string `json:"status"`
	}
	require.NoError(t, ev.DecodeAfter(&after))
	assert.Equal(t, "resolved", after.Status)

	var before struct{ Status string }
	require.NoError(t, ev.DecodeBefore(&before))
	assert.Empty(t, before.Status)
}
