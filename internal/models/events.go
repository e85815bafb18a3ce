package models

import "encoding/json"

// PatternStoreChanged is the only event pattern this worker acts on; the
// change feed may carry other patterns which are ignored.
const PatternStoreChanged = "store.changed"

// ChangeMessage is the envelope the change feed delivers, both over Kafka
// and over the webhook. Identity-creation events ride the same envelope
// with path /auth/users/{userId} and a null before snapshot.
type ChangeMessage struct {
	Pattern string      `json:"pattern"`
	Data    ChangeEvent `json:"data"`
}

type ChangeEvent struct {
	Path   string          `json:"path" validate:"required"`
	Before json.RawMessage `json:"before,omitempty"`
	After  json.RawMessage `json:"after,omitempty"`
}
