// Package mongostore implements store.Store on a mongo collection for
// self-hosted deployments. Each record is a document keyed by its full store
// path; subtree aggregation is not supported, callers address records by the
// same paths they would use against the hosted database.
package mongostore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nguyentranbao-ct/community-worker/internal/models"
	"github.com/nguyentranbao-ct/community-worker/internal/store"
)

type Store struct {
	coll   *mongo.Collection
	pushID *store.PushIDGenerator
}

var _ store.Store = (*Store)(nil)

type record struct {
	Path      string    `bson:"_id"`
	Value     bson.M    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func New(db *mongo.Database, collection string) *Store {
	return &Store{
		coll:   db.Collection(collection),
		pushID: store.NewPushIDGenerator(),
	}
}

func (s *Store) Get(ctx context.Context, path string, into any) error {
	var rec record
	err := s.coll.FindOne(ctx, bson.M{"_id": store.Join(path)}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return s.getField(ctx, path, into)
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return transcode(rec.Value, into)
}

// getField serves reads of a single field of a stored record, e.g.
// /users/{id}/fcmToken when the record lives at /users/{id}.
func (s *Store) getField(ctx context.Context, path string, into any) error {
	segs := store.Split(path)
	if len(segs) < 2 {
		return models.ErrNotFound
	}
	parent := store.Join(segs[:len(segs)-1]...)
	field := segs[len(segs)-1]

	var rec record
	err := s.coll.FindOne(ctx, bson.M{"_id": parent}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	value, ok := rec.Value[field]
	if !ok || value == nil {
		return models.ErrNotFound
	}
	return transcode(value, into)
}

func (s *Store) Set(ctx context.Context, path string, value any) error {
	doc, err := s.encode(value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	_, err = s.coll.UpdateOne(ctx,
		bson.M{"_id": store.Join(path)},
		bson.M{"$set": bson.M{"value": doc, "updated_at": time.Now()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, path string, patch map[string]any) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range patch {
		node, err := s.encodeValue(v)
		if err != nil {
			return fmt.Errorf("update %s/%s: %w", path, k, err)
		}
		set["value."+k] = node
	}
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": store.Join(path)},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	return nil
}

func (s *Store) Push(ctx context.Context, path string, value any) (string, error) {
	key := s.pushID.Next(time.Now())
	if err := s.Set(ctx, store.Join(path, key), value); err != nil {
		return "", fmt.Errorf("push %s: %w", path, err)
	}
	return key, nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": store.Join(path)})
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (s *Store) encode(value any) (bson.M, error) {
	node, err := s.encodeValue(value)
	if err != nil {
		return nil, err
	}
	doc, ok := node.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("record value must be an object, got %T", node)
	}
	return bson.M(doc), nil
}

// encodeValue round-trips through JSON and resolves server timestamps.
func (s *Store) encodeValue(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var node any
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	return materialize(node), nil
}

func materialize(node any) any {
	if store.IsServerTimestamp(node) {
		return time.Now().UnixMilli()
	}
	if m, ok := node.(map[string]any); ok {
		for k, v := range m {
			m[k] = materialize(v)
		}
	}
	return node
}

func transcode(in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}
