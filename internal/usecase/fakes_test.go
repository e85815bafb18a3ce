package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nguyentranbao-ct/community-worker/internal/models"
)

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

// fakeIdentity stubs the identity provider.
type fakeIdentity struct {
	users map[string]models.AuthUser
	err   error
	calls int
}

func (f *fakeIdentity) GetUser(ctx context.Context, userID string) (*models.AuthUser, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &user, nil
}

type sentPush struct {
	token   string
	payload models.Payload
}

// fakeGateway stubs the push gateway.
type fakeGateway struct {
	err  error
	sent []sentPush
}

func (f *fakeGateway) Send(ctx context.Context, token string, payload models.Payload) (*models.SendResponse, error) {
	f.sent = append(f.sent, sentPush{token: token, payload: payload})
	if f.err != nil {
		return nil, f.err
	}
	return &models.SendResponse{SuccessCount: 1}, nil
}

// fixedName pins the fallback name generator for deterministic asserts.
func fixedName(name string) NameGenerator {
	return func() string { return name }
}

// stubResolver returns a fixed profile for any user id.
type stubResolver struct {
	profile models.UserProfile
}

func (s *stubResolver) Resolve(ctx context.Context, userID string) models.UserProfile {
	return s.profile
}
