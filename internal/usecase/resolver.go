package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	log "github.com/carousell/ct-go/pkg/logger/log_context"

	"github.com/nguyentranbao-ct/community-worker/internal/models"
	"github.com/nguyentranbao-ct/community-worker/internal/repo/authapi"
	"github.com/nguyentranbao-ct/community-worker/internal/store"
)

// NameGenerator produces the fallback name used when neither display name
// nor email is available. Injected so tests can pin it down.
type NameGenerator func() string

func DefaultNameGenerator() string {
	return fmt.Sprintf("User%d", rand.Intn(1000))
}

// UserResolver resolves a user id to a display name, creating the profile
// record on first resolution. It never fails: on any store or provider error
// the caller gets a generated name so attribution and reporting can proceed.
type UserResolver interface {
	Resolve(ctx context.Context, userID string) models.UserProfile
}

type userResolver struct {
	store   store.Store
	auth    authapi.Client
	genName NameGenerator
}

func NewUserResolver(st store.Store, auth authapi.Client, genName NameGenerator) UserResolver {
	return &userResolver{
		store:   st,
		auth:    auth,
		genName: genName,
	}
}

func (r *userResolver) Resolve(ctx context.Context, userID string) models.UserProfile {
	profile, err := r.lookup(ctx, userID)
	if err != nil {
		// Degrade to a generated name rather than failing the caller.
		// This can mask a provider outage; the warn log is the only signal.
		log.Warnw(ctx, "user resolution degraded to generated name",
			"user_id", userID,
			"error", err,
		)
		return models.UserProfile{Name: r.genName()}
	}
	return *profile
}

func (r *userResolver) lookup(ctx context.Context, userID string) (*models.UserProfile, error) {
	path := store.Join("users", userID)

	var profile models.UserProfile
	err := r.store.Get(ctx, path, &profile)
	if err == nil && profile.Name != "" {
		return &profile, nil
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	user, err := r.auth.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query identity provider: %w", err)
	}

	name := deriveName(user.DisplayName, user.Email, r.genName)
	if err := r.store.Set(ctx, path, map[string]any{
		"name":        name,
		"displayName": name,
		"email":       user.Email,
		"createdAt":   store.ServerTimestamp,
	}); err != nil {
		return nil, fmt.Errorf("write profile: %w", err)
	}

	return &models.UserProfile{
		Name:        name,
		DisplayName: name,
		Email:       user.Email,
	}, nil
}

// deriveName picks display name, then email local part, then a generated
// fallback.
func deriveName(displayName, email string, genName NameGenerator) string {
	if displayName != "" {
		return displayName
	}
	if local, _, _ := strings.Cut(email, "@"); local != "" {
		return local
	}
	return genName()
}
