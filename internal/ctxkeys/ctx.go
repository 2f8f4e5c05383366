package ctxkeys

import (
	"context"

	"github.com/perfreview/goalflow/internal/config"
	"github.com/perfreview/goalflow/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	ActorKey     contextKey = "actor"
	ConfigKey    contextKey = "config"
	RequestIDKey contextKey = "request_id"
)

// Actor returns the authenticated caller, or nil for anonymous requests.
func Actor(ctx context.Context) *model.Actor {
	actor, _ := ctx.Value(ActorKey).(*model.Actor)
	return actor
}

func WithActor(ctx context.Context, actor *model.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
