package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwebster45206/scene-forge/pkg/scene"
)

// SceneStore is the persistence boundary for generated scenes. Scenes are
// keyed by their own id, not the location id; one location may have many
// generated scenes over time.
type SceneStore interface {
	Ping(ctx context.Context) error
	Close() error

	SaveScene(ctx context.Context, id uuid.UUID, sc *scene.SceneDefinition) error
	// LoadScene returns (nil, nil) when no scene exists under id.
	LoadScene(ctx context.Context, id uuid.UUID) (*scene.SceneDefinition, error)
	DeleteScene(ctx context.Context, id uuid.UUID) error
}
