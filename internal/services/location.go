package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jwebster45206/scene-forge/pkg/world"
)

// LocationProvider supplies location data for scene generation. A (nil, nil)
// return means the location has no data yet; callers must treat that as a
// degraded input, not a failure.
type LocationProvider interface {
	GetLocationData(ctx context.Context, locationID uuid.UUID) (*world.LocationData, error)
}

// FileLocationProvider reads locations from dataDir/locations/<id>.json.
type FileLocationProvider struct {
	dataDir string
	logger  *slog.Logger
}

var _ LocationProvider = (*FileLocationProvider)(nil)

// NewFileLocationProvider creates a filesystem-backed location provider.
func NewFileLocationProvider(dataDir string, logger *slog.Logger) *FileLocationProvider {
	if dataDir == "" {
		dataDir = "./data"
	}
	return &FileLocationProvider{dataDir: dataDir, logger: logger}
}

func (p *FileLocationProvider) GetLocationData(ctx context.Context, locationID uuid.UUID) (*world.LocationData, error) {
	path := filepath.Join(p.dataDir, "locations", locationID.String()+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// New or unpopulated location.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read location file: %w", err)
	}

	var loc world.LocationData
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal location %s: %w", locationID, err)
	}
	return &loc, nil
}

// MockLocationProvider is an in-memory LocationProvider for tests.
type MockLocationProvider struct {
	Locations map[uuid.UUID]*world.LocationData
	Err       error
}

var _ LocationProvider = (*MockLocationProvider)(nil)

// NewMockLocationProvider creates an empty mock provider.
func NewMockLocationProvider() *MockLocationProvider {
	return &MockLocationProvider{Locations: make(map[uuid.UUID]*world.LocationData)}
}

func (m *MockLocationProvider) GetLocationData(ctx context.Context, locationID uuid.UUID) (*world.LocationData, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Locations[locationID], nil
}
