package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ligustah/lobby/internal/asset"
	"github.com/ligustah/lobby/internal/decode"
	"github.com/ligustah/lobby/internal/logging"
)

// Manager owns the local player and drives avatar loads into the player's
// slots.
type Manager struct {
	logger *log.Logger
	player *Player
	images *asset.Loader[*decode.Image]
	meshes *asset.Loader[*decode.Mesh]

	mu        sync.Mutex
	sessionID int
	imageURL  string
	modelURL  string
}

// NewManager looks up the image and mesh loaders in registry.
func NewManager(registry *asset.Registry, player *Player, logger *log.Logger) (*Manager, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	images, err := asset.Lookup[*decode.Image](registry, asset.KindImage)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	meshes, err := asset.Lookup[*decode.Mesh](registry, asset.KindMesh)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &Manager{
		logger: logger,
		player: player,
		images: images,
		meshes: meshes,
	}, nil
}

// Player returns the local player.
func (m *Manager) Player() *Player { return m.player }

// CreateOrJoinSession joins the session with the given id, creating it if it
// does not exist. Networking is not implemented; the id is only recorded.
func (m *Manager) CreateOrJoinSession(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id <= 0 {
		return fmt.Errorf("session: invalid session id %d", id)
	}
	m.mu.Lock()
	m.sessionID = id
	m.mu.Unlock()
	m.logger.Info("joined session", "session_id", id)
	return nil
}

// SessionID returns the joined session id, or false before a join.
func (m *Manager) SessionID() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID, m.sessionID > 0
}

// SetPlayerName sets the local player's display name.
func (m *Manager) SetPlayerName(name string) {
	m.player.SetPlayerName(name)
}

// SetAvatarImageFromURL loads url into the avatar image slot, superseding any
// image load still in flight.
func (m *Manager) SetAvatarImageFromURL(ctx context.Context, url string) *asset.Task[*decode.Image] {
	m.mu.Lock()
	m.imageURL = url
	m.mu.Unlock()
	return m.player.ImageSlot().Load(ctx, m.images, url)
}

// SetAvatarModelFromURL loads url into the avatar mesh slot, superseding any
// model load still in flight.
func (m *Manager) SetAvatarModelFromURL(ctx context.Context, url string) *asset.Task[*decode.Mesh] {
	m.mu.Lock()
	m.modelURL = url
	m.mu.Unlock()
	return m.player.MeshSlot().Load(ctx, m.meshes, url)
}

// AvatarImageURL returns the last requested avatar image URL.
func (m *Manager) AvatarImageURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.imageURL
}

// AvatarModelURL returns the last requested avatar model URL.
func (m *Manager) AvatarModelURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modelURL
}
