package session

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ligustah/lobby/internal/decode"
	"github.com/ligustah/lobby/internal/logging"
)

// DefaultPlayerName is used until a name is set.
const DefaultPlayerName = "Player"

// Slot names.
const (
	SlotAvatarImage = "avatar-image"
	SlotAvatarMesh  = "avatar-mesh"
)

// PlayerOptions configures a Player.
type PlayerOptions struct {
	// DefaultImage is shown until an avatar image is applied.
	// Default: DefaultAvatarImage()
	DefaultImage *decode.Image

	// DefaultMesh is shown until an avatar mesh is applied.
	// Default: DefaultAvatarMesh()
	DefaultMesh *decode.Mesh

	Logger *log.Logger
}

// Player is the local player's profile: a display name and the avatar slots.
type Player struct {
	logger *log.Logger

	mu   sync.RWMutex
	name string

	image *Slot[*decode.Image]
	mesh  *Slot[*decode.Mesh]
}

// NewPlayer creates a player showing the default avatar.
func NewPlayer(opts PlayerOptions) *Player {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.DefaultImage == nil {
		opts.DefaultImage = DefaultAvatarImage()
	}
	if opts.DefaultMesh == nil {
		opts.DefaultMesh = DefaultAvatarMesh()
	}

	p := &Player{
		logger: opts.Logger,
		name:   DefaultPlayerName,
		image:  NewSlot(SlotAvatarImage, opts.DefaultImage, opts.Logger),
		mesh:   NewSlot(SlotAvatarMesh, opts.DefaultMesh, opts.Logger),
	}
	p.image.OnApply(func(img *decode.Image) {
		p.logger.Debug("avatar image changed", "image", img)
	})
	p.mesh.OnApply(func(m *decode.Mesh) {
		p.logger.Debug("avatar mesh changed", "mesh", m)
	})
	return p
}

// SetPlayerName sets the display name. An empty name restores the default.
func (p *Player) SetPlayerName(name string) {
	if name == "" {
		name = DefaultPlayerName
	}
	p.mu.Lock()
	p.name = name
	p.mu.Unlock()
	p.logger.Info("player name set", "name", name)
}

// Name returns the display name.
func (p *Player) Name() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.name
}

// SetAvatarImage applies img directly. nil restores the default image.
func (p *Player) SetAvatarImage(img *decode.Image) {
	if img == nil {
		p.image.Reset()
		return
	}
	p.image.Set(img)
}

// SetAvatarMesh applies m directly. nil restores the default mesh.
func (p *Player) SetAvatarMesh(m *decode.Mesh) {
	if m == nil {
		p.mesh.Reset()
		return
	}
	p.mesh.Set(m)
}

// AvatarImage returns the current avatar image.
func (p *Player) AvatarImage() *decode.Image { return p.image.Get() }

// AvatarMesh returns the current avatar mesh.
func (p *Player) AvatarMesh() *decode.Mesh { return p.mesh.Get() }

// ImageSlot returns the avatar image slot.
func (p *Player) ImageSlot() *Slot[*decode.Image] { return p.image }

// MeshSlot returns the avatar mesh slot.
func (p *Player) MeshSlot() *Slot[*decode.Mesh] { return p.mesh }

// DefaultAvatarImage returns a 2x2 mid-grey placeholder.
func DefaultAvatarImage() *decode.Image {
	pix := make([]byte, 2*2*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = 0x80, 0x80, 0x80, 0xff
	}
	return &decode.Image{
		Format:       "default",
		Width:        2,
		Height:       2,
		ChannelCount: 4,
		Pixels:       pix,
	}
}

// DefaultAvatarMesh returns a unit quad facing +z.
func DefaultAvatarMesh() *decode.Mesh {
	return &decode.Mesh{
		Name: "default",
		Vertices: []float32{
			-0.5, -0.5, 0,
			0.5, -0.5, 0,
			0.5, 0.5, 0,
			-0.5, 0.5, 0,
		},
		Normals: []float32{
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
		},
		UVs:     []float32{0, 0, 1, 0, 1, 1, 0, 1},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}
