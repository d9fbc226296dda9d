// Package transition swaps scenes when a hotspot action asks for it.
package transition

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-pano/engine/config"
	"github.com/Carmen-Shannon/oxy-pano/engine/loader"
	"github.com/Carmen-Shannon/oxy-pano/engine/logger"
	"github.com/Carmen-Shannon/oxy-pano/engine/scene"
)

type manager struct {
	mu *sync.Mutex

	log *logger.Logger

	scene   scene.Scene
	scenes  map[string]config.Scene
	order   []string
	loading loader.LoadingManager

	current string
}

// Manager looks up scene definitions by id and loads them into the scene graph.
// Transitions are serialized; a second request waits for the first Load call to return.
type Manager interface {
	// Start loads the scene with the given id.
	//
	// Parameters:
	//   - id: the scene to show first
	//
	// Returns:
	//   - error: an error if no scene has that id
	Start(id string) error

	// Goto loads the scene with the given id. Unknown ids are logged and ignored.
	//
	// Parameters:
	//   - id: the scene to load
	//
	// Returns:
	//   - bool: true if a scene was loaded
	Goto(id string) bool

	// HandleAction runs a hotspot action. It is meant to be the interaction hotspot callback.
	//
	// Parameters:
	//   - action: the payload of the clicked hotspot
	HandleAction(action config.Action)

	// Current returns the id of the loaded scene, or "" before Start.
	Current() string

	// Scenes returns the known scene ids in configuration order.
	Scenes() []string

	// Loading reports whether the current panorama is still loading.
	Loading() bool

	// Progress returns the load counters of the current batch.
	Progress() loader.Progress
}

var _ Manager = &manager{}

// NewManager creates a Manager over the given definitions. Later duplicates of an id are ignored.
//
// Parameters:
//   - s: the scene graph scenes are loaded into
//   - scenes: the scene definitions
//   - options: functional options to configure the manager
//
// Returns:
//   - Manager: the new manager
func NewManager(s scene.Scene, scenes []config.Scene, options ...ManagerOption) Manager {
	if s == nil {
		panic("transition: scene is required")
	}
	m := &manager{
		mu:     &sync.Mutex{},
		log:    logger.Nop(),
		scene:  s,
		scenes: make(map[string]config.Scene, len(scenes)),
	}
	for _, option := range options {
		option(m)
	}
	for _, def := range scenes {
		if _, dup := m.scenes[def.ID]; dup {
			m.log.Warnw("duplicate scene id ignored", "id", def.ID)
			continue
		}
		m.scenes[def.ID] = def
		m.order = append(m.order, def.ID)
	}
	return m
}

func (m *manager) Start(id string) error {
	if !m.Goto(id) {
		return fmt.Errorf("start scene %q not found", id)
	}
	return nil
}

func (m *manager) Goto(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	def, ok := m.scenes[id]
	if !ok {
		m.log.Warnw("scene not found, ignoring transition", "id", id, "current", m.current)
		return false
	}
	m.log.Infow("transition", "from", m.current, "to", id)
	m.scene.Load(def)
	m.current = id
	return true
}

func (m *manager) HandleAction(action config.Action) {
	switch action.Type {
	case config.ActionRedirect:
		m.Goto(action.NextScene)
	default:
		m.log.Warnw("unknown hotspot action", "type", action.Type)
	}
}

func (m *manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *manager) Scenes() []string {
	return append([]string(nil), m.order...)
}

func (m *manager) Loading() bool {
	if m.loading == nil {
		return false
	}
	return m.loading.Loading()
}

func (m *manager) Progress() loader.Progress {
	if m.loading == nil {
		return loader.Progress{}
	}
	return m.loading.Progress()
}
