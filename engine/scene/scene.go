package scene

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-visual/engine/descriptor"
	"github.com/Carmen-Shannon/oxy-visual/engine/event"
	"github.com/Carmen-Shannon/oxy-visual/engine/loader"
	"github.com/Carmen-Shannon/oxy-visual/engine/mesh"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-visual/engine/visual"
	"github.com/Carmen-Shannon/oxy-visual/internal/logger"
	"go.uber.org/zap"
)

var (
	// ErrUnnamedMessage is returned for messages without a target visual name.
	ErrUnnamedMessage = errors.New("message has no visual name")

	// ErrParentNotFound is returned when a message names a parent that does not exist yet.
	ErrParentNotFound = errors.New("parent visual not found")
)

// stalledMessageTicks is the number of ProcessMessages passes a message may wait for its
// parent before the wait is logged.
const stalledMessageTicks = 60

// scene is the implementation of the Scene interface.
type scene struct {
	name   string
	active atomic.Bool

	backend     renderer.RenderBackend
	store       loader.MeshStore
	uploader    mesh.Uploader
	instancer   material.Instancer
	shaders     shader.Coordinator
	bus         event.Bus
	castShadows bool
	preload     []string

	// frameMu serialises message application and frame callbacks.
	frameMu sync.Mutex

	queueMu sync.Mutex
	queue   []*descriptor.Message

	// waits counts the passes each deferred message has waited for its parent; frameMu.
	waits map[*descriptor.Message]int

	regMu    sync.RWMutex
	nextID   atomic.Uint64
	registry map[uint64]visual.Visual
	// byName also holds message names that resolved to a suffixed visual name.
	byName map[string]uint64
	selected uint64

	root visual.Visual
}

// Scene owns a tree of visuals on one render backend and the collaborators they share.
// It implements visual.Context, so visuals are constructed directly against it.
//
// Messages queued from any goroutine are applied by ProcessMessages on the frame goroutine;
// ProcessMessages and PreRender never overlap.
type Scene interface {
	visual.Context

	// Name returns the scene's identifier.
	Name() string

	// Active returns whether the scene is processed by the engine loop.
	Active() bool

	// SetActive sets whether the scene is processed by the engine loop.
	SetActive(active bool)

	// Root retrieves the visual every top-level visual hangs off.
	//
	// Returns:
	//   - visual.Visual: the root visual
	Root() visual.Visual

	// Visual retrieves a registered visual by its unique name.
	//
	// Parameters:
	//   - name: the visual name
	//
	// Returns:
	//   - visual.Visual: the visual
	//   - bool: false if no registered visual has the name
	Visual(name string) (visual.Visual, bool)

	// Count returns the number of registered visuals, the root included.
	//
	// Returns:
	//   - int: the count
	Count() int

	// CreateVisual creates a visual under a named parent, or under the root when parent is "".
	//
	// Parameters:
	//   - name: the requested name
	//   - parent: the parent visual name
	//   - options: visual builder options
	//
	// Returns:
	//   - visual.Visual: the visual
	//   - error: ErrParentNotFound
	CreateVisual(name, parent string, options ...visual.VisualBuilderOption) (visual.Visual, error)

	// RemoveVisual destroys a visual and all of its descendants.
	//
	// Parameters:
	//   - name: the visual name
	//
	// Returns:
	//   - bool: false if no visual has the name or it names the root
	RemoveVisual(name string) bool

	// QueueMessage stores a message for the next ProcessMessages call. Safe for concurrent use.
	//
	// Parameters:
	//   - msg: the message
	QueueMessage(msg *descriptor.Message)

	// QueueMessages decodes a YAML message stream and queues every message in order.
	//
	// Parameters:
	//   - data: the YAML stream
	//
	// Returns:
	//   - error: the decode error; nothing is queued on error
	QueueMessages(data []byte) error

	// ProcessMessages applies the queued messages in order. Unknown visual names create the
	// visual under its parent; messages whose parent does not exist yet stay queued, and a
	// message still waiting after many passes is logged. When the created visual had to take
	// a suffixed name, later messages for the requested name keep addressing it.
	//
	// Returns:
	//   - int: the number of messages applied
	ProcessMessages() int

	// PreRender fires the bus pre-render event and re-orients tracking visuals.
	PreRender()

	// SetSelected marks a visual as selected; "" clears the selection.
	//
	// Parameters:
	//   - name: the visual name
	SetSelected(name string)

	// Selected retrieves the selected visual.
	//
	// Returns:
	//   - visual.Visual: the selection
	//   - bool: false if nothing is selected or the selection was destroyed
	Selected() (visual.Visual, bool)

	// Snapshot encodes the descriptors of every visual except the root, in creation order.
	//
	// Returns:
	//   - []byte: the YAML document
	//   - error: error if encoding fails
	Snapshot() ([]byte, error)

	// Restore creates one root-level visual per descriptor of a snapshot document.
	//
	// Parameters:
	//   - data: the YAML document
	//
	// Returns:
	//   - []visual.Visual: the created visuals in document order
	//   - error: the decode error, or the joined load errors
	Restore(data []byte) ([]visual.Visual, error)

	// Close destroys every visual and stops the mesh store's worker pool.
	Close()
}

var _ Scene = &scene{}

// NewScene creates a new Scene on a render backend. A nil store is replaced by a store
// holding only the procedural primitives.
//
// Parameters:
//   - backend: the render backend
//   - store: the mesh store
//   - options: functional options for scene configuration
//
// Returns:
//   - Scene: the scene
func NewScene(backend renderer.RenderBackend, store loader.MeshStore, options ...SceneBuilderOption) Scene {
	s := &scene{
		name:        "default",
		backend:     backend,
		store:       store,
		castShadows: true,
		registry:    make(map[uint64]visual.Visual),
		byName:      make(map[string]uint64),
		waits:       make(map[*descriptor.Message]int),
	}
	s.active.Store(true)
	for _, option := range options {
		option(s)
	}
	if s.store == nil {
		s.store = loader.NewMeshStore()
	}
	if s.bus == nil {
		s.bus = event.NewBus()
	}
	if s.shaders == nil {
		s.shaders = shader.NewCoordinator()
	}
	s.uploader = mesh.NewUploader(backend)
	s.instancer = material.NewInstancer(backend.Materials())

	if len(s.preload) > 0 {
		if err := s.store.Preload(context.Background(), s.preload...); err != nil {
			logger.Log.Warn("mesh preload failed", zap.String("scene", s.name), zap.Error(err))
		}
	}
	s.root = visual.NewRootVisual(s, s.name)
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	return s.active.Load()
}

func (s *scene) SetActive(active bool) {
	s.active.Store(active)
}

func (s *scene) Backend() renderer.RenderBackend {
	return s.backend
}

func (s *scene) MeshStore() loader.MeshStore {
	return s.store
}

func (s *scene) Uploader() mesh.Uploader {
	return s.uploader
}

func (s *scene) Instancer() material.Instancer {
	return s.instancer
}

func (s *scene) Shaders() shader.Coordinator {
	return s.shaders
}

func (s *scene) Bus() event.Bus {
	return s.bus
}

func (s *scene) NextVisualID() uint64 {
	return s.nextID.Add(1)
}

func (s *scene) Register(v visual.Visual) {
	s.regMu.Lock()
	defer s.regMu.Unlock()
	s.registry[v.ID()] = v
	s.byName[v.Name()] = v.ID()
}

func (s *scene) Unregister(v visual.Visual) {
	s.regMu.Lock()
	defer s.regMu.Unlock()
	delete(s.registry, v.ID())
	for name, id := range s.byName {
		if id == v.ID() {
			delete(s.byName, name)
		}
	}
	if s.selected == v.ID() {
		s.selected = 0
	}
}

func (s *scene) Lookup(id uint64) (visual.Visual, bool) {
	s.regMu.RLock()
	defer s.regMu.RUnlock()
	v, ok := s.registry[id]
	return v, ok
}

func (s *scene) CastShadowsDefault() bool {
	return s.castShadows
}

func (s *scene) Root() visual.Visual {
	return s.root
}

func (s *scene) Visual(name string) (visual.Visual, bool) {
	s.regMu.RLock()
	defer s.regMu.RUnlock()
	id, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	v, ok := s.registry[id]
	return v, ok
}

func (s *scene) Count() int {
	s.regMu.RLock()
	defer s.regMu.RUnlock()
	return len(s.registry)
}

func (s *scene) CreateVisual(name, parent string, options ...visual.VisualBuilderOption) (visual.Visual, error) {
	p := s.root
	if parent != "" {
		var ok bool
		if p, ok = s.Visual(parent); !ok {
			return nil, fmt.Errorf("%s: %w", parent, ErrParentNotFound)
		}
	}
	return visual.NewVisual(s, name, p, options...), nil
}

func (s *scene) RemoveVisual(name string) bool {
	v, ok := s.Visual(name)
	if !ok || v.ID() == s.root.ID() {
		return false
	}
	destroyTree(v)
	return true
}

// destroyTree destroys descendants before their ancestors.
func destroyTree(v visual.Visual) {
	for _, c := range v.Children() {
		destroyTree(c)
	}
	v.Destroy()
}

func (s *scene) QueueMessage(msg *descriptor.Message) {
	if msg == nil {
		return
	}
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	s.queue = append(s.queue, msg)
}

func (s *scene) QueueMessages(data []byte) error {
	msgs, err := descriptor.UnmarshalMessages(data)
	if err != nil {
		return err
	}
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	s.queue = append(s.queue, msgs...)
	return nil
}

func (s *scene) ProcessMessages() int {
	s.queueMu.Lock()
	pending := s.queue
	s.queue = nil
	s.queueMu.Unlock()
	if len(pending) == 0 {
		return 0
	}

	s.frameMu.Lock()
	applied := 0
	var deferred []*descriptor.Message
	for _, msg := range pending {
		err := s.apply(msg)
		switch {
		case errors.Is(err, ErrParentNotFound):
			deferred = append(deferred, msg)
			s.waits[msg]++
			if s.waits[msg] == stalledMessageTicks {
				logger.Log.Warn("visual message is waiting for its parent",
					zap.String("visual", msg.Name),
					zap.String("parent", msg.Parent),
					zap.Int("passes", stalledMessageTicks))
			}
			continue
		case err != nil:
			logger.Log.Warn("failed to apply visual message", zap.String("visual", msg.Name), zap.Error(err))
		}
		delete(s.waits, msg)
		applied++
	}
	s.frameMu.Unlock()

	if len(deferred) > 0 {
		s.queueMu.Lock()
		s.queue = append(deferred, s.queue...)
		s.queueMu.Unlock()
	}
	return applied
}

func (s *scene) apply(msg *descriptor.Message) error {
	if msg.Name == "" {
		return ErrUnnamedMessage
	}
	if msg.Delete {
		s.RemoveVisual(msg.Name)
		return nil
	}
	v, ok := s.Visual(msg.Name)
	if !ok {
		var err error
		if v, err = s.CreateVisual(msg.Name, msg.Parent); err != nil {
			return err
		}
		if v.Name() != msg.Name {
			s.regMu.Lock()
			s.byName[msg.Name] = v.ID()
			s.regMu.Unlock()
			logger.Log.Warn("visual name is taken by a backend node",
				zap.String("requested", msg.Name),
				zap.String("visual", v.Name()))
		}
	}
	return v.LoadFromMessage(msg)
}

func (s *scene) PreRender() {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	s.bus.FirePreRender()
	s.backend.UpdateAutoTracking()
}

func (s *scene) SetSelected(name string) {
	var id uint64
	if name != "" {
		if v, ok := s.Visual(name); ok {
			id = v.ID()
		}
	}
	s.regMu.Lock()
	s.selected = id
	s.regMu.Unlock()
}

func (s *scene) Selected() (visual.Visual, bool) {
	s.regMu.RLock()
	id := s.selected
	s.regMu.RUnlock()
	if id == 0 {
		return nil, false
	}
	return s.Lookup(id)
}

// visuals returns every registered visual except the root, ordered by ID.
func (s *scene) visuals() []visual.Visual {
	s.regMu.RLock()
	defer s.regMu.RUnlock()
	out := make([]visual.Visual, 0, len(s.registry))
	for id, v := range s.registry {
		if id != s.root.ID() {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (s *scene) Snapshot() ([]byte, error) {
	all := s.visuals()
	descs := make([]*descriptor.Descriptor, len(all))
	for i, v := range all {
		descs[i] = v.Descriptor()
	}
	return descriptor.MarshalDocument(descs)
}

func (s *scene) Restore(data []byte) ([]visual.Visual, error) {
	descs, err := descriptor.UnmarshalDocument(data)
	if err != nil {
		return nil, err
	}
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	out := make([]visual.Visual, 0, len(descs))
	var errs []error
	for _, d := range descs {
		v := visual.NewVisual(s, d.Name, s.root)
		if err := v.LoadDescriptor(d); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name, err))
		}
		out = append(out, v)
	}
	return out, errors.Join(errs...)
}

func (s *scene) Close() {
	s.frameMu.Lock()
	all := s.visuals()
	for i := len(all) - 1; i >= 0; i-- {
		all[i].Destroy()
	}
	s.root.Destroy()
	clear(s.waits)
	s.frameMu.Unlock()
	s.store.Close()
}
