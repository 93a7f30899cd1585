package renderer

import (
	"github.com/Carmen-Shannon/oxy-visual/common"
	"github.com/Carmen-Shannon/oxy-visual/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// NodeHandle names a backend scene node. Node names are unique within a backend.
type NodeHandle string

// RenderBackend defines the scene-graph capabilities a visual consumes from the rendering engine:
// transform nodes, renderable attachments, named materials, hardware buffers and mesh resources.
//
// Every method that takes a NodeHandle returns ErrNodeNotFound (or a zero value) when the node
// does not exist; callers keep their own state consistent and treat those as recoverable.
type RenderBackend interface {
	// RootNode retrieves the root of the node tree.
	//
	// Returns:
	//   - NodeHandle: the root node
	RootNode() NodeHandle

	// HasNode reports whether a node with the given name exists.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - bool: true if the node exists
	HasNode(name string) bool

	// CreateNode creates a node under parent.
	//
	// Parameters:
	//   - name: the unique node name
	//   - parent: the parent node
	//
	// Returns:
	//   - NodeHandle: the new node
	//   - error: ErrNodeExists if the name is taken, ErrNodeNotFound if parent is unknown
	CreateNode(name string, parent NodeHandle) (NodeHandle, error)

	// DestroyNode removes a node from its parent, detaches its objects and deletes it.
	// Child nodes are orphaned, not destroyed.
	//
	// Parameters:
	//   - node: the node to destroy
	//
	// Returns:
	//   - error: ErrNodeNotFound if the node is unknown
	DestroyNode(node NodeHandle) error

	// ParentNode retrieves a node's parent.
	//
	// Parameters:
	//   - node: the node
	//
	// Returns:
	//   - NodeHandle: the parent
	//   - bool: false if the node is unknown or has no parent
	ParentNode(node NodeHandle) (NodeHandle, bool)

	// ChildNodes retrieves a node's children in insertion order.
	//
	// Parameters:
	//   - node: the node
	//
	// Returns:
	//   - []NodeHandle: the children
	ChildNodes(node NodeHandle) []NodeHandle

	// AddChild makes child a child of parent. The child must not already have a parent.
	//
	// Parameters:
	//   - parent: the new parent
	//   - child: the node to attach
	//
	// Returns:
	//   - error: ErrNodeHasParent, ErrNodeCycle or ErrNodeNotFound
	AddChild(parent, child NodeHandle) error

	// RemoveChild detaches child from parent, leaving child orphaned.
	//
	// Parameters:
	//   - parent: the current parent
	//   - child: the node to detach
	//
	// Returns:
	//   - error: ErrNodeNotFound if either node is unknown or child is not a child of parent
	RemoveChild(parent, child NodeHandle) error

	// RemoveAllChildren orphans every child of node.
	//
	// Parameters:
	//   - node: the node
	RemoveAllChildren(node NodeHandle)

	// AttachObject binds a renderable to a node. An attachment belongs to at most one node.
	//
	// Parameters:
	//   - node: the node
	//   - obj: the renderable
	//
	// Returns:
	//   - error: ErrAlreadyAttached or ErrNodeNotFound
	AttachObject(node NodeHandle, obj Attachment) error

	// DetachObject unbinds a renderable from a node.
	//
	// Parameters:
	//   - node: the node
	//   - obj: the renderable
	DetachObject(node NodeHandle, obj Attachment)

	// DetachAllObjects unbinds every renderable from a node.
	//
	// Parameters:
	//   - node: the node
	DetachAllObjects(node NodeHandle)

	// NumAttached retrieves the number of renderables bound to a node.
	//
	// Parameters:
	//   - node: the node
	//
	// Returns:
	//   - int: the attachment count
	NumAttached(node NodeHandle) int

	// Attached retrieves a bound renderable by index.
	//
	// Parameters:
	//   - node: the node
	//   - i: the attachment index
	//
	// Returns:
	//   - Attachment: the renderable, or nil if i is out of range
	Attached(node NodeHandle, i int) Attachment

	// SetPosition sets a node's position relative to its parent.
	SetPosition(node NodeHandle, pos mgl32.Vec3)

	// Position retrieves a node's position relative to its parent.
	Position(node NodeHandle) mgl32.Vec3

	// SetOrientation sets a node's orientation relative to its parent.
	SetOrientation(node NodeHandle, rot mgl32.Quat)

	// Orientation retrieves a node's orientation relative to its parent.
	Orientation(node NodeHandle) mgl32.Quat

	// SetScale sets a node's scale relative to its parent.
	SetScale(node NodeHandle, scale mgl32.Vec3)

	// Scale retrieves a node's scale relative to its parent.
	Scale(node NodeHandle) mgl32.Vec3

	// SetWorldPose places a node at an absolute pose by solving for the local pose under its parent chain.
	//
	// Parameters:
	//   - node: the node
	//   - pose: the absolute pose
	SetWorldPose(node NodeHandle, pose common.Pose)

	// WorldPose retrieves a node's pose composed up the parent chain.
	//
	// Parameters:
	//   - node: the node
	//
	// Returns:
	//   - common.Pose: the derived position and orientation
	WorldPose(node NodeHandle) common.Pose

	// WorldScale retrieves a node's scale composed up the parent chain.
	//
	// Parameters:
	//   - node: the node
	//
	// Returns:
	//   - mgl32.Vec3: the derived scale
	WorldScale(node NodeHandle) mgl32.Vec3

	// SetVisible sets the visibility of a node's attachments, and of its descendants' when cascade is set.
	//
	// Parameters:
	//   - node: the node
	//   - visible: the visibility flag
	//   - cascade: whether to recurse into child nodes
	SetVisible(node NodeHandle, visible, cascade bool)

	// SetAutoTracking makes node face target on every UpdateAutoTracking call.
	// A target that disappears silently disables tracking.
	//
	// Parameters:
	//   - node: the tracking node
	//   - enabled: whether tracking is enabled
	//   - target: the node to face
	SetAutoTracking(node NodeHandle, enabled bool, target NodeHandle)

	// AutoTrackTarget retrieves the node a tracking node faces.
	//
	// Parameters:
	//   - node: the tracking node
	//
	// Returns:
	//   - NodeHandle: the target
	//   - bool: false if tracking is disabled
	AutoTrackTarget(node NodeHandle) (NodeHandle, bool)

	// UpdateAutoTracking re-orients every tracking node toward its target.
	UpdateAutoTracking()

	// UpdateBounds refreshes the cached world bounds of a node's attachments.
	//
	// Parameters:
	//   - node: the node
	UpdateBounds(node NodeHandle)

	// Materials retrieves the material registry shared by every attachment of the backend.
	//
	// Returns:
	//   - material.Registry: the registry
	Materials() material.Registry

	// CreateVertexBuffer allocates a vertex buffer.
	//
	// Parameters:
	//   - vertexSize: bytes per vertex
	//   - count: number of vertices
	//   - usage: the buffer usage
	//
	// Returns:
	//   - HardwareBuffer: the buffer
	//   - error: error if allocation fails
	CreateVertexBuffer(vertexSize uint64, count int, usage BufferUsage) (HardwareBuffer, error)

	// CreateIndexBuffer allocates an index buffer.
	//
	// Parameters:
	//   - indexType: the index width
	//   - count: number of indices
	//   - usage: the buffer usage
	//
	// Returns:
	//   - HardwareBuffer: the buffer
	//   - error: error if allocation fails
	CreateIndexBuffer(indexType IndexType, count int, usage BufferUsage) (HardwareBuffer, error)

	// HasMeshResource reports whether a mesh resource exists.
	HasMeshResource(name string) bool

	// MeshResource retrieves a mesh resource by name.
	MeshResource(name string) (MeshResource, bool)

	// CreateManualMesh creates an empty mesh resource to be filled by the caller.
	//
	// Parameters:
	//   - name: the resource name
	//
	// Returns:
	//   - MeshResource: the new resource
	//   - error: ErrResourceExists if the name is taken
	CreateManualMesh(name string) (MeshResource, error)

	// DestroyMeshResource releases the buffers of a mesh resource and forgets its name.
	// Entities already created from the resource keep their reference.
	//
	// Parameters:
	//   - name: the resource name
	//
	// Returns:
	//   - bool: false if no resource has the name
	DestroyMeshResource(name string) bool

	// HasEntity reports whether an entity exists.
	HasEntity(name string) bool

	// Entity retrieves an entity by name.
	Entity(name string) (Entity, bool)

	// CreateEntity instantiates a mesh resource as a renderable entity.
	//
	// Parameters:
	//   - name: the unique entity name
	//   - meshName: the mesh resource to instantiate
	//
	// Returns:
	//   - Entity: the entity
	//   - error: ErrResourceExists or ErrResourceNotFound
	CreateEntity(name, meshName string) (Entity, error)

	// CreateDynamicLines creates a procedural line renderable.
	//
	// Parameters:
	//   - name: the unique object name
	//   - op: the primitive topology
	//
	// Returns:
	//   - DynamicLines: the line renderable
	//   - error: ErrResourceExists if the name is taken
	CreateDynamicLines(name string, op RenderOp) (DynamicLines, error)

	// CreateRibbonTrail creates a trail renderable.
	//
	// Parameters:
	//   - name: the unique object name
	//
	// Returns:
	//   - RibbonTrail: the trail
	//   - error: ErrResourceExists if the name is taken
	CreateRibbonTrail(name string) (RibbonTrail, error)

	// DestroyObject detaches a renderable from its node and forgets it.
	//
	// Parameters:
	//   - obj: the renderable
	DestroyObject(obj Attachment)
}

// StaticGeometryBuilder is implemented by backends that can bake a node subtree into static batches.
type StaticGeometryBuilder interface {
	// BuildStaticGeometry bakes the attachments under node into a static batch named name.
	//
	// Parameters:
	//   - name: the batch name
	//   - node: the subtree root
	//   - castShadows: the shadow flag of the batch
	//
	// Returns:
	//   - error: error if the batch cannot be built
	BuildStaticGeometry(name string, node NodeHandle, castShadows bool) error
}

// Attachment is a renderable bound to a node: a mesh entity, a procedural line set or a trail.
// Every variant accepts SetMaterialName so callers never inspect the concrete type.
type Attachment interface {
	// Name retrieves the unique object name.
	Name() string

	// MovableType retrieves the object kind, one of the MovableType constants.
	MovableType() string

	// MaterialName retrieves the material applied to the object.
	MaterialName() string

	// SetMaterialName applies a registered material to the whole object.
	SetMaterialName(name string)

	// Visible retrieves the object's visibility.
	Visible() bool

	// SetVisible sets the object's visibility.
	SetVisible(visible bool)

	// CastShadows retrieves the object's shadow flag.
	CastShadows() bool

	// SetCastShadows sets the object's shadow flag.
	SetCastShadows(cast bool)

	// RenderQueueGroup retrieves the object's render queue group.
	RenderQueueGroup() uint8

	// SetRenderQueueGroup sets the object's render queue group.
	SetRenderQueueGroup(group uint8)

	// Tag retrieves the user tag, the name of the visual that owns the object.
	Tag() string

	// SetTag sets the user tag.
	SetTag(tag string)

	// ParentNode retrieves the node the object is bound to.
	//
	// Returns:
	//   - NodeHandle: the node
	//   - bool: false if the object is detached
	ParentNode() (NodeHandle, bool)

	// LocalBounds retrieves the object-space bounds.
	LocalBounds() common.Box

	// WorldBoundingBox retrieves the world-space bounds cached by the last UpdateBounds of its node.
	WorldBoundingBox() common.Box
}

// MaterialCarrier is implemented by attachments whose sub-parts each carry a material
// that may be edited per pass.
type MaterialCarrier interface {
	// SubMaterials retrieves the resolved material of every sub-part in order.
	//
	// Returns:
	//   - []material.Material: the materials; unresolved names are skipped
	SubMaterials() []material.Material

	// NumSubMaterials retrieves the number of sub-parts.
	NumSubMaterials() int

	// SubMaterialName retrieves the material name of one sub-part, or "" when out of range.
	SubMaterialName(i int) string

	// SetSubMaterialName applies a registered material to one sub-part. Out of range indices are ignored.
	SetSubMaterialName(i int, name string)
}

// Entity is an instance of a mesh resource.
type Entity interface {
	Attachment
	MaterialCarrier

	// MeshName retrieves the instantiated mesh resource name.
	MeshName() string

	// NumSubEntities retrieves the number of sub-entities, one per submesh.
	NumSubEntities() int

	// SubEntityMaterialName retrieves the material name of one sub-entity.
	SubEntityMaterialName(i int) string
}

// DynamicLines is a procedural line renderable whose points may change every frame.
type DynamicLines interface {
	Attachment

	// RenderOp retrieves the primitive topology.
	RenderOp() RenderOp

	// AddPoint appends a point.
	AddPoint(p mgl32.Vec3)

	// SetPoint replaces a point, growing the list with zero points if needed.
	SetPoint(i int, p mgl32.Vec3)

	// Point retrieves a point, or the zero vector when out of range.
	Point(i int) mgl32.Vec3

	// PointCount retrieves the number of points.
	PointCount() int

	// Clear removes every point.
	Clear()

	// Update rebuilds the renderable from its points if they changed.
	Update()

	// Revision retrieves the number of rebuilds performed by Update.
	Revision() int
}

// RibbonTrail is a renderable that leaves a fading trail behind the nodes it follows.
type RibbonTrail interface {
	Attachment

	// SetTrailLength sets the trail length in world units.
	SetTrailLength(length float32)

	// TrailLength retrieves the trail length.
	TrailLength() float32

	// SetMaxChainElements sets the number of segments per chain.
	SetMaxChainElements(n int)

	// SetNumberOfChains sets the number of chains.
	SetNumberOfChains(n int)

	// SetInitialWidth sets the starting width of a chain.
	SetInitialWidth(chain int, width float32)

	// AddNode starts following a node.
	AddNode(node NodeHandle) error

	// RemoveNode stops following a node.
	RemoveNode(node NodeHandle)

	// ClearChain discards the recorded segments of a chain.
	ClearChain(chain int)

	// TrackedNodes retrieves the followed nodes.
	TrackedNodes() []NodeHandle
}

// MeshResource is a backend mesh built from submesh resources.
type MeshResource interface {
	// Name retrieves the resource name.
	Name() string

	// CreateSubMesh appends an empty submesh resource.
	CreateSubMesh() *SubMeshResource

	// NumSubMeshes retrieves the number of submesh resources.
	NumSubMeshes() int

	// SubMesh retrieves a submesh resource, or nil when out of range.
	SubMesh(i int) *SubMeshResource

	// SetBounds sets the object-space bounds.
	SetBounds(box common.Box)

	// Bounds retrieves the object-space bounds.
	Bounds() common.Box

	// Load marks the resource ready for instantiation.
	Load()

	// IsLoaded reports whether Load has been called.
	IsLoaded() bool
}

// SubMeshResource holds the buffers of one submesh on the backend.
type SubMeshResource struct {
	// Declaration describes the interleaved vertex layout of VertexBuffer.
	Declaration *VertexDeclaration

	VertexCount  int
	VertexBuffer HardwareBuffer

	IndexType   IndexType
	IndexCount  int
	IndexBuffer HardwareBuffer

	// MaterialName is the registered material applied to this submesh.
	MaterialName string
}
