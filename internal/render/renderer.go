package render

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/playmatatu/gameglass/internal/glass"
)

var ErrNodeLimit = errors.New("render node limit reached")

// Node is one mesh in the scene graph sent to viewers.
type Node struct {
	Handle   glass.Handle   `json:"handle"`
	Geometry glass.Geometry `json:"geometry"`
	Material glass.Material `json:"material"`
	Position [3]float64     `json:"position"`
	Rotation [3]float64     `json:"rotation"`
	Scale    float64        `json:"scale"`
}

// Frame is a full copy of the scene graph at one RenderFrame call.
type Frame struct {
	Seq   uint64 `json:"seq"`
	Nodes []Node `json:"nodes"`
}

// FrameSink receives frames. It is called on the simulation goroutine and must
// not block.
type FrameSink func(f Frame)

// SceneRenderer implements glass.Renderer by keeping a scene graph in memory
// and publishing it to a sink every Nth frame.
type SceneRenderer struct {
	nodes    map[glass.Handle]*Node
	next     glass.Handle
	maxNodes int
	every    uint64
	seq      uint64
	sink     FrameSink

	mu   sync.RWMutex
	last Frame
}

// NewSceneRenderer creates a renderer that publishes every `every` frames and
// refuses to hold more than maxNodes meshes (0 = unlimited).
func NewSceneRenderer(sink FrameSink, every, maxNodes int) *SceneRenderer {
	if every <= 0 {
		every = 1
	}
	return &SceneRenderer{
		nodes:    make(map[glass.Handle]*Node),
		maxNodes: maxNodes,
		every:    uint64(every),
		sink:     sink,
	}
}

func (r *SceneRenderer) Create(g glass.Geometry, m glass.Material) (glass.Handle, error) {
	if r.maxNodes > 0 && len(r.nodes) >= r.maxNodes {
		return 0, fmt.Errorf("%w: %d nodes", ErrNodeLimit, len(r.nodes))
	}
	r.next++
	r.nodes[r.next] = &Node{Handle: r.next, Geometry: g, Material: m, Scale: 1}
	return r.next, nil
}

func (r *SceneRenderer) SetPosition(h glass.Handle, x, y, z float64) {
	if n, ok := r.nodes[h]; ok {
		n.Position = [3]float64{x, y, z}
	}
}

func (r *SceneRenderer) SetRotation(h glass.Handle, x, y, z float64) {
	if n, ok := r.nodes[h]; ok {
		n.Rotation = [3]float64{x, y, z}
	}
}

func (r *SceneRenderer) SetScale(h glass.Handle, s float64) {
	if n, ok := r.nodes[h]; ok {
		n.Scale = s
	}
}

func (r *SceneRenderer) Remove(h glass.Handle) {
	delete(r.nodes, h)
}

// RenderFrame snapshots the scene graph and hands every Nth snapshot to the sink.
func (r *SceneRenderer) RenderFrame() {
	r.seq++
	frame := Frame{Seq: r.seq, Nodes: make([]Node, 0, len(r.nodes))}
	for _, n := range r.nodes {
		frame.Nodes = append(frame.Nodes, *n)
	}
	sort.Slice(frame.Nodes, func(i, j int) bool { return frame.Nodes[i].Handle < frame.Nodes[j].Handle })

	r.mu.Lock()
	r.last = frame
	r.mu.Unlock()

	if r.sink != nil && r.seq%r.every == 0 {
		r.sink(frame)
	}
}

// LastFrame returns the most recent frame. Safe for concurrent use.
func (r *SceneRenderer) LastFrame() Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// NodeCount is the number of live meshes.
func (r *SceneRenderer) NodeCount() int {
	return len(r.nodes)
}

// LogSink is a FrameSink for headless runs.
func LogSink(every uint64) FrameSink {
	return func(f Frame) {
		if every > 0 && f.Seq%every == 0 {
			log.Printf("[RENDER] frame=%d nodes=%d", f.Seq, len(f.Nodes))
		}
	}
}
