package event

import "sync"

// Occurrence names recorded by the bus.
const (
	OccDispatched      = "dispatched"
	OccUnknownKind     = "unknown_kind"
	OccHandlerError    = "handler_error"
	OccEffectScheduled = "effect_scheduled"
	OccDropped         = "dropped"
)

// Occurrence is something notable the bus did: name + event kind, the trace
// id of the top-level dispatch and optional fields.
type Occurrence struct {
	Name   string
	Kind   Kind
	Trace  string
	Fields map[string]any
}

// Publisher receives occurrences from the bus. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type Publisher interface {
	Publish(Occurrence)
}

// noopPublisher is the default; it drops occurrences.
type noopPublisher struct{}

func (noopPublisher) Publish(Occurrence) {}

// MemoryPublisher stores occurrences in memory.
type MemoryPublisher struct {
	mu   sync.Mutex
	occs []Occurrence
}

func NewMemoryPublisher() *MemoryPublisher { return &MemoryPublisher{} }

func (p *MemoryPublisher) Publish(o Occurrence) {
	p.mu.Lock()
	p.occs = append(p.occs, o)
	p.mu.Unlock()
}

// Occurrences returns a copy of everything recorded so far.
func (p *MemoryPublisher) Occurrences() []Occurrence {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Occurrence, len(p.occs))
	copy(out, p.occs)
	return out
}

// Count returns how many occurrences named name were recorded for kind.
// An empty kind matches every kind.
func (p *MemoryPublisher) Count(name string, kind Kind) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, o := range p.occs {
		if o.Name == name && (kind == "" || o.Kind == kind) {
			n++
		}
	}
	return n
}
