package decorator

// Fixed priorities of the built-in decorators. A lower priority is applied
// earlier and therefore ends up closer to the real pool, so the chain read
// outer-to-inner is query logging, call proxy, pool metrics, real pool.
const (
	PriorityPoolMetrics = 10
	PriorityCallProxy   = 20
	PriorityQueryLog    = 30
)

// AvailabilityFunc reports whether a decorator's backing implementation is
// usable in the current runtime. It is evaluated once per Build and must be
// side-effect-free and idempotent. A nil predicate means always available.
type AvailabilityFunc func() bool

// WrapFunc produces the next layer around previous for the named resource.
// Returning previous unchanged (or nil with a nil error) declines decoration
// for this resource; no chain node is added.
type WrapFunc func(resourceName string, previous DataSource) (DataSource, error)

// Definition is one named, orderable decorator: how to produce one wrapping
// layer given the previous one, gated by an availability predicate.
type Definition struct {
	name      string
	priority  int
	available AvailabilityFunc
	wrap      WrapFunc
}

// NewDefinition creates a decorator definition. The priority only orders
// built-in definitions passed to NewCatalog; custom definitions registered
// via RegisterCustom are always applied after all built-ins, in registration
// order, regardless of their priority.
func NewDefinition(name string, priority int, available AvailabilityFunc, wrap WrapFunc) Definition {
	return Definition{
		name:      name,
		priority:  priority,
		available: available,
		wrap:      wrap,
	}
}

// Name returns the unique identifier of this definition, used for exclusion
// matching and chain rendering.
func (d Definition) Name() string {
	return d.name
}

// Priority returns the relative application priority of this definition.
func (d Definition) Priority() int {
	return d.priority
}

// Available evaluates the availability predicate.
func (d Definition) Available() bool {
	return d.available == nil || d.available()
}
