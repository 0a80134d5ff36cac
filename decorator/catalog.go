package decorator

import (
	"errors"
	"fmt"
	"sort"
)

// Catalog is the ordered set of decorator definitions: built-ins first, in
// fixed priority order, then custom definitions in registration order.
//
// A Catalog must be fully assembled before the first Build call; it is
// treated as immutable afterward and tolerates concurrent reads.
type Catalog struct {
	builtins []Definition
	customs  []Definition
	names    map[string]struct{}
}

// NewCatalog creates a catalog from the given built-in definitions, ordered
// by their fixed priority (stable for equal priorities). Definition names
// must be unique.
func NewCatalog(builtins ...Definition) (*Catalog, error) {
	catalog := &Catalog{
		builtins: make([]Definition, 0, len(builtins)),
		names:    make(map[string]struct{}, len(builtins)),
	}

	for _, definition := range builtins {
		if err := catalog.checkDefinition(definition); err != nil {
			return nil, err
		}

		catalog.builtins = append(catalog.builtins, definition)
		catalog.names[definition.name] = struct{}{}
	}

	sort.SliceStable(catalog.builtins, func(i, j int) bool {
		return catalog.builtins[i].priority < catalog.builtins[j].priority
	})

	return catalog, nil
}

// RegisterCustom appends a user-supplied definition to the custom tail.
// Custom definitions are applied after all built-ins and therefore end up
// outermost in the chain, in reverse registration order.
func (c *Catalog) RegisterCustom(definition Definition) error {
	if err := c.checkDefinition(definition); err != nil {
		return err
	}

	c.customs = append(c.customs, definition)
	c.names[definition.name] = struct{}{}

	return nil
}

// Definitions returns all definitions in application order: built-ins by
// fixed priority, then customs in registration order. The returned slice is
// a copy; mutating it does not affect the catalog.
func (c *Catalog) Definitions() []Definition {
	definitions := make([]Definition, 0, len(c.builtins)+len(c.customs))
	definitions = append(definitions, c.builtins...)
	definitions = append(definitions, c.customs...)

	return definitions
}

func (c *Catalog) checkDefinition(definition Definition) error {
	if definition.name == "" {
		return ErrEmptyDecoratorName
	}

	if definition.wrap == nil {
		return errors.Join(ErrNilWrapFunc, fmt.Errorf("decorator %q", definition.name))
	}

	if _, exists := c.names[definition.name]; exists {
		return errors.Join(ErrDuplicateDecoratorName, fmt.Errorf("decorator %q", definition.name))
	}

	return nil
}
