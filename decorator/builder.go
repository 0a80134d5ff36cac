package decorator

import (
	"errors"
	"fmt"
	"slices"
)

// Config carries the decoration switches supplied by the surrounding
// application before Build is invoked. The zero value disables decoration.
type Config struct {
	// Enabled is the global switch; when false every Build call returns the
	// real dataSource unchanged.
	Enabled bool

	// ExcludedNames lists resource names that must not be decorated.
	ExcludedNames []string
}

func (c Config) excludes(resourceName string) bool {
	return slices.Contains(c.ExcludedNames, resourceName)
}

// Build wraps the real dataSource with every available definition from the
// catalog, in application order, and returns the resulting composite.
//
// The real dataSource is returned unchanged when decoration is globally
// disabled, when resourceName is excluded, or when no definition produced a
// layer (empty catalog, all unavailable, or all declined) — a fully degraded
// chain is indistinguishable from no decoration.
//
// A wrap failure aborts decoration of this one resource and is reported with
// the resource and decorator names attached; other resources are unaffected.
func Build(resourceName string, real DataSource, catalog *Catalog, config Config) (DataSource, error) {
	if real == nil {
		return nil, ErrNilDataSource
	}

	if catalog == nil || !config.Enabled || config.excludes(resourceName) {
		return real, nil
	}

	type appliedLayer struct {
		name     string
		instance DataSource
	}

	current := real
	applied := make([]appliedLayer, 0)

	for _, definition := range catalog.Definitions() {
		if !definition.Available() {
			continue
		}

		next, wrapErr := definition.wrap(resourceName, current)
		if wrapErr != nil {
			return nil, errors.Join(
				ErrDecoratingDataSourceFailed,
				fmt.Errorf("resource %q, decorator %q: %w", resourceName, definition.name, wrapErr),
			)
		}

		if next == nil || next == current {
			continue // the definition declined this resource
		}

		applied = append(applied, appliedLayer{name: definition.name, instance: next})
		current = next
	}

	if len(applied) == 0 {
		return real, nil
	}

	entries := make([]ChainEntry, 0, len(applied)+1)
	for i := len(applied) - 1; i >= 0; i-- {
		entries = append(entries, ChainEntry{Name: applied[i].name, DataSource: applied[i].instance})
	}
	entries = append(entries, ChainEntry{Name: resourceName, DataSource: real})

	return newDecoratedDataSource(entries), nil
}
