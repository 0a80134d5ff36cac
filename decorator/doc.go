// Package decorator provides the core engine for wrapping pooled SQL
// DataSources with an ordered chain of instrumentation decorators.
//
// A real connection pool (see the sqlpool subpackage) is wrapped by zero or
// more decorator layers, each addressing one cross-cutting concern such as
// query logging, call proxying, or adaptive pool metrics. Consumers keep
// using the DataSource capability interface; the chain is transparent for
// every capability call and fully introspectable through the composite.
//
// Key types:
//   - DataSource: the capability contract shared by real pools, decorator
//     layers, and the composite
//   - Definition: one named, orderable decorator with an availability
//     predicate and a wrap function
//   - Catalog: the ordered set of built-in and custom definitions
//   - DecoratedDataSource: the composite produced by Build
//
// Common usage pattern:
//
//	catalog, err := decorator.NewCatalog(
//		spylog.Definition(logger),
//		callproxy.Definition(listener),
//		poolmetrics.Definition(collector),
//	)
//	if err != nil {
//		// handle error
//	}
//
//	dataSource, err := decorator.Build("dataSource", realPool, catalog, decorator.Config{Enabled: true})
//	if err != nil {
//		// handle error
//	}
//
//	conn, err := dataSource.Connection(ctx)
package decorator
