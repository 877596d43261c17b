// Package resolver resolves dotted attribute paths against arbitrary Go values.
//
// A table column is described by a path such as "customer.address.city". For each
// row the resolver walks the path one segment at a time:
//
//   - a nil value on the way ends the walk with a null result (no data, not an error)
//   - a struct is searched for a field named like the segment, first among its own
//     fields and then through its embedded structs, nearest embedding first
//   - a map with string keys is indexed by the segment
//   - a type implementing Attributer answers the lookup itself
//
// After each field read the value passes through an ordered list of transform rules.
// The first rule that matches rewrites the value; the built-in rule formats time.Time
// values with DefaultDateLayout.
//
// Core Components:
//
// Path: an immutable, parsed attribute path. Empty paths and empty segments are
// rejected with ErrMalformedPath.
//
// Result: the tagged outcome of a walk (value, null or not found).
//
// Schema: a declared per-type attribute table with an optional parent table, for
// types that prefer explicit lookups over reflection.
//
// Example usage:
//
//	r := resolver.New(resolver.WithLogger(logger))
//	res, err := r.Resolve(order, "customer.name")
//	if err != nil {
//		return err // malformed path or access failure
//	}
//	if res.Kind == resolver.KindNotFound {
//		// the row type has no such attribute
//	}
//
// A Resolver holds no mutable state and is safe for concurrent use.
package resolver
