package resolver

// Attributer is implemented by values that answer attribute lookups themselves.
// The resolver calls Attribute instead of reflecting over the value.
type Attributer interface {
	Attribute(name string) (value any, ok bool)
}

// Schema is a declared attribute table for values of type T. Lookups check the
// table first and then delegate to the parent schema, if one was attached with
// Extend. Build schemas once at startup; they are read-only afterwards.
//
//	var baseSchema = resolver.NewSchema[Base]().
//		Field("id", func(b Base) any { return b.ID })
//
//	var orderSchema = resolver.Extend(
//		resolver.NewSchema[Order]().Field("total", func(o Order) any { return o.Total }),
//		baseSchema,
//		func(o Order) Base { return o.Base },
//	)
//
//	func (o Order) Attribute(name string) (any, bool) { return orderSchema.Attribute(o, name) }
type Schema[T any] struct {
	fields map[string]func(T) any
	parent func(T, string) (any, bool)
}

// NewSchema creates an empty schema for T
func NewSchema[T any]() *Schema[T] {
	return &Schema[T]{fields: make(map[string]func(T) any)}
}

// Field declares an attribute and its getter. A later declaration of the same
// name replaces the earlier one.
func (s *Schema[T]) Field(name string, get func(T) any) *Schema[T] {
	s.fields[name] = get
	return s
}

// Attribute looks name up on v, delegating to the parent schema when the
// table does not declare it.
func (s *Schema[T]) Attribute(v T, name string) (any, bool) {
	if get, ok := s.fields[name]; ok {
		return get(v), true
	}
	if s.parent != nil {
		return s.parent(v, name)
	}
	return nil, false
}

// Names returns the attribute names declared directly on s
func (s *Schema[T]) Names() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	return names
}

// Extend attaches parent as the fallback table of child. up projects a child
// value onto the parent type, typically by returning an embedded struct.
func Extend[T, P any](child *Schema[T], parent *Schema[P], up func(T) P) *Schema[T] {
	child.parent = func(v T, name string) (any, bool) {
		return parent.Attribute(up(v), name)
	}
	return child
}

// Bind returns an Attributer answering lookups on v through s
func (s *Schema[T]) Bind(v T) Attributer {
	return bound[T]{schema: s, value: v}
}

type bound[T any] struct {
	schema *Schema[T]
	value  T
}

func (b bound[T]) Attribute(name string) (any, bool) {
	return b.schema.Attribute(b.value, name)
}
