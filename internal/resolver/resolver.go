package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
)

// Resolver walks attribute paths over object graphs. It is immutable after New.
type Resolver struct {
	rules  []Rule
	logger *slog.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithRules replaces the transform rules. Passing no rules leaves values untouched.
func WithRules(rules ...Rule) Option {
	return func(r *Resolver) {
		r.rules = append([]Rule(nil), rules...)
	}
}

// WithDateLayout replaces the rules with a single TimeRule using layout
func WithDateLayout(layout string) Option {
	return WithRules(TimeRule(layout))
}

// WithLogger sets the logger used by Display for failed cells
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Resolver with DefaultRules unless options say otherwise
func New(opts ...Option) *Resolver {
	r := &Resolver{
		rules:  DefaultRules(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(slog.String("component", "resolver"))
	return r
}

// Resolve parses path and resolves it against root.
//
// A malformed path is returned as an error wrapping ErrMalformedPath before any
// lookup happens. A field that exists but cannot be read is returned as a
// *ResolutionError wrapping ErrAccessDenied. Missing attributes and nil values
// are not errors: they come back as KindNotFound and KindNull results.
func (r *Resolver) Resolve(root any, path string) (Result, error) {
	p, err := ParsePath(path)
	if err != nil {
		return Result{}, err
	}
	return r.ResolvePath(root, p)
}

// ResolvePath resolves an already parsed path against root.
func (r *Resolver) ResolvePath(root any, p Path) (Result, error) {
	if p.Len() == 0 {
		return Result{}, fmt.Errorf("%w: empty path", ErrMalformedPath)
	}

	current := root
	for i, seg := range p.segments {
		if isNil(current) {
			return null(), nil
		}

		raw, found, err := lookup(current, seg)
		if err != nil {
			return Result{}, &ResolutionError{
				Path:    p.String(),
				Segment: seg,
				Type:    typeName(current),
				Err:     err,
			}
		}
		if !found {
			return notFound(p, i, typeName(current)), nil
		}

		current = applyRules(r.rules, raw)
	}

	if isNil(current) {
		return null(), nil
	}
	return Result{Kind: KindValue, Value: current}, nil
}

// Display resolves path against root and renders the outcome as a table cell.
// Null and not-found results render as "". Malformed paths and access failures
// are logged and also render as "", so one bad cell never fails a whole table.
func (r *Resolver) Display(ctx context.Context, root any, path string) string {
	p, err := ParsePath(path)
	if err != nil {
		r.logger.WarnContext(ctx, "malformed attribute path",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return ""
	}
	return r.DisplayPath(ctx, root, p)
}

// DisplayPath is Display for an already parsed path.
func (r *Resolver) DisplayPath(ctx context.Context, root any, p Path) string {
	res, err := r.ResolvePath(root, p)
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, ErrMalformedPath) {
			level = slog.LevelWarn
		}
		r.logger.Log(ctx, level, "attribute resolution failed",
			slog.String("path", p.String()),
			slog.String("error", err.Error()))
		return ""
	}

	switch res.Kind {
	case KindNotFound:
		r.logger.DebugContext(ctx, "field not found",
			slog.String("path", res.Path),
			slog.String("segment", res.Segment),
			slog.String("type", res.Type))
		return ""
	case KindNull:
		return ""
	}
	return FormatValue(res.Value)
}

// FormatValue renders a resolved value as display text
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case error:
		return val.Error()
	}
	if isNil(v) {
		return ""
	}
	return fmt.Sprint(deref(reflect.ValueOf(v)).Interface())
}

// lookup finds name on a non-nil value. found is false when the value's type
// chain has no such attribute.
func lookup(v any, name string) (value any, found bool, err error) {
	if a, ok := v.(Attributer); ok {
		value, found = a.Attribute(name)
		return value, found, nil
	}

	rv := deref(reflect.ValueOf(v))
	if a, ok := asAttributer(rv); ok {
		value, found = a.Attribute(name)
		return value, found, nil
	}

	switch rv.Kind() {
	case reflect.Map:
		return lookupKey(rv, name)
	case reflect.Struct:
		return lookupField(rv, name)
	}
	return nil, false, nil
}

func asAttributer(rv reflect.Value) (Attributer, bool) {
	if !rv.IsValid() || !rv.CanInterface() {
		return nil, false
	}
	a, ok := rv.Interface().(Attributer)
	return a, ok
}

func lookupKey(m reflect.Value, name string) (any, bool, error) {
	keyType := m.Type().Key()
	if keyType.Kind() != reflect.String {
		return nil, false, nil
	}
	mv := m.MapIndex(reflect.ValueOf(name).Convert(keyType))
	if !mv.IsValid() {
		return nil, false, nil
	}
	return mv.Interface(), true, nil
}

// embedded is one struct in the ancestor chain. value is invalid when the
// struct sits behind a nil embedded pointer: its fields exist but hold no data.
type embedded struct {
	typ   reflect.Type
	value reflect.Value
}

// lookupField searches the struct's own fields first, then its embedded
// structs one embedding depth at a time, in declaration order. Each struct
// type is searched at most once, so self-embedding and mutually embedding
// types end the walk instead of repeating it.
func lookupField(sv reflect.Value, name string) (any, bool, error) {
	level := []embedded{{typ: sv.Type(), value: sv}}
	visited := map[reflect.Type]bool{sv.Type(): true}

	for len(level) > 0 {
		var next []embedded
		for _, e := range level {
			for i := 0; i < e.typ.NumField(); i++ {
				sf := e.typ.Field(i)
				if !fieldMatches(sf, name) {
					continue
				}
				if !e.value.IsValid() {
					return nil, true, nil
				}
				fv := e.value.Field(i)
				if !fv.CanInterface() {
					return nil, true, fmt.Errorf("%w: %s.%s is unexported", ErrAccessDenied, e.typ.Name(), sf.Name)
				}
				return fv.Interface(), true, nil
			}

			for i := 0; i < e.typ.NumField(); i++ {
				sf := e.typ.Field(i)
				if !sf.Anonymous {
					continue
				}
				ft := sf.Type
				if ft.Kind() == reflect.Pointer {
					ft = ft.Elem()
				}
				if ft.Kind() != reflect.Struct || visited[ft] {
					continue
				}
				visited[ft] = true
				var fv reflect.Value
				if e.value.IsValid() {
					fv = deref(e.value.Field(i))
				}
				next = append(next, embedded{typ: ft, value: fv})
			}
		}
		level = next
	}

	return nil, false, nil
}

// fieldMatches reports whether a struct field answers to name: its Go name,
// its `attr` tag, or its `json` tag name.
func fieldMatches(sf reflect.StructField, name string) bool {
	if sf.Name == name {
		return true
	}
	if tag, ok := sf.Tag.Lookup("attr"); ok && tag == name {
		return true
	}
	if tag, ok := sf.Tag.Lookup("json"); ok {
		if jsonName, _, _ := strings.Cut(tag, ","); jsonName != "" && jsonName != "-" && jsonName == name {
			return true
		}
	}
	return false
}

// deref follows pointers and interfaces. It returns the zero Value when it
// meets a nil.
func deref(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return !deref(rv).IsValid()
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}
