package resolver

// Kind tags the outcome of a path walk
type Kind int

const (
	// KindValue means every segment resolved to a non-nil value.
	KindValue Kind = iota
	// KindNull means the path is valid but a value on the way (or at the end) is nil.
	KindNull
	// KindNotFound means a segment names no attribute on the value it was applied to.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindNull:
		return "null"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of resolving a Path against a root value.
type Result struct {
	Kind  Kind
	Value any

	// Set for KindNotFound: the full path, the segment that failed with its
	// position, and the type it was looked up on.
	Path    string
	Segment string
	Index   int
	Type    string
}

// IsNull reports whether the path resolved to no data
func (r Result) IsNull() bool {
	return r.Kind == KindNull
}

// Found reports whether the path resolved to a value
func (r Result) Found() bool {
	return r.Kind == KindValue
}

// Err returns a *ResolutionError wrapping ErrFieldNotFound for a KindNotFound
// result, and nil otherwise.
func (r Result) Err() error {
	if r.Kind != KindNotFound {
		return nil
	}
	return &ResolutionError{
		Path:    r.Path,
		Segment: r.Segment,
		Type:    r.Type,
		Err:     ErrFieldNotFound,
	}
}

func null() Result {
	return Result{Kind: KindNull}
}

func notFound(p Path, index int, typeName string) Result {
	return Result{
		Kind:    KindNotFound,
		Path:    p.String(),
		Segment: p.segments[index],
		Index:   index,
		Type:    typeName,
	}
}
