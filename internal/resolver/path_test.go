package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "single segment", input: "name", want: []string{"name"}},
		{name: "nested", input: "customer.address.city", want: []string{"customer", "address", "city"}},
		{name: "empty", input: "", wantErr: true},
		{name: "leading dot", input: ".name", wantErr: true},
		{name: "trailing dot", input: "name.", wantErr: true},
		{name: "double dot", input: "customer..city", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePath(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Segments())
			assert.Equal(t, len(tt.want), p.Len())
			assert.Equal(t, tt.input, p.String())
		})
	}
}

func TestPath_SegmentsIsACopy(t *testing.T) {
	p := MustParsePath("a.b")
	segs := p.Segments()
	segs[0] = "z"
	assert.Equal(t, "a.b", p.String())
	assert.Equal(t, "b", p.Last())
}

func TestMustParsePath_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParsePath("a..b") })
	assert.Equal(t, "", Path{}.Last())
}

func TestResolvePath_ZeroPath(t *testing.T) {
	_, err := New().ResolvePath(struct{}{}, Path{})
	assert.ErrorIs(t, err, ErrMalformedPath)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "value", KindValue.String())
	assert.Equal(t, "null", KindNull.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
