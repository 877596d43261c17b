package resolver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type auditable struct {
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type entity struct {
	auditable
	ID int `attr:"id"`
}

type address struct {
	City   string `json:"city"`
	Street string
}

type person struct {
	entity
	Name    string   `attr:"name"`
	Address *address `json:"address"`
	Tags    map[string]string
	secret  string
}

type employee struct {
	*person
	Title string `json:"title"`
}

func newPerson() *person {
	return &person{
		entity: entity{
			auditable: auditable{CreatedAt: time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)},
			ID:        42,
		},
		Name:    "Ann",
		Address: &address{City: "Fairfield", Street: "N 4th St"},
		Tags:    map[string]string{"team": "platform"},
		secret:  "hidden",
	}
}

func TestResolve_MatchesManualWalk(t *testing.T) {
	r := New()
	p := newPerson()

	tests := []struct {
		name string
		path string
		want any
	}{
		{"own field by go name", "Name", p.Name},
		{"own field by attr tag", "name", p.Name},
		{"nested pointer field", "address.city", p.Address.City},
		{"nested field by go name", "Address.Street", p.Address.Street},
		{"ancestor field", "id", p.ID},
		{"ancestor of ancestor by json tag", "createdAt", "2024-03-05 14:07 PM"},
		{"map key", "Tags.team", "platform"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Resolve(p, tt.path)
			require.NoError(t, err)
			assert.Equal(t, KindValue, res.Kind)
			assert.Equal(t, tt.want, res.Value)
		})
	}
}

func TestResolve_EmbeddedPointerChain(t *testing.T) {
	r := New()
	e := employee{person: newPerson(), Title: "Engineer"}

	res, err := r.Resolve(e, "title")
	require.NoError(t, err)
	assert.Equal(t, "Engineer", res.Value)

	res, err = r.Resolve(e, "name")
	require.NoError(t, err)
	assert.Equal(t, "Ann", res.Value)

	res, err = r.Resolve(&e, "id")
	require.NoError(t, err)
	assert.Equal(t, 42, res.Value)
}

func TestResolve_NilEmbeddedPointerIsNull(t *testing.T) {
	r := New()
	e := employee{Title: "Contractor"}

	res, err := r.Resolve(e, "name")
	require.NoError(t, err)
	assert.Equal(t, KindNull, res.Kind)

	res, err = r.Resolve(e, "nickname")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)
}

func TestResolve_NullIntermediate(t *testing.T) {
	r := New()
	p := newPerson()
	p.Address = nil

	res, err := r.Resolve(p, "address.city")
	require.NoError(t, err)
	assert.True(t, res.IsNull())
	assert.NotEqual(t, KindNotFound, res.Kind)
	assert.NoError(t, res.Err())

	res, err = r.Resolve(nil, "anything")
	require.NoError(t, err)
	assert.True(t, res.IsNull())

	var typedNil *person
	res, err = r.Resolve(typedNil, "name")
	require.NoError(t, err)
	assert.True(t, res.IsNull())
}

func TestResolve_NullTerminal(t *testing.T) {
	r := New()
	res, err := r.Resolve(newPerson(), "updatedAt")
	require.NoError(t, err)
	assert.Equal(t, KindNull, res.Kind)
}

func TestResolve_FieldNotFound(t *testing.T) {
	r := New()

	res, err := r.Resolve(newPerson(), "missing")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)
	assert.Equal(t, "missing", res.Segment)
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, "*resolver.person", res.Type)
	assert.ErrorIs(t, res.Err(), ErrFieldNotFound)

	res, err = r.Resolve(newPerson(), "address.zip")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)
	assert.Equal(t, "zip", res.Segment)
	assert.Equal(t, 1, res.Index)

	var rerr *ResolutionError
	require.ErrorAs(t, res.Err(), &rerr)
	assert.Equal(t, "address.zip", rerr.Path)
}

type node struct {
	*node
	Value int
}

type cycleA struct {
	*cycleB
	A string
}

type cycleB struct {
	*cycleA
	B string
}

func TestResolve_RecursiveEmbeddingTerminates(t *testing.T) {
	tests := []struct {
		name      string
		root      any
		path      string
		wantKind  Kind
		wantValue any
	}{
		{name: "self embedding, missing field", root: node{Value: 1}, path: "missing", wantKind: KindNotFound},
		{name: "self embedding, own field", root: node{Value: 1, node: &node{Value: 2}}, path: "Value", wantKind: KindValue, wantValue: 1},
		{name: "self embedding chain, missing field", root: &node{node: &node{node: &node{}}}, path: "missing", wantKind: KindNotFound},
		{name: "mutual embedding, missing field", root: cycleA{A: "a"}, path: "missing", wantKind: KindNotFound},
		{name: "mutual embedding, field of partner", root: cycleA{A: "a", cycleB: &cycleB{B: "b"}}, path: "B", wantKind: KindValue, wantValue: "b"},
		{name: "mutual embedding, nil partner", root: cycleA{A: "a"}, path: "B", wantKind: KindNull},
		{name: "mutual embedding from the other side", root: &cycleB{B: "b", cycleA: &cycleA{A: "a"}}, path: "A", wantKind: KindValue, wantValue: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			type outcome struct {
				res Result
				err error
			}
			done := make(chan outcome, 1)
			go func() {
				res, err := New().Resolve(tt.root, tt.path)
				done <- outcome{res, err}
			}()

			select {
			case out := <-done:
				require.NoError(t, out.err)
				assert.Equal(t, tt.wantKind, out.res.Kind)
				if tt.wantKind == KindValue {
					assert.Equal(t, tt.wantValue, out.res.Value)
				}
			case <-time.After(3 * time.Second):
				t.Fatalf("Resolve(%T, %q) did not return within 3s", tt.root, tt.path)
			}
		})
	}
}

func TestResolve_SegmentOnScalar(t *testing.T) {
	r := New()
	res, err := r.Resolve(newPerson(), "name.length")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)
	assert.Equal(t, "string", res.Type)
}

func TestResolve_MalformedPath(t *testing.T) {
	r := New()
	for _, path := range []string{"", ".", "a.", ".a", "a..b"} {
		t.Run(fmt.Sprintf("%q", path), func(t *testing.T) {
			_, err := r.Resolve(newPerson(), path)
			assert.ErrorIs(t, err, ErrMalformedPath)
		})
	}
}

func TestResolve_UnexportedFieldIsAccessDenied(t *testing.T) {
	r := New()
	_, err := r.Resolve(newPerson(), "secret")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAccessDenied)

	var rerr *ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "secret", rerr.Segment)
}

func TestResolve_RulesFirstMatchWins(t *testing.T) {
	upper := TypeRule("upper", func(s string) any { return "<" + s + ">" })
	never := TypeRule("never", func(s string) any { return "unreachable" })

	r := New(WithRules(upper, never))
	res, err := r.Resolve(newPerson(), "name")
	require.NoError(t, err)
	assert.Equal(t, "<Ann>", res.Value)

	// time values pass through untouched without a time rule
	res, err = r.Resolve(newPerson(), "createdAt")
	require.NoError(t, err)
	assert.IsType(t, time.Time{}, res.Value)
}

func TestResolve_IdentityWithoutRules(t *testing.T) {
	r := New(WithRules())
	res, err := r.Resolve(newPerson(), "id")
	require.NoError(t, err)
	assert.Equal(t, 42, res.Value)
}

func TestTimeRule(t *testing.T) {
	morning := time.Date(2023, 12, 1, 9, 30, 0, 0, time.UTC)
	rule := TimeRule("")

	assert.True(t, rule.Match(morning))
	assert.True(t, rule.Match(&morning))
	assert.False(t, rule.Match((*time.Time)(nil)))
	assert.False(t, rule.Match("2023-12-01"))
	assert.Equal(t, "2023-12-01 09:30 AM", rule.Apply(morning))
	assert.Equal(t, "2023-12-01 09:30 AM", rule.Apply(&morning))

	r := New(WithDateLayout("02/01/2006"))
	res, err := r.Resolve(newPerson(), "createdAt")
	require.NoError(t, err)
	assert.Equal(t, "05/03/2024", res.Value)
}

type invoice struct {
	Number string
	Total  float64
}

type taxedInvoice struct {
	invoice
	Tax float64
}

var (
	invoiceSchema = NewSchema[invoice]().
			Field("number", func(i invoice) any { return i.Number }).
			Field("total", func(i invoice) any { return i.Total })

	taxedInvoiceSchema = Extend(
		NewSchema[taxedInvoice]().Field("tax", func(t taxedInvoice) any { return t.Tax }),
		invoiceSchema,
		func(t taxedInvoice) invoice { return t.invoice },
	)
)

func (t taxedInvoice) Attribute(name string) (any, bool) {
	return taxedInvoiceSchema.Attribute(t, name)
}

func TestResolve_Attributer(t *testing.T) {
	r := New()
	inv := taxedInvoice{invoice: invoice{Number: "INV-7", Total: 100}, Tax: 7.5}

	res, err := r.Resolve(inv, "tax")
	require.NoError(t, err)
	assert.Equal(t, 7.5, res.Value)

	res, err = r.Resolve(&inv, "number")
	require.NoError(t, err)
	assert.Equal(t, "INV-7", res.Value)

	// Go field names are not visible through an explicit schema
	res, err = r.Resolve(inv, "Number")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)

	res, err = r.Resolve(invoiceSchema.Bind(inv.invoice), "total")
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Value)

	assert.ElementsMatch(t, []string{"number", "total"}, invoiceSchema.Names())
}

func TestResolve_MapRoot(t *testing.T) {
	r := New()
	row := map[string]any{
		"customer": map[string]any{"name": "Bo"},
		"empty":    nil,
	}

	res, err := r.Resolve(row, "customer.name")
	require.NoError(t, err)
	assert.Equal(t, "Bo", res.Value)

	res, err = r.Resolve(row, "empty.name")
	require.NoError(t, err)
	assert.Equal(t, KindNull, res.Kind)

	res, err = r.Resolve(row, "vendor")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)

	res, err = r.Resolve(map[int]string{1: "x"}, "1")
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, res.Kind)
}

func TestDisplay(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := New(WithLogger(logger))
	ctx := context.Background()
	p := newPerson()

	assert.Equal(t, "Ann", r.Display(ctx, p, "name"))
	assert.Equal(t, "42", r.Display(ctx, p, "id"))
	assert.Equal(t, "2024-03-05 14:07 PM", r.Display(ctx, p, "createdAt"))
	assert.Equal(t, "", r.Display(ctx, p, "updatedAt"))
	assert.Equal(t, "", r.Display(ctx, p, "missing"))
	assert.Equal(t, "", r.Display(ctx, p, "secret"))
	assert.Equal(t, "", r.Display(ctx, p, "a..b"))

	logs := buf.String()
	assert.Contains(t, logs, "field not found")
	assert.Contains(t, logs, "attribute resolution failed")
	assert.Contains(t, logs, "malformed attribute path")
	assert.Contains(t, logs, `"component":"resolver"`)
}

func TestFormatValue(t *testing.T) {
	n := 3
	var nilPtr *int

	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "x", FormatValue("x"))
	assert.Equal(t, "3", FormatValue(&n))
	assert.Equal(t, "", FormatValue(nilPtr))
	assert.Equal(t, "1.5", FormatValue(1.5))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "boom", FormatValue(errors.New("boom")))
	assert.Equal(t, "1s", FormatValue(time.Second))
}

func TestResolve_ConcurrentCallsAreIndependent(t *testing.T) {
	r := New()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := newPerson()
			p.Name = fmt.Sprintf("person-%d", i)
			p.ID = i

			name, err := r.Resolve(p, "name")
			if err != nil {
				errs <- err
				return
			}
			id, err := r.Resolve(p, "id")
			if err != nil {
				errs <- err
				return
			}
			if name.Value != p.Name || id.Value != i {
				errs <- fmt.Errorf("goroutine %d saw %v/%v", i, name.Value, id.Value)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
