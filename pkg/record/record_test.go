package record_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/calculate/pkg/record"
)

type person struct {
	Name  string
	Value int
}

type tagged struct {
	Score   float64 `calc:"value"`
	Raw     float64 `json:"value"`
	Region  string  `json:"region,omitempty"`
	Ignored string  `json:"-"`
	secret  int
}

type station struct {
	ID    int `calc:"id,pk"`
	Name  string
	Value int
}

type identified struct {
	key   string
	Value int
}

func (i identified) PrimaryKey() any { return i.key }

type withGetter struct {
	Count int
}

func (w withGetter) Double() int { return w.Count * 2 }

func (w withGetter) Risky() (int, error) { return 0, errors.New("boom") }

type Base struct {
	Value int
}

type embedded struct {
	Base

	Extra string
}

type region string

func TestGet_Mapping(t *testing.T) {
	t.Parallel()

	rec := map[string]any{"name": "Joan", "value": 1}

	got, err := record.Get(rec, "value")
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	_, err = record.Get(rec, "missing")
	require.ErrorIs(t, err, record.ErrFieldNotFound)
}

func TestGet_TypedMapping(t *testing.T) {
	t.Parallel()

	rec := map[region]float64{"west": 2.5}

	got, err := record.Get(rec, "west")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, got, 1e-9)

	_, err = record.Get(rec, "east")
	require.ErrorIs(t, err, record.ErrFieldNotFound)
}

func TestGet_Object(t *testing.T) {
	t.Parallel()

	got, err := record.Get(person{Name: "Jane", Value: 2}, "value")
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	got, err = record.Get(&person{Name: "Jane", Value: 2}, "Name")
	require.NoError(t, err)
	assert.Equal(t, "Jane", got)

	_, err = record.Get(person{}, "age")
	require.ErrorIs(t, err, record.ErrFieldNotFound)
}

func TestGet_TagPrecedence(t *testing.T) {
	t.Parallel()

	rec := tagged{Score: 9, Raw: 1, Region: "west", Ignored: "x", secret: 3}

	got, err := record.Get(rec, "value")
	require.NoError(t, err)
	assert.InDelta(t, 9.0, got, 1e-9)

	got, err = record.Get(rec, "region")
	require.NoError(t, err)
	assert.Equal(t, "west", got)

	_, err = record.Get(rec, "ignored")
	require.ErrorIs(t, err, record.ErrFieldNotFound)

	_, err = record.Get(rec, "secret")
	require.ErrorIs(t, err, record.ErrFieldNotFound)
}

func TestGet_Getters(t *testing.T) {
	t.Parallel()

	got, err := record.Get(withGetter{Count: 4}, "double")
	require.NoError(t, err)
	assert.Equal(t, 8, got)

	_, err = record.Get(withGetter{}, "risky")
	require.EqualError(t, err, "boom")
}

func TestGet_PromotedField(t *testing.T) {
	t.Parallel()

	got, err := record.Get(embedded{Base: Base{Value: 5}}, "value")
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}

func TestGet_Errors(t *testing.T) {
	t.Parallel()

	_, err := record.Get(nil, "value")
	require.ErrorIs(t, err, record.ErrNilRecord)

	var nilPerson *person

	_, err = record.Get(nilPerson, "value")
	require.ErrorIs(t, err, record.ErrNilRecord)

	_, err = record.Get(42, "value")
	require.ErrorIs(t, err, record.ErrUnsupportedRecord)

	_, err = record.Get([]int{1}, "value")
	require.ErrorIs(t, err, record.ErrUnsupportedRecord)
}

func TestGet_EmptyNameOnObject(t *testing.T) {
	t.Parallel()

	// calc:",pk" carries no name and must not answer to "".
	type keyed struct {
		ID    int `calc:",pk"`
		Value int
	}

	_, err := record.Get(keyed{ID: 1, Value: 2}, "")
	require.ErrorIs(t, err, record.ErrFieldNotFound)
}

func TestGet_RecordInterface(t *testing.T) {
	t.Parallel()

	got, err := record.Get(record.Map{"value": 3}, "value")
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = record.Get(record.NewModel(&station{ID: 1, Value: 7}), "value")
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestShapeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		want  record.Shape
	}{
		{name: "map", input: map[string]any{}, want: record.ShapeMapping},
		{name: "map_adapter", input: record.Map{}, want: record.ShapeMapping},
		{name: "struct", input: person{}, want: record.ShapeObject},
		{name: "struct_pointer", input: &person{}, want: record.ShapeObject},
		{name: "pk_tag", input: &station{ID: 1}, want: record.ShapeModel},
		{name: "identified", input: identified{key: "a"}, want: record.ShapeModel},
		{name: "object_adapter", input: record.NewObject(person{}), want: record.ShapeObject},
		{name: "model_adapter", input: record.NewModel(person{}), want: record.ShapeModel},
		{name: "int", input: 1, want: record.ShapeUnknown},
		{name: "nil", input: nil, want: record.ShapeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, record.ShapeOf(tt.input))
		})
	}
}

func TestShape_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "mapping", record.ShapeMapping.String())
	assert.Equal(t, "model", record.ShapeModel.String())
	assert.Equal(t, "shape(9)", record.Shape(9).String())
}

func TestAdapt_SelectsModel(t *testing.T) {
	t.Parallel()

	adapted, err := record.Adapt(&station{ID: 3, Value: 1})
	require.NoError(t, err)

	model, ok := adapted.(record.Model)
	require.True(t, ok)

	pk, ok := model.PrimaryKey()
	require.True(t, ok)
	assert.Equal(t, 3, pk)

	adapted, err = record.Adapt(identified{key: "k"})
	require.NoError(t, err)

	pk, ok = adapted.(record.Model).PrimaryKey()
	require.True(t, ok)
	assert.Equal(t, "k", pk)

	_, ok = record.NewModel(person{}).PrimaryKey()
	assert.False(t, ok)
}

func TestFields(t *testing.T) {
	t.Parallel()

	got, err := record.Fields(tagged{Score: 1, Raw: 2, Region: "west", Ignored: "x"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"value": 1.0, "region": "west"}, got)

	got, err = record.Fields(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, got)

	got, err = record.Fields(record.NewObject(&person{Name: "Mary", Value: 2}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Name": "Mary", "Value": 2}, got)

	_, err = record.Fields(7)
	require.ErrorIs(t, err, record.ErrUnsupportedRecord)
}
