package ax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoeyai/zoeyax/pkg/ax"
	"github.com/zoeyai/zoeyax/pkg/ax/mock"
)

func TestConvertScalars(t *testing.T) {
	sys := ax.New(mock.New(), nil, nil)

	tests := []struct {
		name string
		raw  any
		want any
	}{
		{"nil", nil, nil},
		{"string", "hello", "hello"},
		{"bool", true, true},
		{"int", 7, int64(7)},
		{"int32", int32(-3), int64(-3)},
		{"int64", int64(9), int64(9)},
		{"float32", float32(1.5), float64(1.5)},
		{"float64", 2.25, 2.25},
		{"list", []any{1, 2, 3, 4}, []any{int64(1), int64(2), int64(3), int64(4)}},
		{"empty list", []any{}, []any{}},
		{"nested list", []any{"a", []any{int32(1)}}, []any{"a", []any{int64(1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sys.Convert(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertStructs(t *testing.T) {
	sys := ax.New(mock.New(), nil, nil)

	tests := []struct {
		name string
		raw  ax.RawStruct
		want any
	}{
		{
			name: "point fields",
			raw:  ax.RawStruct{Type: ax.StructPoint, Fields: []float64{10, 20}},
			want: ax.Point{X: 10, Y: 20},
		},
		{
			name: "size fields",
			raw:  ax.RawStruct{Type: ax.StructSize, Fields: []float64{640, 480}},
			want: ax.Size{Width: 640, Height: 480},
		},
		{
			name: "range fields",
			raw:  ax.RawStruct{Type: ax.StructRange, Fields: []float64{3, 5}},
			want: ax.Range{Location: 3, Length: 5},
		},
		{
			name: "rect fields",
			raw:  ax.RawStruct{Type: ax.StructRect, Fields: []float64{1, 2, 3, 4}},
			want: ax.Rect{Origin: ax.Point{X: 1, Y: 2}, Size: ax.Size{Width: 3, Height: 4}},
		},
		{
			name: "point repr",
			raw: ax.RawStruct{
				Repr: "<AXValue 0x7f8 [kCFAllocatorDefault]>{value = x:10.000000 y:-20.500000 type = kAXValueCGPointType}",
			},
			want: ax.Point{X: 10, Y: -20.5},
		},
		{
			name: "range repr",
			raw: ax.RawStruct{
				Repr: "<AXValue 0x7f8 [kCFAllocatorDefault]>{value = location:0 length:12 type = kAXValueCFRangeType}",
			},
			want: ax.Range{Location: 0, Length: 12},
		},
		{
			name: "rect repr",
			raw: ax.RawStruct{
				Repr: "<AXValue 0x7f8 [kCFAllocatorDefault]>{value = x:0.000000 y:25.000000 w:1440.000000 h:875.000000 type = kAXValueCGRectType}",
			},
			want: ax.Rect{Origin: ax.Point{X: 0, Y: 25}, Size: ax.Size{Width: 1440, Height: 875}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sys.Convert(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertStructErrors(t *testing.T) {
	sys := ax.New(mock.New(), nil, nil)

	tests := []struct {
		name string
		raw  ax.RawStruct
	}{
		{"garbage repr", ax.RawStruct{Repr: "not a value"}},
		{"unknown type", ax.RawStruct{Repr: "{value = x:1 y:2 type = kAXValueAXErrorType}"}},
		{"wrong field count", ax.RawStruct{Type: ax.StructRect, Fields: []float64{1, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sys.Convert(tt.raw)
			assert.ErrorIs(t, err, ax.ErrConversion)
		})
	}
}

func TestConvertElement(t *testing.T) {
	native := mock.New()
	sys := ax.New(native, nil, nil)
	node := mock.NewNode(ax.RoleButton)

	got, err := sys.Convert(ax.RawElement{Ref: node})
	require.NoError(t, err)

	el, ok := got.(*ax.Element)
	require.True(t, ok)
	assert.True(t, el.Equal(sys.Wrap(node)))

	list, err := sys.Convert([]any{ax.RawElement{Ref: node}, "x"})
	require.NoError(t, err)
	items := list.([]any)
	require.Len(t, items, 2)
	assert.IsType(t, &ax.Element{}, items[0])
	assert.Equal(t, "x", items[1])
}

func TestPairAccess(t *testing.T) {
	p := ax.Point{X: 3, Y: 4}
	assert.Equal(t, 3.0, p.At(0))
	assert.Equal(t, 4.0, p.At(1))
	assert.Panics(t, func() { p.At(2) })

	s := ax.Size{Width: 5, Height: 6}
	assert.Equal(t, 6.0, s.At(1))

	r := ax.Range{Location: 7, Length: 8}
	assert.Equal(t, 7.0, r.At(0))

	rect := ax.Rect{Origin: ax.Point{X: 10, Y: 10}, Size: ax.Size{Width: 20, Height: 40}}
	assert.Equal(t, ax.Point{X: 20, Y: 30}, rect.Center())
}
