package ax

import (
	"fmt"
	"regexp"
	"strconv"
)

// Point 二维坐标点
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// At 按下标访问 (0: X, 1: Y)
func (p Point) At(i int) float64 {
	return pair(p.X, p.Y, i)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Size 尺寸
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// At 按下标访问 (0: Width, 1: Height)
func (s Size) At(i int) float64 {
	return pair(s.Width, s.Height, i)
}

func (s Size) String() string {
	return fmt.Sprintf("(%g, %g)", s.Width, s.Height)
}

// Range 文本区间
type Range struct {
	Location float64 `json:"location" yaml:"location"`
	Length   float64 `json:"length" yaml:"length"`
}

// At 按下标访问 (0: Location, 1: Length)
func (r Range) At(i int) float64 {
	return pair(r.Location, r.Length, i)
}

func (r Range) String() string {
	return fmt.Sprintf("(%g, %g)", r.Location, r.Length)
}

// Rect 矩形
type Rect struct {
	Origin Point `json:"origin" yaml:"origin"`
	Size   Size  `json:"size" yaml:"size"`
}

// Center 矩形中心点
func (r Rect) Center() Point {
	return Point{X: r.Origin.X + r.Size.Width/2, Y: r.Origin.Y + r.Size.Height/2}
}

func pair(a, b float64, i int) float64 {
	switch i {
	case 0:
		return a
	case 1:
		return b
	default:
		panic(fmt.Sprintf("下标越界: %d", i))
	}
}

var (
	structBodyRe  = regexp.MustCompile(`\{value = (.*?)\s*type = (kAXValue\w+)\}`)
	structFieldRe = regexp.MustCompile(`(\w+):\s*(-?[0-9.]+(?:[eE][-+]?[0-9]+)?)`)
)

var structTypeNames = map[string]StructType{
	"kAXValueCGPointType": StructPoint,
	"kAXValueCGSizeType":  StructSize,
	"kAXValueCGRectType":  StructRect,
	"kAXValueCFRangeType": StructRange,
}

// parseStructRepr 从原生结构的描述文本中解析类型和字段
func parseStructRepr(repr string) (StructType, []float64, error) {
	m := structBodyRe.FindStringSubmatch(repr)
	if m == nil {
		return StructUnknown, nil, fmt.Errorf("%w: 无法识别的结构描述 %q", ErrConversion, repr)
	}
	typ, ok := structTypeNames[m[2]]
	if !ok {
		return StructUnknown, nil, fmt.Errorf("%w: 未知结构类型 %s", ErrConversion, m[2])
	}

	var fields []float64
	for _, f := range structFieldRe.FindAllStringSubmatch(m[1], -1) {
		v, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			return StructUnknown, nil, fmt.Errorf("%w: 字段 %s: %v", ErrConversion, f[1], err)
		}
		fields = append(fields, v)
	}
	return typ, fields, nil
}

// convertStruct 将打包结构转换为 Point/Size/Range/Rect
func convertStruct(raw RawStruct) (any, error) {
	typ, fields := raw.Type, raw.Fields
	if len(fields) == 0 {
		parsedType, parsed, err := parseStructRepr(raw.Repr)
		if err != nil {
			return nil, err
		}
		if typ == StructUnknown {
			typ = parsedType
		}
		fields = parsed
	}

	want := 2
	if typ == StructRect {
		want = 4
	}
	if len(fields) != want {
		return nil, fmt.Errorf("%w: %s 需要 %d 个字段, 实际 %d", ErrConversion, typ, want, len(fields))
	}

	switch typ {
	case StructPoint:
		return Point{X: fields[0], Y: fields[1]}, nil
	case StructSize:
		return Size{Width: fields[0], Height: fields[1]}, nil
	case StructRange:
		return Range{Location: fields[0], Length: fields[1]}, nil
	case StructRect:
		return Rect{
			Origin: Point{X: fields[0], Y: fields[1]},
			Size:   Size{Width: fields[2], Height: fields[3]},
		}, nil
	default:
		return nil, fmt.Errorf("%w: 未知结构类型 %s", ErrConversion, typ)
	}
}

// Convert 将原生属性值转换为 Go 值
//
// 元素引用包装为 *Element，数组逐项递归转换，打包结构转换为
// Point/Size/Range/Rect，整数统一为 int64，浮点统一为 float64，其余原样返回
func (s *System) Convert(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case RawElement:
		return s.Wrap(v.Ref), nil
	case *RawElement:
		return s.Wrap(v.Ref), nil
	case []any:
		out := make([]any, 0, len(v))
		for i, item := range v {
			c, err := s.Convert(item)
			if err != nil {
				return nil, fmt.Errorf("数组第 %d 项: %w", i, err)
			}
			out = append(out, c)
		}
		return out, nil
	case RawStruct:
		return convertStruct(v)
	case *RawStruct:
		return convertStruct(*v)
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float32:
		return float64(v), nil
	default:
		return raw, nil
	}
}

// unconvert 将 Go 值转换回原生值，用于写属性
func unconvert(v any) any {
	switch x := v.(type) {
	case *Element:
		if x == nil {
			return nil
		}
		return RawElement{Ref: x.ref}
	case Point:
		return RawStruct{Type: StructPoint, Fields: []float64{x.X, x.Y}}
	case Size:
		return RawStruct{Type: StructSize, Fields: []float64{x.Width, x.Height}}
	case Range:
		return RawStruct{Type: StructRange, Fields: []float64{x.Location, x.Length}}
	case Rect:
		return RawStruct{Type: StructRect, Fields: []float64{x.Origin.X, x.Origin.Y, x.Size.Width, x.Size.Height}}
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = unconvert(item)
		}
		return out
	case int:
		return int64(x)
	default:
		return v
	}
}
