package encoder

import (
	"reflect"
	"strings"

	"github.com/mcncl/jsonconv/internal/value"
)

type fieldInfo struct {
	name      string
	index     []int
	depth     int
	omitEmpty bool
}

// structFields lists the encodable fields of a struct value, in declaration order.
func (e *Encoder) structFields(rv reflect.Value) []value.Field {
	infos := e.cachedFields(rv.Type())

	out := make([]value.Field, 0, len(infos))
	for _, info := range infos {
		fv, err := rv.FieldByIndexErr(info.index)
		if err != nil {
			// nil embedded pointer
			continue
		}
		if info.omitEmpty && isEmptyValue(fv) {
			continue
		}
		out = append(out, value.Field{Name: info.name, Value: fv.Interface()})
	}
	return out
}

func (e *Encoder) cachedFields(t reflect.Type) []fieldInfo {
	if cached, ok := e.fields.Load(t); ok {
		return cached.([]fieldInfo)
	}
	infos := dominantFields(e.typeFields(t, nil, 0, map[reflect.Type]bool{}))
	actual, _ := e.fields.LoadOrStore(t, infos)
	return actual.([]fieldInfo)
}

// typeFields follows the encoding/json rules: `json:"-"` skips a field, a tag name
// replaces the field name, untagged embedded structs are flattened. An embedded type
// that is already being expanded further up the chain contributes no fields.
func (e *Encoder) typeFields(t reflect.Type, parent []int, depth int, expanding map[reflect.Type]bool) []fieldInfo {
	expanding[t] = true
	defer delete(expanding, t)

	var out []fieldInfo
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		index := make([]int, len(parent)+1)
		copy(index, parent)
		index[len(parent)] = i

		if sf.Anonymous {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if name == "" && ft.Kind() == reflect.Struct {
				if !expanding[ft] {
					out = append(out, e.typeFields(ft, index, depth+1, expanding)...)
				}
				continue
			}
		}
		if !sf.IsExported() || e.cfg.ShouldSkipField(sf.Name) {
			continue
		}
		if name == "" {
			name = e.cfg.FieldName(sf.Name)
		}
		out = append(out, fieldInfo{
			name:      name,
			index:     index,
			depth:     depth,
			omitEmpty: hasOption(opts, "omitempty"),
		})
	}
	return out
}

// dominantFields drops fields hidden by a shallower field of the same name.
// The surviving field keeps the position of the first occurrence.
func dominantFields(fields []fieldInfo) []fieldInfo {
	pos := make(map[string]int, len(fields))
	out := make([]fieldInfo, 0, len(fields))
	for _, f := range fields {
		if i, seen := pos[f.name]; seen {
			if f.depth < out[i].depth {
				out[i] = f
			}
			continue
		}
		pos[f.name] = len(out)
		out = append(out, f)
	}
	return out
}

func hasOption(opts, option string) bool {
	for opts != "" {
		var current string
		current, opts, _ = strings.Cut(opts, ",")
		if current == option {
			return true
		}
	}
	return false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
