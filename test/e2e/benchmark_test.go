package e2e_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonconv/internal/config"
	"github.com/mcncl/jsonconv/internal/decoder"
	"github.com/mcncl/jsonconv/internal/encoder"
	"github.com/mcncl/jsonconv/internal/rows"
	"github.com/mcncl/jsonconv/internal/value"
)

// generateNestedJSON creates a nested JSON structure with the specified depth and width
func generateNestedJSON(depth int, width int) map[string]any {
	if depth <= 0 {
		return map[string]any{
			"id":    1,
			"name":  "Leaf Node",
			"value": 42.5,
		}
	}

	result := make(map[string]any)
	result["id"] = depth
	result["name"] = fmt.Sprintf("Node at depth %d", depth)

	children := make([]any, width)
	for i := range children {
		children[i] = generateNestedJSON(depth-1, width)
	}
	result["children"] = children

	return result
}

// generateWideJSON creates a JSON object with many fields of mixed types
func generateWideJSON(fieldCount int) map[string]any {
	result := make(map[string]any)

	for i := 0; i < fieldCount; i++ {
		switch i % 5 {
		case 0:
			result[fmt.Sprintf("string_field_%d", i)] = fmt.Sprintf("value_%d", i)
		case 1:
			result[fmt.Sprintf("int_field_%d", i)] = i
		case 2:
			result[fmt.Sprintf("bool_field_%d", i)] = i%2 == 0
		case 3:
			result[fmt.Sprintf("float_field_%d", i)] = float64(i) + 0.5
		case 4:
			result[fmt.Sprintf("object_field_%d", i)] = map[string]any{
				"id":    i,
				"name":  fmt.Sprintf("Object %d", i),
				"value": i * 10,
			}
		}
	}

	return result
}

func mustMarshal(b *testing.B, v any) []byte {
	data, err := json.Marshal(v)
	require.NoError(b, err)
	return data
}

// BenchmarkDeepNesting benchmarks a decode and re-encode round trip of nested documents
func BenchmarkDeepNesting(b *testing.B) {
	depths := []struct {
		name  string
		depth int
		width int
	}{
		{"Depth3Width3", 3, 3},
		{"Depth5Width2", 5, 2},
		{"Depth2Width10", 2, 10},
	}

	cfg := config.NewConfig()
	dec := decoder.NewDecoder(cfg)
	enc := encoder.NewEncoder(cfg)

	for _, d := range depths {
		b.Run(d.name, func(b *testing.B) {
			data := mustMarshal(b, generateNestedJSON(d.depth, d.width))
			b.SetBytes(int64(len(data)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				tree, err := dec.Decode(data)
				require.NoError(b, err)
				_, err = enc.Encode(tree)
				require.NoError(b, err)
			}
		})
	}
}

// BenchmarkWideStructures benchmarks encoding of wide native maps, which need their keys sorted
func BenchmarkWideStructures(b *testing.B) {
	fieldCounts := []int{10, 100, 1000}

	enc := encoder.NewEncoder(config.NewConfig())

	for _, n := range fieldCounts {
		b.Run(fmt.Sprintf("Fields%d", n), func(b *testing.B) {
			doc := generateWideJSON(n)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				_, err := enc.Encode(doc)
				require.NoError(b, err)
			}
		})
	}
}

// BenchmarkArrayProcessing benchmarks decoding of large arrays
func BenchmarkArrayProcessing(b *testing.B) {
	sizes := []int{10, 1000, 10000}

	for _, useNumber := range []bool{false, true} {
		cfg := config.NewConfig()
		cfg.Decode.UseNumber = useNumber
		dec := decoder.NewDecoder(cfg)

		for _, size := range sizes {
			b.Run(fmt.Sprintf("Items%d/UseNumber=%t", size, useNumber), func(b *testing.B) {
				items := make([]any, size)
				for i := range items {
					items[i] = map[string]any{"id": i, "price": float64(i) * 1.25, "tag": "x"}
				}
				data := mustMarshal(b, items)
				b.SetBytes(int64(len(data)))
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					_, err := dec.Decode(data)
					require.NoError(b, err)
				}
			})
		}
	}
}

// BenchmarkRows benchmarks converting a CSV row stream to JSON
func BenchmarkRows(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("id,name,score,active\n")
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&sb, "%d,user %d,%d.5,%t\n", i, i, i, i%2 == 0)
	}
	csvText := sb.String()

	enc := encoder.NewEncoder(config.NewConfig())
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		src := rows.FromCSV(strings.NewReader(csvText), rows.CSVOptions{InferTypes: true})
		_, err := enc.EncodeRows(src)
		require.NoError(b, err)
	}
}

// BenchmarkMapping benchmarks encoding of an ordered mapping against a native map of the same size
func BenchmarkMapping(b *testing.B) {
	m := value.NewMapping()
	native := make(map[string]any)
	for i := 0; i < 500; i++ {
		key := fmt.Sprintf("key_%03d", i)
		m.Set(key, i)
		native[key] = i
	}

	enc := encoder.NewEncoder(config.NewConfig())

	b.Run("Mapping", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, err := enc.Encode(m)
			require.NoError(b, err)
		}
	})
	b.Run("NativeMap", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, err := enc.Encode(native)
			require.NoError(b, err)
		}
	})
}
