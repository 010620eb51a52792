package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonconv/internal/errors"
	"github.com/mcncl/jsonconv/internal/value"
)

func jsonBinding(t *testing.T) *JSON {
	t.Helper()
	b, ok := Lookup("Json")
	require.True(t, ok)
	j, ok := b.(*JSON)
	require.True(t, ok)
	return j
}

func TestLookup(t *testing.T) {
	_, ok := Lookup("Missing")
	assert.False(t, ok)

	a, _ := Lookup("Json")
	b, _ := Lookup("Json")
	assert.Same(t, a, b, "bindings are built once")
}

func TestGlobals_IsACopy(t *testing.T) {
	g := Globals()
	require.Contains(t, g, "Json")

	delete(g, "Json")
	g["Other"] = 1

	_, ok := Lookup("Json")
	assert.True(t, ok)
	_, ok = Lookup("Other")
	assert.False(t, ok)
}

func TestJSON_Stringify(t *testing.T) {
	j := jsonBinding(t)

	out, err := j.Stringify(value.MappingOf("name", "John", "surname", "Doe"))
	require.NoError(t, err)
	assert.Equal(t, `{"name":"John","surname":"Doe"}`, out)

	out, err = j.StringifyIndent([]any{"one", "two"}, 2)
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"one\",\n  \"two\"\n]", out)

	_, err = j.Stringify(true)
	assert.ErrorIs(t, err, errors.ErrNotValidJSONRoot)
}

func TestJSON_StringifyIndentReusesPrinters(t *testing.T) {
	j := jsonBinding(t)

	assert.Same(t, j.indentPrinter(4), j.indentPrinter(4))
	assert.NotSame(t, j.indentPrinter(2), j.indentPrinter(4))

	type item struct {
		ID int `json:"id"`
	}
	for _, indent := range []int{2, 2, 4} {
		out, err := j.StringifyIndent([]any{item{ID: 1}}, indent)
		require.NoError(t, err)
		pad := strings.Repeat(" ", indent)
		assert.Equal(t, "[\n"+pad+"{\n"+pad+pad+"\"id\": 1\n"+pad+"}\n]", out)
	}
}

func TestJSON_Parse(t *testing.T) {
	j := jsonBinding(t)

	v, err := j.Parse(`{"name": "John", "surname": "Doe"}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "surname"}, v.(*value.Mapping).Keys())

	_, err = j.Parse(`{'name': 'John'}`)
	assert.ErrorIs(t, err, errors.ErrParse)
}
