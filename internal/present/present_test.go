package present

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBody_TrimsArrays(t *testing.T) {
	got, err := Body([]byte(`{"ids":[1,2,3,4,5]}`), &Options{MaxArrayItems: 2})
	require.NoError(t, err)

	ids := got.(map[string]any)["ids"].([]any)
	assert.Equal(t, []any{float64(1), float64(2), "... (3 more items)"}, ids)
}

func TestBody_TruncatesStrings(t *testing.T) {
	got, err := Body([]byte(`{"memo":"`+strings.Repeat("x", 12)+`"}`), &Options{MaxStringLen: 5})
	require.NoError(t, err)
	assert.Equal(t, "xxxxx... (7 more chars)", got.(map[string]any)["memo"])
}

func TestBody_FlattensFields(t *testing.T) {
	body := `{"records":[{"name":{"type":"SINGLE_LINE_TEXT","value":"Alice"},
		"tags":{"type":"CHECK_BOX","value":["a","b"]},
		"$id":{"type":"__ID__","value":"7"}}],"totalCount":"1"}`

	got, err := Body([]byte(body), &Options{FlattenFields: true})
	require.NoError(t, err)

	rec := got.(map[string]any)["records"].([]any)[0].(map[string]any)
	assert.Equal(t, "Alice", rec["name"])
	assert.Equal(t, []any{"a", "b"}, rec["tags"])
	assert.Equal(t, "7", rec["$id"])
	assert.Equal(t, "1", got.(map[string]any)["totalCount"])
}

func TestBody_KeepsNonFieldObjects(t *testing.T) {
	got, err := Body([]byte(`{"code":"GAIA_RE01","message":"x","type":"t"}`), &Options{FlattenFields: true})
	require.NoError(t, err)
	assert.Len(t, got.(map[string]any), 3)
}

func TestBody_MaxDepth(t *testing.T) {
	got, err := Body([]byte(`{"a":{"b":{"c":1}}}`), &Options{MaxDepth: 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": map[string]any{"b": "[max depth]"}}, got)
}

func TestBody_EmptyAndInvalid(t *testing.T) {
	got, err := Body(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = Body([]byte("{bad"), nil)
	assert.Error(t, err)
}
