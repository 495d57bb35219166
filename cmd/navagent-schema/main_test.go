package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/navagent/stream"
)

func decodeSchema(t *testing.T, message string) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, writeSchema(&buf, message))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	return doc
}

func propertyNames(t *testing.T, doc map[string]any) []string {
	t.Helper()
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok, "schema has no top-level properties")
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	return names
}

func TestSchemaState(t *testing.T) {
	doc := decodeSchema(t, stream.TypeState)

	assert.Equal(t, "object", doc["type"])
	assert.Subset(t, propertyNames(t, doc),
		[]string{"ver", "type", "tick", "elapsedMs", "query", "path", "agents", "metrics"})
}

func TestSchemaScene(t *testing.T) {
	doc := decodeSchema(t, stream.TypeScene)

	assert.Equal(t, "object", doc["type"])
	assert.ElementsMatch(t, []string{"ver", "type", "width", "height", "meshes"}, propertyNames(t, doc))
}

func TestSchemaUnknownMessage(t *testing.T) {
	var buf bytes.Buffer
	err := writeSchema(&buf, "frame")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errUnknownMessage))
	assert.Zero(t, buf.Len())
}
