package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocIsValidJSON(t *testing.T) {
	var doc struct {
		Swagger string                     `json:"swagger"`
		Info    map[string]interface{}     `json:"info"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, SwaggerInfo.Title, doc.Info["title"])
	assert.Contains(t, doc.Paths, "/2015-03-31/functions/{function}/invocations")
	assert.Contains(t, doc.Paths, "/{path}")
}
