package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDoc_RegisteredAndValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "Temperature Compliance API", parsed.Info.Title)
	for _, p := range []string{
		"/health",
		"/api/v1/equipment/{id}/readings",
		"/api/v1/cooldowns/{id}/complete",
		"/api/v1/receiving/logs",
		"/api/v1/events",
		"/ws/cooldowns/{id}",
	} {
		assert.Contains(t, parsed.Paths, p)
	}
}

func TestSwaggerDoc_SensorEndpointDescribesGrading(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed struct {
		Paths map[string]map[string]struct {
			Description string `json:"description"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	post, ok := parsed.Paths["/api/v1/equipment/{id}/sensor-readings"]["post"]
	require.True(t, ok)
	assert.Contains(t, post.Description, "three consecutive out-of-range readings")
	assert.NotContains(t, post.Description, "spike")
}
