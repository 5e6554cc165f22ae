package retell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)
	assert.Len(t, templates, 3)
}

func TestPayloadTemplate_Render(t *testing.T) {
	tpl, err := parseTemplate("test", []byte(`
version: 1
payload:
  name: "{{name}} (Office Hours)"
  ids: "{{ids}}"
  optional: "{{optional}}"
  runtime: "{{current_time_America/{{place}}}}"
  list: ["{{optional}}", keep]
  nested:
    count: 3
`))
	require.NoError(t, err)

	out, err := tpl.render(vars{
		"name":     "Acme",
		"ids":      []string{"kb_1"},
		"optional": nil,
		"place":    "Denver",
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme (Office Hours)", out["name"])
	assert.Equal(t, []string{"kb_1"}, out["ids"])
	assert.NotContains(t, out, "optional")
	assert.Equal(t, "{{current_time_America/Denver}}", out["runtime"])
	assert.Equal(t, []any{"keep"}, out["list"])
	assert.Equal(t, 3, out["nested"].(map[string]any)["count"])

	// rendering again with other values must not see the first render
	again, err := tpl.render(vars{"name": "Beta", "ids": nil, "optional": "x", "place": "Chicago"})
	require.NoError(t, err)
	assert.Equal(t, "Beta (Office Hours)", again["name"])
	assert.Equal(t, "x", again["optional"])
	assert.NotContains(t, again, "ids")
}

func TestPayloadTemplate_UnboundPlaceholder(t *testing.T) {
	tpl, err := parseTemplate("test", []byte("version: 1\npayload:\n  agent: \"Bearer {{token}}\"\n"))
	require.NoError(t, err)

	_, err = tpl.render(vars{})
	assert.ErrorContains(t, err, "unbound placeholder {{token}}")
}

func TestParseTemplate_Invalid(t *testing.T) {
	_, err := parseTemplate("v2", []byte("version: 2\npayload: {}\n"))
	assert.ErrorContains(t, err, "unsupported version")

	_, err = parseTemplate("list", []byte("version: 1\npayload: [1, 2]\n"))
	assert.ErrorContains(t, err, "mapping")
}
