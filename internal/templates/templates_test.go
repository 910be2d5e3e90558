package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTemplate_Embedded(t *testing.T) {
	tmpl, err := GetTemplate("extraction", "")
	require.NoError(t, err)

	assert.NotEmpty(t, tmpl.Prompt)
	assert.Contains(t, tmpl.Prompt, "prescription")

	require.NotNil(t, tmpl.Schema)
	props, ok := tmpl.Schema["properties"].(map[string]interface{})
	require.True(t, ok, "schema should have a properties table")
	assert.Contains(t, props, "medicines")
	assert.Contains(t, props, "patient_info")
}

func TestGetTemplate_LookupPlaceholders(t *testing.T) {
	tmpl, err := GetTemplate("lookup", "")
	require.NoError(t, err)

	assert.Contains(t, tmpl.Prompt, "{{medicine_name}}")
	assert.Contains(t, tmpl.Prompt, "{{content}}")
}

func TestGetTemplate_NotFound(t *testing.T) {
	_, err := GetTemplate("nonexistent", "")
	assert.Error(t, err)
}

func TestGetTemplate_UserOverride(t *testing.T) {
	dir := t.TempDir()
	override := `prompt = "Custom prompt for {{medicine_name}}"`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lookup.toml"), []byte(override), 0644))

	tmpl, err := GetTemplate("lookup", dir)
	require.NoError(t, err)
	assert.Equal(t, "Custom prompt for {{medicine_name}}", tmpl.Prompt)

	// Other templates still resolve from the embedded set
	embedded, err := GetTemplate("extraction", dir)
	require.NoError(t, err)
	assert.Contains(t, embedded.Prompt, "prescription")
}

func TestRender(t *testing.T) {
	tmpl := &Template{Prompt: "Find {{medicine_name}} in: {{content}}"}

	result := tmpl.Render(map[string]string{
		"medicine_name": "Paracetamol",
		"content":       "page text",
	})

	assert.Equal(t, "Find Paracetamol in: page text", result)
}

func TestRender_MissingVariableLeftIntact(t *testing.T) {
	tmpl := &Template{Prompt: "Find {{medicine_name}}"}

	result := tmpl.Render(map[string]string{"other": "x"})
	assert.Equal(t, "Find {{medicine_name}}", result)
}

func TestListEmbeddedTemplates(t *testing.T) {
	names, err := ListEmbeddedTemplates()
	require.NoError(t, err)

	assert.Contains(t, names, "extraction")
	assert.Contains(t, names, "lookup")
}
