package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Aman-s12345/express-openapi-generator/internal/analyzer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testConfig() Config {
	return Config{
		Title:       "Todo API",
		Version:     "1.0.0",
		Description: "Todo service",
	}
}

func objectOf(props ...analyzer.Property) *analyzer.Schema {
	return &analyzer.Schema{Type: analyzer.TypeObject, Properties: props}
}

func prop(name, typ string) analyzer.Property {
	return analyzer.Property{Name: name, Schema: &analyzer.Schema{Type: typ}}
}

func todoAnalysis() *analyzer.Analysis {
	todo := objectOf(prop("_id", "string"), prop("title", "string"), prop("completed", "boolean"))
	message := objectOf(prop("message", "string"))

	return &analyzer.Analysis{Routes: []analyzer.Route{
		{
			Method: "get",
			Path:   "/todos",
			Responses: analyzer.Responses{
				{Status: "500", Description: "Internal Server Error", Schema: message},
				{Status: "200", Description: "OK", Schema: &analyzer.Schema{Type: analyzer.TypeArray, Items: todo}},
			},
		},
		{
			Method: "post",
			Path:   "/todos",
			RequestBody: &analyzer.RequestBody{
				Properties: []analyzer.Property{prop("title", "string"), prop("completed", "boolean")},
				Required:   []string{"title"},
			},
			Responses: analyzer.Responses{
				{Status: "201", Description: "Created", Schema: todo},
				{Status: "400", Description: "Bad Request", Schema: message},
			},
		},
		{
			Method: "patch",
			Path:   "/todos/{id}",
			Parameters: []analyzer.Parameter{
				{Name: "id", In: "path", Required: true, Type: "string"},
			},
			Responses: analyzer.Responses{
				{Status: "404", Description: "Not Found", Schema: message},
				{Status: "200", Description: "OK", Schema: todo},
			},
		},
		{
			Method: "get",
			Path:   "/search",
			Parameters: []analyzer.Parameter{
				{Name: "q", In: "query", Required: false, Type: "string"},
				{Name: "page", In: "query", Required: false, Type: "integer"},
			},
			Responses: analyzer.Responses{
				{Status: "204", Description: "No Content"},
			},
		},
	}}
}

func TestGenerate(t *testing.T) {
	spec := New(testConfig(), nil).Generate(todoAnalysis())

	assert.Equal(t, "3.0.0", spec.OpenAPI)
	assert.Equal(t, Info{Title: "Todo API", Version: "1.0.0", Description: "Todo service"}, spec.Info)
	assert.Equal(t, []string{"/todos", "/todos/{id}", "/search"}, spec.Paths.Keys())

	todos, ok := spec.Paths.Get("/todos")
	require.True(t, ok)
	require.NotNil(t, todos.Get)
	require.NotNil(t, todos.Post)
	assert.Nil(t, todos.Put)

	assert.Equal(t, "GET /todos", todos.Get.Summary)
	assert.Equal(t, "gettodos", todos.Get.OperationID)
	assert.Equal(t, []string{"Todos"}, todos.Get.Tags)
	assert.Equal(t, []string{"200", "500"}, todos.Get.Responses.Keys())

	body := todos.Post.RequestBody
	require.NotNil(t, body)
	assert.True(t, body.Required)
	schema := body.Content["application/json"].Schema
	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"title", "completed"}, schema.Properties.Keys())
	assert.Equal(t, []string{"title"}, schema.Required)

	item, _ := spec.Paths.Get("/todos/{id}")
	require.NotNil(t, item.Patch)
	assert.Equal(t, "patchtodosid", item.Patch.OperationID)
	require.Len(t, item.Patch.Parameters, 1)
	assert.Equal(t, Parameter{Name: "id", In: "path", Required: true, Schema: Schema{Type: "string"}}, item.Patch.Parameters[0])

	search, _ := spec.Paths.Get("/search")
	require.NotNil(t, search.Get)
	assert.Equal(t, []string{"Search"}, search.Get.Tags)
	require.Len(t, search.Get.Parameters, 2)
	assert.Equal(t, "integer", search.Get.Parameters[1].Schema.Type)
	noContent, _ := search.Get.Responses.Get("204")
	assert.Equal(t, "No Content", noContent.Description)
	assert.Nil(t, noContent.Content)
}

func TestGenerateEmpty(t *testing.T) {
	g := New(testConfig(), nil)

	for _, analysis := range []*analyzer.Analysis{nil, {Routes: []analyzer.Route{}}} {
		spec := g.Generate(analysis)
		assert.Equal(t, 0, spec.Paths.Len())

		data, err := json.Marshal(spec)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"paths":{}`)
	}
}

func TestGenerateNeverEmptyResponses(t *testing.T) {
	spec := New(testConfig(), nil).Generate(&analyzer.Analysis{Routes: []analyzer.Route{
		{Method: "delete", Path: "/jobs/{id}", Parameters: []analyzer.Parameter{{Name: "id", In: "path", Required: true}}},
	}})

	item, _ := spec.Paths.Get("/jobs/{id}")
	require.NotNil(t, item.Delete)
	resp, ok := item.Delete.Responses.Get("200")
	require.True(t, ok)
	assert.Equal(t, "OK", resp.Description)
	assert.Equal(t, "object", resp.Content["application/json"].Schema.Type)
	assert.Equal(t, "string", item.Delete.Parameters[0].Schema.Type)
}

func TestGenerateDuplicateRoute(t *testing.T) {
	spec := New(testConfig(), nil).Generate(&analyzer.Analysis{Routes: []analyzer.Route{
		{Method: "get", Path: "/items", Responses: analyzer.Responses{{Status: "200", Description: "OK"}}},
		{Method: "get", Path: "/items", Responses: analyzer.Responses{{Status: "201", Description: "Created"}}},
		{Method: "trace", Path: "/items"},
	}})

	item, _ := spec.Paths.Get("/items")
	require.NotNil(t, item.Get)
	assert.Equal(t, []string{"200"}, item.Get.Responses.Keys())
	assert.Len(t, item.Operations(), 1)
}

func TestGenerateOperationIDCollision(t *testing.T) {
	spec := New(testConfig(), nil).Generate(&analyzer.Analysis{Routes: []analyzer.Route{
		{Method: "get", Path: "/a-b"},
		{Method: "get", Path: "/ab"},
		{Method: "get", Path: "/a_b"},
	}})

	var ids []string
	for _, path := range spec.Paths.Keys() {
		item, _ := spec.Paths.Get(path)
		ids = append(ids, item.Get.OperationID)
	}
	assert.Equal(t, []string{"getab", "getab_2", "getab_3"}, ids)
}

func TestGenerateTag(t *testing.T) {
	g := New(testConfig(), nil)

	tests := map[string]string{
		"/":              "default",
		"/todos":         "Todos",
		"/api/todo/{id}": "Todos",
		"/users/{id}":    "Users",
		"/products":      "Products",
		"/{slug}":        "Resources",
		"/health/live":   "Health",
	}
	for path, want := range tests {
		assert.Equal(t, want, g.generateTag(path), path)
	}
}

func TestOperationID(t *testing.T) {
	g := New(testConfig(), nil)
	assert.Equal(t, "gettodosid", g.operationID("GET", "/todos/{id}"))
	assert.Equal(t, "post", g.operationID("post", "/"))
}

func TestGenerateKeepsAnalyzedPath(t *testing.T) {
	spec := New(testConfig(), nil).Generate(&analyzer.Analysis{Routes: []analyzer.Route{
		{Method: "get", Path: "/files/{name}"},
	}})
	assert.Equal(t, []string{"/files/{name}"}, spec.Paths.Keys())
}

func TestValidateAndCleanSpec(t *testing.T) {
	g := New(testConfig(), nil)
	spec := g.Generate(todoAnalysis())

	require.NoError(t, g.ValidateAndCleanSpec(context.Background(), spec))
}

func TestValidatePathsReconcilesParameters(t *testing.T) {
	g := New(testConfig(), nil)
	spec := g.Generate(&analyzer.Analysis{Routes: []analyzer.Route{
		{
			Method: "get",
			Path:   "/orgs/{orgId}/members",
			Parameters: []analyzer.Parameter{
				{Name: "stale", In: "path", Required: true, Type: "string"},
				{Name: "role", In: "query", Type: "string"},
			},
		},
	}})

	g.validatePaths(spec)

	item, _ := spec.Paths.Get("/orgs/{orgId}/members")
	require.Len(t, item.Get.Parameters, 2)
	assert.Equal(t, "role", item.Get.Parameters[0].Name)
	assert.Equal(t, Parameter{Name: "orgId", In: "path", Required: true, Schema: Schema{Type: "string"}}, item.Get.Parameters[1])
}

func TestEncodeJSONKeepsOrder(t *testing.T) {
	spec := New(testConfig(), nil).Generate(todoAnalysis())

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, spec, "json"))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "{\n  \"openapi\": \"3.0.0\""))
	assert.Less(t, strings.Index(out, `"/todos"`), strings.Index(out, `"/search"`))
	assert.Less(t, strings.Index(out, `"200"`), strings.Index(out, `"500"`))
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestEncodeYAMLKeepsOrder(t *testing.T) {
	spec := New(testConfig(), nil).Generate(todoAnalysis())

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, spec, "yaml"))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "openapi: 3.0.0\n"))
	assert.Less(t, strings.Index(out, "/todos:"), strings.Index(out, "/search:"))
	assert.Less(t, strings.Index(out, "200"), strings.Index(out, "500"))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Todo API", decoded["info"].(map[string]interface{})["title"])
}

func TestEncodeIsDeterministic(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		var first, second bytes.Buffer
		require.NoError(t, Encode(&first, New(testConfig(), nil).Generate(todoAnalysis()), format))
		require.NoError(t, Encode(&second, New(testConfig(), nil).Generate(todoAnalysis()), format))
		assert.Equal(t, first.String(), second.String(), format)
	}
}

func TestEncodeUnsupportedFormat(t *testing.T) {
	spec := New(testConfig(), nil).Generate(nil)

	err := Encode(&bytes.Buffer{}, spec, "xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = WriteFile(t.TempDir(), spec, "toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.False(t, ValidFormat("xml"))
	assert.True(t, ValidFormat("yaml"))
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	spec := New(testConfig(), nil).Generate(todoAnalysis())

	path, err := WriteFile(dir, spec, "yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "openapi.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "operationId: gettodos")
}
