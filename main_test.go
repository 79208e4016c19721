package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Aman-s12345/express-openapi-generator/internal/analyzer"
	"github.com/Aman-s12345/express-openapi-generator/internal/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routesSource = `
const express = require('express');
const router = express.Router();

router.get('/', async (req, res) => {
  try {
    const todos = await Todo.find();
    res.json(todos);
  } catch (err) {
    res.status(500).json({ message: err.message });
  }
});

router.get('/search', (req, res) => {
  const { q } = req.query;
  res.json({ results: [] });
});

router.patch('/:id', async (req, res) => {
  const todo = await Todo.findById(req.params.id);
  if (!todo) return res.status(404).json({ message: 'Todo not found' });
  res.json(todo);
});

module.exports = router;
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	if args == nil {
		args = []string{}
	}
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todos.js")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestRunWritesDocument(t *testing.T) {
	input := writeSource(t, routesSource)
	outDir := t.TempDir()

	stdout, _, err := execute(t, input, "json", "--output-dir", outDir, "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Found 3 routes:")
	assert.Contains(t, stdout, "  GET / (0 params)\n")
	assert.Contains(t, stdout, "  GET /search (1 params) + query\n")
	assert.Contains(t, stdout, "  PATCH /{id} (1 params)\n")

	data, err := os.ReadFile(filepath.Join(outDir, "openapi.json"))
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "3.0.0", doc["openapi"])
	paths := doc["paths"].(map[string]interface{})
	assert.Contains(t, paths, "/")
	assert.Contains(t, paths, "/{id}")
}

func TestRunYAML(t *testing.T) {
	input := writeSource(t, routesSource)
	outDir := t.TempDir()

	_, _, err := execute(t, input, "yaml", "--output-dir", outDir, "--log-level", "error")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "openapi.yaml"))
}

func TestRunInputErrors(t *testing.T) {
	input := writeSource(t, routesSource)

	_, _, err := execute(t)
	assert.Error(t, err)

	_, _, err = execute(t, input, "xml", "--output-dir", t.TempDir())
	assert.ErrorContains(t, err, "unsupported format")

	_, _, err = execute(t, filepath.Join(t.TempDir(), "missing.js"), "--output-dir", t.TempDir())
	assert.ErrorContains(t, err, "does not exist")
}

func TestRunMalformedSource(t *testing.T) {
	input := writeSource(t, "const router = express.Router();\nrouter.get('/', (req, res => {\n")
	outDir := t.TempDir()

	stdout, stderr, err := execute(t, input, "--output-dir", outDir, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Error parsing")
	assert.Contains(t, stdout, "Found 0 routes:")

	data, err := os.ReadFile(filepath.Join(outDir, "openapi.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"paths": {}`)
}

func TestPrintSummary(t *testing.T) {
	spec := generator.New(generator.Config{Title: "API", Version: "1.0.0"}, nil).Generate(&analyzer.Analysis{Routes: []analyzer.Route{
		{Method: "delete", Path: "/todos/{id}", Parameters: []analyzer.Parameter{{Name: "id", In: "path", Required: true}}},
		{Method: "get", Path: "/todos", Parameters: []analyzer.Parameter{{Name: "q", In: "query"}}},
		{Method: "delete", Path: "/todos/{id}"},
	}})

	var buf bytes.Buffer
	printSummary(&buf, spec)
	assert.Equal(t, "Found 2 routes:\n  DELETE /todos/{id} (1 params)\n  GET /todos (1 params) + query\n", buf.String())
}

func TestRunSummarySkipsDuplicateRoutes(t *testing.T) {
	input := writeSource(t, `
const express = require('express');
const app = express();

app.get('/ping', (req, res) => res.send('pong'));
app.get('/ping', (req, res) => res.json({ ok: true }));
app.post('/ping', (req, res) => res.sendStatus(204));
`)

	stdout, _, err := execute(t, input, "--output-dir", t.TempDir(), "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, "Found 2 routes:\n  GET /ping (0 params)\n  POST /ping (0 params)\n", stdout)
}
