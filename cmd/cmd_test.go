package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/libsearch/internal/audit"
	"github.com/ziadkadry99/libsearch/internal/catalog"
	"github.com/ziadkadry99/libsearch/internal/db"
	"github.com/ziadkadry99/libsearch/internal/resource"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) (cfgPath, dataDir string) {
	t.Helper()
	dir := t.TempDir()
	dataDir = filepath.Join(dir, "data")
	cfgPath = filepath.Join(dir, "libsearch.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("data_dir: "+dataDir+"\n"), 0o644))
	return cfgPath, dataDir
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "libsearch "+Version+"\n", out)
}

func TestImportCommand(t *testing.T) {
	t.Setenv("CI", "1")
	cfgPath, dataDir := writeConfig(t)

	doc := filepath.Join(t.TempDir(), "catalog.yml")
	require.NoError(t, os.WriteFile(doc, []byte(`
libs:
  - name: chi
  - name: zap
repos:
  - name: go-chi/chi
`), 0o644))

	out, err := run(t, "import", "--config", cfgPath, "--replace=false", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 libs and 1 repos from 1 file(s)")

	database, err := db.Open(filepath.Join(dataDir, "libsearch.db"))
	require.NoError(t, err)
	defer database.Close()

	ctx := context.Background()
	n, err := catalog.NewStore(database).Count(ctx, catalog.KindLibs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := audit.NewStore(database).Query(ctx, audit.QueryFilter{Action: audit.ActionImport})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestImportCommandNoMatches(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	_, err := run(t, "import", "--config", cfgPath, filepath.Join(t.TempDir(), "**", "*.yml"))
	assert.ErrorContains(t, err, "no files match")
}

func TestQueryCommand(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]any{
			{"name": "go-chi/chi", "description": "router"},
			{"id": 7},
		})
	}))
	defer api.Close()

	out, err := run(t, "query", "repos", "--url", api.URL, "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "2 repos")
	assert.Contains(t, out, "go-chi/chi")
	assert.Contains(t, out, "router")
	assert.Contains(t, out, "7")

	out, err = run(t, "query", "repos", "--url", api.URL, "--json")
	require.NoError(t, err)
	var items []resource.Item
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 2)
}

func TestQueryCommandRejectsUnknownKind(t *testing.T) {
	_, err := run(t, "query", "books", "--url", "http://127.0.0.1:1")
	assert.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "chi", displayName(resource.Item{"name": "chi", "id": 1}))
	assert.Equal(t, "a/b", displayName(resource.Item{"full_name": "a/b"}))
	assert.Equal(t, "(untitled)", displayName(resource.Item{"stars": 3}))
}
