package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSpec(t *testing.T) {
	tests := map[string]struct {
		args []string
		want string
	}{
		"json": {
			args: []string{"spec"},
			want: `"openapi": "3.0.0"`,
		},
		"yaml": {
			args: []string{"spec", "--yaml"},
			want: "openapi: 3.0.0\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)

			doc, err := openapi3.NewLoader().LoadFromData([]byte(out))
			require.NoError(t, err)
			assert.Equal(t, "usersapi", doc.Info.Title)
			assert.Equal(t, "1.0.0", doc.Info.Version)
			assert.NotNil(t, doc.Paths.Value("/users/{id}"))
		})
	}
}

func TestSpec_outputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.yaml")

	out, err := run(t, "spec", "--yaml", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "openapi: 3.0.0\n")
}

func TestSpec_config(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usersapi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("docs:\n  title: people\n"), 0o600))

	out, err := run(t, "--config", path, "spec")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "people"`)

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "spec")
	assert.Error(t, err)
}

func TestRoutes(t *testing.T) {
	out, err := run(t, "routes")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# usersapi 1.0.0\n"), out)
	for _, row := range []string{
		"| GET | `/users` | listUsers | List users | none | 200 |",
		"| GET | `/users/{id}` | getUser | Get a user | path | 200, 400, 404 |",
		"| POST | `/users` | createUser | Create a user | body (application/json, application/yaml) | 201, 400 |",
	} {
		assert.Contains(t, out, row)
	}
}

func TestRoutes_render(t *testing.T) {
	raw, err := run(t, "routes")
	require.NoError(t, err)

	out, err := run(t, "routes", "--render")
	require.NoError(t, err)

	assert.Contains(t, out, "getUser")
	assert.NotEqual(t, raw, out, "rendered, not raw Markdown")
}

func TestServe_badConfig(t *testing.T) {
	t.Setenv("USERSAPI_LOG_LEVEL", "loud")

	_, err := run(t, "serve")
	assert.Error(t, err)
}
