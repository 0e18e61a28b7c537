package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-stream/internal/application/dto"
	"github.com/jhoicas/Inventario-stream/pkg/jwt"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestIngest_DryRunJSON(t *testing.T) {
	path := writeCSV(t, "Store,Item,Count\nA,apple,10\n,ghost,1\nB,banana,2.9\n")

	out, err := runCLI(t, "ingest", "--dry-run", "--json", path)
	require.NoError(t, err)

	var items dto.ItemsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Equal(t, []dto.ItemDTO{
		{Store: "A", Item: "apple", Count: 10},
		{Store: "B", Item: "banana", Count: 2},
	}, items.Items)
}

func TestIngest_ArchivoEnMemoria(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	path := writeCSV(t, "store,item,count\nA,apple,10\nA,pear,1\n")

	out, err := runCLI(t, "ingest", "--json", path)
	require.NoError(t, err)

	var res dto.IngestResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, path, res.Source)
}

func TestIngest_ValidaArgumentos(t *testing.T) {
	_, err := runCLI(t, "ingest")
	assert.Error(t, err)

	_, err = runCLI(t, "ingest", "--bucket", "uploads")
	assert.Error(t, err)

	_, err = runCLI(t, "ingest", "--bucket", "uploads", "--key", "a.csv", "local.csv")
	assert.Error(t, err)
}

func TestRemove_RegistroInexistente(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	_, err := runCLI(t, "remove", "A", "apple")
	assert.Error(t, err)
}

func TestMigrate_RequierePostgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	_, err := runCLI(t, "migrate")
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestToken_EmiteScopeDeIngesta(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	out, err := runCLI(t, "token", "--json", "--subject", "uploader")
	require.NoError(t, err)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	subject, scope, err := jwt.Parse("cli-secret", body["token"])
	require.NoError(t, err)
	assert.Equal(t, "uploader", subject)
	assert.Equal(t, jwt.ScopeIngest, scope)
}
