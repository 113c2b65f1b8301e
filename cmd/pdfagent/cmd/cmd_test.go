package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eventual-Inc/pdfagent/pkg/app"
)

func TestWriteOutput(t *testing.T) {
	encoded := []byte(`{"statusCode":200,"body":"pong"}`)

	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, encoded, "json"))
	assert.Equal(t, "{\"statusCode\":200,\"body\":\"pong\"}\n", buf.String())

	buf.Reset()
	require.NoError(t, writeOutput(&buf, encoded, "yaml"))
	assert.Equal(t, "body: pong\nstatusCode: 200\n", buf.String())

	assert.Error(t, writeOutput(&buf, encoded, "xml"))
}

func TestReadEvent(t *testing.T) {
	data, err := readEvent(strings.NewReader(`{"path":"/ping"}`), "")
	require.NoError(t, err)
	assert.Equal(t, `{"path":"/ping"}`, string(data))

	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"path":"/health"}`), 0o600))
	data, err = readEvent(nil, path)
	require.NoError(t, err)
	assert.Equal(t, `{"path":"/health"}`, string(data))

	_, err = readEvent(nil, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRoutesTable(t *testing.T) {
	out := routesTable(app.New(app.Config{}).Routes())
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "METHOD | PATH"))
	assert.Contains(t, lines[1], "ANY    | /ping")
	assert.Contains(t, out, "POST   | /api/parse-pdf-direct | true")
}
