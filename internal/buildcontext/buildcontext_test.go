package buildcontext

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sarang095/dcrx/internal/image"
	"github.com/Sarang095/dcrx/internal/instruction"
	"github.com/Sarang095/dcrx/internal/parser"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readTar(t *testing.T, data []byte) map[string]string {
	t.Helper()
	entries := map[string]string{}
	tr := tar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		entries[hdr.Name] = string(content)
	}
	return entries
}

func names(entries map[string]string) []string {
	out := make([]string, 0, len(entries))
	for name := range entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func TestWriteIncludesDocumentAndReferencedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"app.py":           "print('hi')",
		"requirements.txt": "flask",
		"secret.env":       "TOKEN=x",
		"unused.txt":       "not referenced",
		".dockerignore":    "# local secrets\n*.env\n",
	})

	doc := image.New("app", "").
		From("python:3.11-slim", "").
		Copy(instruction.Copy{Source: "requirements.txt", Destination: "."}).
		Copy(instruction.Copy{Source: "app.py secret.env", Destination: "/app/"}).
		Copy(instruction.Copy{Source: "/out/bin", Destination: "/bin/", FromLayer: "build"}).
		Cmd("python", "/app/app.py")
	require.NoError(t, doc.Err())

	files, err := Files(doc, Options{ContextDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"requirements.txt", "app.py"}, files)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, doc, Options{ContextDir: dir}))

	entries := readTar(t, buf.Bytes())
	assert.Equal(t, []string{"Dockerfile", "app.py", "requirements.txt"}, names(entries))
	assert.Equal(t, doc.String()+"\n", entries["Dockerfile"])
	assert.Equal(t, "flask", entries["requirements.txt"])
}

func TestWriteIncludesResolvedTemplatedSources(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"src/main.go": "package main",
		"other.txt":   "not referenced",
	})

	doc, err := image.FromText("FROM golang:1.23\nARG SRC=./src\nCOPY $SRC /app\n", parser.Options{})
	require.NoError(t, err)
	doc = doc.Resolve(nil)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, doc, Options{ContextDir: dir}))

	entries := readTar(t, buf.Bytes())
	assert.Equal(t, []string{"Dockerfile", "src/main.go"}, names(entries))
	assert.Contains(t, entries["Dockerfile"], "COPY ./src /app")
}

func TestWriteWithoutReferencedFiles(t *testing.T) {
	doc := image.New("app", "").From("alpine", "").RunCommand("true")
	doc.Filename = "Containerfile"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, doc, Options{ContextDir: t.TempDir()}))
	assert.Equal(t, []string{"Containerfile"}, names(readTar(t, buf.Bytes())))
}

func TestGlobSources(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.py": "", "b.py": "", "c.txt": ""})

	doc := image.New("app", "").From("alpine", "").Copy(instruction.Copy{Source: "*.py", Destination: "/src/"})
	files, err := Files(doc, Options{ContextDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py", "b.py"}, files)
}

func TestMissingFileIsAnError(t *testing.T) {
	doc := image.New("app", "").From("alpine", "").Copy(instruction.Copy{Source: "missing.txt", Destination: "/"})

	err := Write(io.Discard, doc, Options{ContextDir: t.TempDir()})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSourceOutsideContext(t *testing.T) {
	doc := image.New("app", "").From("alpine", "").Copy(instruction.Copy{Source: "../etc/passwd", Destination: "/"})

	_, err := Files(doc, Options{ContextDir: t.TempDir()})
	assert.ErrorIs(t, err, ErrOutsideContext)
}
