package cli

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sarang095/dcrx/internal/config"
	"github.com/Sarang095/dcrx/internal/instruction"
)

const sample = `ARG TAG=3.11
FROM python:${TAG}-slim
WORKDIR /app
COPY app.py /app/
RUN pip install flask
RUN echo done
CMD ["python", "app.py"]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvPath, "")
	configPath := writeFile(t, t.TempDir(), config.DefaultFilename, "log_level: warn\n")

	cmd, err := NewRootCommand()
	require.NoError(t, err)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err = cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "Dockerfile", sample)

	stdout, _, err := execute(t, "validate", "--print", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Valid! (7 instructions)")
	assert.Contains(t, stdout, "FROM python:${TAG}-slim")
}

func TestValidateReportsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "Dockerfile", sample)
	bad := writeFile(t, dir, "Dockerfile.bad", "FROM alpine\nCOPY --chmod=999 a b\n")

	stdout, stderr, err := execute(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files are invalid")
	assert.Contains(t, stdout, "Valid!")
	assert.Contains(t, stderr, "--chmod")
}

func TestCompileToStdout(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Dockerfile", sample)

	stdout, _, err := execute(t, "compile", "--build-arg", "TAG=3.12", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "FROM python:3.12-slim")
	assert.Contains(t, stdout, `ARG TAG="3.12"`)
	assert.Contains(t, stdout, "RUN pip install flask\n\nRUN echo done")
}

func TestCompileSquashesRunsIntoOutputDir(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a/Dockerfile", sample)
	second := writeFile(t, dir, "b/Dockerfile.web", "FROM alpine\nRUN apk add curl\nRUN curl --version\n")
	out := filepath.Join(dir, "out")

	stdout, _, err := execute(t, "compile", "--squash-run", "-o", out, first, second)
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join(out, "Dockerfile"))

	data, err := os.ReadFile(filepath.Join(out, "Dockerfile"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "RUN pip install flask && echo done")
	assert.Contains(t, string(data), "FROM python:3.11-slim")

	data, err = os.ReadFile(filepath.Join(out, "Dockerfile.web"))
	require.NoError(t, err)
	assert.Equal(t, "FROM alpine:latest\n\nRUN apk add curl && curl --version\n", string(data))
}

func TestCompileRejectsCollidingOutputs(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a/Dockerfile", sample)
	second := writeFile(t, dir, "b/Dockerfile", sample)

	_, _, err := execute(t, "compile", "-o", filepath.Join(dir, "out"), first, second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "would both be written")
}

func TestCompileSkip(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Dockerfile", sample)

	stdout, _, err := execute(t, "compile", "--skip", "TAG", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "FROM python:${TAG}-slim")
}

func TestInspect(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Dockerfile", sample)

	stdout, _, err := execute(t, "inspect", "--kind", "RUN", "--resolve", path)
	require.NoError(t, err)

	var report struct {
		Image        string            `yaml:"image"`
		Files        []string          `yaml:"files"`
		Values       map[string]string `yaml:"values"`
		Instructions []struct {
			Index int              `yaml:"index"`
			Kind  instruction.Kind `yaml:"kind"`
			Text  string           `yaml:"text"`
		} `yaml:"instructions"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &report))

	assert.Equal(t, "python:${TAG}-slim", report.Image)
	assert.Equal(t, []string{"app.py"}, report.Files)
	assert.Equal(t, "3.11", report.Values["TAG"])
	require.Len(t, report.Instructions, 2)
	assert.Equal(t, 4, report.Instructions[0].Index)
	assert.Equal(t, instruction.KindRun, report.Instructions[0].Kind)
	assert.Equal(t, "RUN echo done", report.Instructions[1].Text)
}

func TestInspectUnknownKind(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Dockerfile", sample)
	_, _, err := execute(t, "inspect", "--kind", "bogus", path)
	require.Error(t, err)
}

func TestContext(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Dockerfile", sample)
	writeFile(t, dir, "app.py", "print('hi')\n")
	archivePath := filepath.Join(t.TempDir(), "context.tar")

	stdout, _, err := execute(t, "context", "-o", archivePath, path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+archivePath)

	f, err := os.Open(archivePath)
	require.NoError(t, err)
	defer f.Close()

	entries := map[string]string{}
	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		entries[hdr.Name] = string(content)
	}
	assert.Equal(t, "print('hi')\n", entries["app.py"])
	assert.Contains(t, entries["Dockerfile"], "FROM python:3.11-slim")
}

func TestContextPackagesTemplatedSources(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Dockerfile", "FROM alpine\nARG SRC=./src\nCOPY $SRC /app\n")
	writeFile(t, dir, "src/run.sh", "echo hi\n")
	archivePath := filepath.Join(t.TempDir(), "context.tar")

	_, _, err := execute(t, "context", "-o", archivePath, "--build-arg", "SRC=src", path)
	require.NoError(t, err)

	f, err := os.Open(archivePath)
	require.NoError(t, err)
	defer f.Close()

	names := []string{}
	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if hdr.Typeflag == tar.TypeReg {
			names = append(names, hdr.Name)
		}
	}
	assert.ElementsMatch(t, []string{"Dockerfile", "src/run.sh"}, names)
}

func TestBuildArgDefaults(t *testing.T) {
	t.Setenv("FROM_ENV", "yes")
	f := resolveFlags{buildArgs: []string{"A=1", "B=", "FROM_ENV", "UNSET_FOR_TEST"}}
	defaults, err := f.defaults()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1", "B": "", "FROM_ENV": "yes"}, defaults)

	f = resolveFlags{buildArgs: []string{"=x"}}
	_, err = f.defaults()
	require.Error(t, err)
}

func TestParseKinds(t *testing.T) {
	kinds, err := parseKinds([]string{"FROM", "run", "copy"})
	require.NoError(t, err)
	assert.Equal(t, []instruction.Kind{instruction.KindStage, instruction.KindRun, instruction.KindCopy}, kinds)

	kinds, err = parseKinds([]string{"stage"})
	require.NoError(t, err)
	assert.Equal(t, []instruction.Kind{instruction.KindStage}, kinds)
}
