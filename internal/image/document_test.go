package image

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sarang095/dcrx/internal/instruction"
	"github.com/Sarang095/dcrx/internal/lexer"
	"github.com/Sarang095/dcrx/internal/mount"
	"github.com/Sarang095/dcrx/internal/parser"
	"github.com/Sarang095/dcrx/internal/resolve"
)

func TestFromTextRendersBlankLineSeparated(t *testing.T) {
	d, err := FromText("FROM python:3.11-slim\nWORKDIR /app\nRUN pip install -r requirements.txt\n", parser.Options{})
	require.NoError(t, err)
	require.Equal(t, 3, d.Len())

	assert.Equal(t, "FROM python:3.11-slim\n\nWORKDIR /app\n\nRUN pip install -r requirements.txt", d.String())
	assert.Equal(t, "python", d.Name)
	assert.Equal(t, "3.11-slim", d.Tag)
	assert.Equal(t, "python:3.11-slim", d.FullName())
}

func TestBuilder(t *testing.T) {
	d := New("hello", "1.0").
		From("python:3.11-slim", "").
		Arg("PORT", "8000").
		Env("APP_PORT", "$PORT").
		Workdir("/app").
		Copy(instruction.Copy{Source: "requirements.txt", Destination: "."}).
		Run(instruction.Run{
			Command: "pip install -r requirements.txt",
			Mounts:  []mount.Mount{mount.Cache{Target: "/root/.cache", Sharing: mount.SharingLocked}},
		}).
		Copy(instruction.Copy{Source: ".", Destination: "."}).
		Copy(instruction.Copy{Source: "requirements.txt", Destination: "/tmp/"}).
		Add(instruction.Add{Source: "https://example.com/data.tgz", Destination: "/data/"}).
		Expose("8000").
		User("app", "").
		Healthcheck(instruction.Healthcheck{Interval: 10, Command: instruction.Cmd{Command: []string{"curl", "localhost:8000"}}}).
		Cmd("python", "main.py")

	require.NoError(t, d.Err())
	assert.Equal(t, 13, d.Len())
	assert.Equal(t, "hello:1.0", d.FullName())
	assert.Equal(t, []string{"requirements.txt", "."}, d.Files())
	require.NoError(t, d.Check())

	reparsed, err := FromText(d.String(), parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, d.Instructions(), reparsed.Instructions())
	assert.Equal(t, d.Files(), reparsed.Files())
}

func TestBuilderKeepsFirstError(t *testing.T) {
	d := New("broken", "").
		From("alpine", "").
		Copy(instruction.Copy{Source: "a", Destination: "b", Permissions: "999"}).
		Expose("not-a-port").
		Workdir("/app")

	require.Error(t, d.Err())
	var verr *instruction.ValidationError
	require.ErrorAs(t, d.Err(), &verr)
	assert.Equal(t, instruction.KindCopy, verr.Kind)
	assert.Equal(t, 1, d.Len())

	_, err := d.WriteFile(filepath.Join(t.TempDir(), "Dockerfile"))
	assert.Error(t, err)
}

func TestOnBuildAndOrder(t *testing.T) {
	d := New("base", "").
		From("node:20", "").
		OnBuild(instruction.Copy{Source: "package.json", Destination: "."}).
		OnBuild(instruction.Run{Command: "npm ci"}).
		Maintainer("Team <team@example.com>").
		Shell("/bin/bash", "-c").
		StopSignal(3).
		Volume("/data").
		Label("tier", "base").
		Entrypoint("node")
	require.NoError(t, d.Err())

	assert.Equal(t, 2, d.Layers(instruction.KindOnBuild).Len())
	assert.Empty(t, d.Files())

	d.OnBuild(instruction.Stage{Base: "alpine"})
	assert.Error(t, d.Err())
}

func TestLayersQueryByKind(t *testing.T) {
	d, err := FromText("FROM alpine\nRUN a\nENV X=1\nRUN b\nUSER nobody\nRUN c\n", parser.Options{})
	require.NoError(t, err)

	runs := d.Layers(instruction.KindRun).Results()
	require.Len(t, runs, 3)
	for i, cmd := range []string{"a", "b", "c"} {
		assert.Equal(t, instruction.Run{Command: cmd}, runs[i])
	}
	assert.Equal(t, 6, d.Layers().Len())
}

func TestResolveReturnsNewDocument(t *testing.T) {
	d := New("app", "").
		Arg("VERSION", "1.0").
		Env("APP_VERSION", "$VERSION").
		From("alpine:${VERSION}", "")
	require.NoError(t, d.Err())

	resolved := d.Resolve(nil)
	env := resolved.Layers(instruction.KindEnv).Results()[0].(instruction.Env)
	assert.Equal(t, "1.0", env.Variables[0].Value)
	assert.Contains(t, d.String(), "$VERSION")
	assert.Equal(t, "ARG VERSION=\"1.0\"\n\nENV APP_VERSION=\"1.0\"\n\nFROM alpine:1.0", resolved.String())

	again := resolved.ResolveWith(resolve.Options{})
	assert.Equal(t, resolved.String(), again.String())

	overridden := d.Resolve(map[string]string{"VERSION": "2.0"})
	assert.Contains(t, overridden.String(), "FROM alpine:2.0")

	skipped := d.Resolve(nil, "VERSION")
	assert.Equal(t, d.String(), skipped.String())
	assert.Equal(t, "1.0", d.Values(resolve.Options{})["APP_VERSION"])
}

func TestResolveTracksResolvedSources(t *testing.T) {
	d, err := FromText("FROM alpine\nARG SRC=./src\nCOPY $SRC /app\nADD ${SRC}/extra.tar /opt/\n", parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"$SRC", "${SRC}/extra.tar"}, d.Files())

	resolved := d.Resolve(nil)
	assert.Contains(t, resolved.String(), "COPY ./src /app")
	assert.Equal(t, []string{"./src", "./src/extra.tar"}, resolved.Files())
	assert.Equal(t, []string{"$SRC", "${SRC}/extra.tar"}, d.Files())

	skipped := d.Resolve(nil, "SRC")
	assert.Equal(t, d.Files(), skipped.Files())
}

func TestTemplatedSignalAndHealthcheckResolve(t *testing.T) {
	d, err := FromText("FROM alpine\nARG SIG=SIGTERM\nARG EVERY=10s\nSTOPSIGNAL $SIG\nHEALTHCHECK --interval=$EVERY CMD true\n", parser.Options{})
	require.NoError(t, err)
	assert.Contains(t, d.String(), "STOPSIGNAL $SIG")

	resolved := d.Resolve(nil)
	assert.Contains(t, resolved.String(), "STOPSIGNAL 15")
	assert.Contains(t, resolved.String(), `HEALTHCHECK --interval=10s CMD ["/bin/sh", "-c", "true"]`)
}

func TestWriteFileRecordsLocation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build")
	d := New("app", "").From("alpine", "").Copy(instruction.Copy{Source: "app.py", Destination: "/app/"})

	path, err := d.WriteFile(filepath.Join(dir, "Containerfile"))
	require.NoError(t, err)
	assert.Equal(t, dir, d.Path)
	assert.Equal(t, "Containerfile", d.Filename)
	assert.Equal(t, path, d.FilePath())
	assert.Equal(t, []string{"app.py"}, d.Files())
}

func TestWriteAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	d := New("app", "").From("alpine", "").RunCommand("echo hi")
	d.Path = dir

	path, err := d.WriteFile("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultFilename), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "FROM alpine:latest\n\nRUN echo hi\n", string(data))

	loaded, err := FromFile(path, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, d.Instructions(), loaded.Instructions())
	assert.Equal(t, dir, loaded.Path)
	assert.Equal(t, DefaultFilename, loaded.Filename)

	require.NoError(t, loaded.LoadText("COPY app.py /app/\nCMD [\"python\", \"/app/app.py\"]"))
	assert.Equal(t, 4, loaded.Len())
	assert.Equal(t, []string{"app.py"}, loaded.Files())

	require.NoError(t, loaded.LoadFile(path))
	assert.Equal(t, 6, loaded.Len())

	_, err = FromFile(filepath.Join(dir, "missing"), parser.Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadUsesDocumentOptions(t *testing.T) {
	d := New("app", "").WithOptions(parser.Options{OnInvalid: parser.Skip, Mode: lexer.MatchLeading})
	require.NoError(t, d.LoadText("FROM alpine\nEXPOSE 80/http\nRUN true\n"))
	assert.Equal(t, 2, d.Len())

	strict := New("app", "")
	assert.Error(t, strict.LoadText("FROM alpine\nEXPOSE 80/http\n"))
}

func TestCloneIsIndependent(t *testing.T) {
	d := New("app", "").From("alpine", "").Copy(instruction.Copy{Source: "a", Destination: "/a"})
	c := d.Clone()
	c.Copy(instruction.Copy{Source: "b", Destination: "/b"})

	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"a"}, d.Files())
	assert.Equal(t, []string{"a", "b"}, c.Files())
}
