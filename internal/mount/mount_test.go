package mount

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDispatchesOnType(t *testing.T) {
	for _, tt := range []struct {
		spec     string
		expected Mount
	}{
		{"type=bind,target=/src,source=.,from=builder,rw",
			Bind{Target: "/src", Source: ".", FromLayer: "builder", ReadWrite: true}},
		{"target=/src",
			Bind{Target: "/src"}},
		{"type=cache,target=/root/.cache,sharing=locked",
			Cache{Target: "/root/.cache", Sharing: SharingLocked}},
		{"type=cache,id=pip,dst=/root/.cache,ro,mode=0755,uid=1000,gid=1000",
			Cache{ID: "pip", Target: "/root/.cache", ReadOnly: true, Mode: "0755", UserID: "1000", GroupID: "1000"}},
		{"type=secret,id=npmrc,target=/root/.npmrc,required=true",
			Secret{ID: "npmrc", Target: "/root/.npmrc", Required: true}},
		{"type=ssh,id=default,mode=600",
			SSH{ID: "default", Mode: "600"}},
		{"type=tmpfs,target=/tmp,size=64m,noatime",
			TmpFs{Target: "/tmp", Size: 64 * 1024 * 1024, AccessTime: NoAtime}},
	} {
		actual, err := Parse(tt.spec)
		require.NoError(t, err, tt.spec)
		require.Equal(t, tt.expected, actual, tt.spec)
	}
}

func TestParseAcceptsFlagPrefix(t *testing.T) {
	m, err := Parse("--mount=type=cache,target=/cache")
	require.NoError(t, err)
	require.Equal(t, TypeCache, m.Type())
}

func TestParseRejectsInvalidOptions(t *testing.T) {
	for _, spec := range []string{
		"type=cache,target=/c,mode=999",
		"type=cache,target=/c,sharing=sometimes",
		"type=secret,id=x,uid=root",
		"type=tmpfs,target=/tmp,size=lots",
		"type=bind",
		"type=overlay,target=/x",
	} {
		_, err := Parse(spec)
		require.Error(t, err, spec)

		var optErr *OptionError
		require.ErrorAs(t, err, &optErr, spec)
	}
}

func TestTemplatedOptionsSkipValidation(t *testing.T) {
	m, err := Parse("type=cache,target=/c,mode=$MODE,uid=${UID}")
	require.NoError(t, err)
	require.Equal(t, "$MODE", m.(Cache).Mode)
}

func TestStringRoundTrip(t *testing.T) {
	for _, m := range []Mount{
		Bind{Target: "/app"},
		Bind{Target: "/app", Source: "src", FromLayer: "build", ReadWrite: true},
		Cache{ID: "go", Target: "/go/pkg", Source: "/cache", FromLayer: "base", ReadOnly: true, Sharing: SharingPrivate, Mode: "0700", UserID: "1", GroupID: "2"},
		Secret{},
		Secret{ID: "token", Target: "/run/secrets/token", Required: true, Mode: "0400", UserID: "0", GroupID: "0"},
		SSH{ID: "default", Required: true},
		TmpFs{Target: "/tmp", Size: 1024, NrInodes: 10, NrBlocks: 20, AccessTime: StrictAtime},
	} {
		text := m.String()
		require.True(t, strings.HasPrefix(text, Flag+"type="+string(m.Type())), text)

		parsed, err := Parse(text)
		require.NoError(t, err, text)
		require.Equal(t, m, parsed, text)
	}
}

func TestCacheString(t *testing.T) {
	m := Cache{Target: "/root/.cache", Sharing: SharingLocked}
	require.Equal(t, "--mount=type=cache,target=/root/.cache,sharing=locked", m.String())
}

func TestExpand(t *testing.T) {
	mapping := func(s string) string {
		return strings.ReplaceAll(s, "$DIR", "/opt")
	}
	m := Bind{Target: "$DIR/app", Source: "src"}.Expand(mapping)
	require.Equal(t, Bind{Target: "/opt/app", Source: "src"}, m)
}
