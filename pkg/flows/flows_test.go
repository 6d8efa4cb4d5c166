package flows_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/flowcheck/pkg/errors"
	"github.com/agentstation/flowcheck/pkg/flows"
)

func cancel(context.Context) error { return nil }

func testRegistry() *flows.Registry {
	return flows.NewRegistry(
		flows.NewFlow("booking",
			flows.Context("confirmed",
				flows.Method("cancel", cancel),
				flows.Method("reschedule", nil),
			),
			flows.Method("start", func() {}),
		),
		flows.NewFlow("settings",
			flows.Context("confirmed", flows.Method("save", cancel)),
			flows.Context("language", flows.Method("set", cancel)),
		),
	)
}

func TestHandlerCallable(t *testing.T) {
	var nilFunc func()

	tests := []struct {
		name string
		fn   any
		want bool
	}{
		{"function", cancel, true},
		{"closure", func() {}, true},
		{"nil", nil, false},
		{"typed nil function", nilFunc, false},
		{"reference", flows.Ref("Cancel"), true},
		{"empty reference", flows.Ref(""), false},
		{"number", 42, false},
		{"plain string", "Cancel", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flows.Method("x", tt.fn).Callable())
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := testRegistry()

	t.Run("names in declaration order", func(t *testing.T) {
		assert.Equal(t, []string{"booking", "settings"}, reg.Names())
	})

	t.Run("distinct context names", func(t *testing.T) {
		assert.Equal(t, []string{"confirmed", "language"}, reg.ContextNames())
	})

	t.Run("lookup", func(t *testing.T) {
		f, ok := reg.Flow("booking")
		require.True(t, ok)

		g, ok := f.Context("confirmed")
		require.True(t, ok)
		m, ok := g.Method("cancel")
		require.True(t, ok)
		assert.True(t, m.Callable())

		_, ok = g.Method("missing")
		assert.False(t, ok)

		h, ok := f.Handler("start")
		require.True(t, ok)
		assert.True(t, h.Callable())

		_, ok = f.Context("start")
		assert.False(t, ok, "a direct handler is not a context")

		_, ok = reg.Flow("unknown")
		assert.False(t, ok)
	})

	t.Run("add replaces flow with same name", func(t *testing.T) {
		r := testRegistry()
		r.Add(flows.NewFlow("booking"))
		r.Add(nil)
		assert.Equal(t, []string{"booking", "settings"}, r.Names())
		f, _ := r.Flow("booking")
		assert.Empty(t, f.Entries)
	})

	t.Run("nil registry", func(t *testing.T) {
		var r *flows.Registry
		assert.Nil(t, r.Names())
		assert.Nil(t, r.Flows())
		assert.Nil(t, r.ContextNames())
		_, ok := r.Flow("booking")
		assert.False(t, ok)
	})
}

const manifest = `
booking:
  confirmed:
    cancel: Cancel
    reschedule: ~
  start: Start
settings:
  language:
    set: SetLanguage
    count: 3
empty:
`

func TestParseManifest(t *testing.T) {
	reg, err := flows.ParseManifest([]byte(manifest))
	require.NoError(t, err)

	assert.Equal(t, []string{"booking", "settings", "empty"}, reg.Names())

	booking, ok := reg.Flow("booking")
	require.True(t, ok)
	require.Len(t, booking.Entries, 2)

	group, ok := booking.Entries[0].(flows.ContextGroup)
	require.True(t, ok)
	assert.Equal(t, "confirmed", group.Name)
	require.Len(t, group.Methods, 2)
	assert.Equal(t, flows.Ref("Cancel"), group.Methods[0].Fn)
	assert.True(t, group.Methods[0].Callable())
	assert.False(t, group.Methods[1].Callable())

	direct, ok := booking.Entries[1].(flows.Handler)
	require.True(t, ok)
	assert.Equal(t, "start", direct.Name)
	assert.True(t, direct.Callable())

	settings, _ := reg.Flow("settings")
	lang, ok := settings.Context("language")
	require.True(t, ok)
	count, ok := lang.Method("count")
	require.True(t, ok)
	assert.False(t, count.Callable())

	empty, _ := reg.Flow("empty")
	assert.Empty(t, empty.Entries)
}

func TestParseManifestJSON(t *testing.T) {
	reg, err := flows.ParseManifest([]byte(`{"booking": {"confirmed": {"cancel": "Cancel"}}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"confirmed"}, reg.ContextNames())
}

func TestParseManifestErrors(t *testing.T) {
	_, err := flows.ParseManifest([]byte("booking: Start\n"))
	assert.Error(t, err)

	_, err = flows.ParseManifest([]byte("booking: [\n"))
	assert.Error(t, err)
}

func TestLoadManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "flows.yaml", []byte(manifest), 0o644))
	require.NoError(t, afero.WriteFile(fs, "broken.json", []byte(`{"booking": "x"}`), 0o644))

	reg, err := flows.LoadManifest(fs, "flows.yaml")
	require.NoError(t, err)
	assert.Len(t, reg.Flows(), 3)

	_, err = flows.LoadManifest(fs, "missing.yaml")
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)

	_, err = flows.LoadManifest(fs, "broken.json")
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "json", parseErr.Format)
}
