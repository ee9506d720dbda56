package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/tablefsm/internal/primitives"
)

const orderJSON = `{
  "initial_state": "Created",
  "transitions": [
    {"event": "Pay", "from": "Created", "to": "Paid", "action": "charge"},
    {"event": "Ship", "from": "Paid", "to": "Shipped"}
  ]
}`

const orderYAML = `
id: order
initial_state: Created
transitions:
  - event: Pay
    from: Created
    to: Paid
    action: charge
  - event: Ship
    from: Paid
    to: Shipped
`

func wantOrder() []primitives.Transition {
	return []primitives.Transition{
		{Event: "Pay", From: "Created", To: "Paid", Action: "charge"},
		{Event: "Ship", From: "Paid", To: "Shipped"},
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileLoader_JSON(t *testing.T) {
	cfg, err := NewFileLoader(writeFile(t, "order.json", orderJSON)).Load()
	require.NoError(t, err)
	assert.Equal(t, "Created", cfg.InitialState)
	assert.Equal(t, wantOrder(), cfg.Transitions)
}

func TestFileLoader_YAML(t *testing.T) {
	for _, name := range []string{"order.yaml", "order.YML"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := NewFileLoader(writeFile(t, name, orderYAML)).Load()
			require.NoError(t, err)
			assert.Equal(t, "order", cfg.ID)
			assert.Equal(t, wantOrder(), cfg.Transitions)
		})
	}
}

func TestFileLoader_ExplicitFormatIgnoresExtension(t *testing.T) {
	cfg, err := NewJSONFileLoader(writeFile(t, "order.conf", orderJSON)).Load()
	require.NoError(t, err)
	assert.Equal(t, "Created", cfg.InitialState)

	cfg, err = NewYAMLFileLoader(writeFile(t, "order.conf", orderYAML)).Load()
	require.NoError(t, err)
	assert.Equal(t, "order", cfg.ID)
}

func TestFileLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		loader *FileLoader
		want   string
	}{
		{"missing file", NewFileLoader(filepath.Join(dir, "nope.json")), "read"},
		{"unknown extension", NewFileLoader(writeFile(t, "order.toml", "")), "unknown config format"},
		{"malformed json", NewFileLoader(writeFile(t, "bad.json", `{"initial_state": `)), "json unmarshal"},
		{"malformed yaml", NewFileLoader(writeFile(t, "bad.yaml", "transitions: [")), "yaml unmarshal"},
		{"empty yaml", NewFileLoader(writeFile(t, "empty.yaml", "")), "empty document"},
		{"unknown field", NewFileLoader(writeFile(t, "typo.json", `{"initial_state":"a","transitons":[]}`)), "unknown field"},
		{"invalid config", NewFileLoader(writeFile(t, "invalid.json", `{"transitions":[]}`)), "initial_state is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.loader.Load()
			require.Error(t, err)
			assert.True(t, primitives.IsConfigError(err))
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), tt.loader.Path)
		})
	}
}

func TestFileLoader_MissingFileWrapsNotExist(t *testing.T) {
	_, err := NewFileLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReaderLoader(t *testing.T) {
	cfg, err := NewReaderLoader(strings.NewReader(orderYAML), FormatYAML).Load()
	require.NoError(t, err)
	assert.Equal(t, wantOrder(), cfg.Transitions)

	boom := errors.New("network down")
	_, err = NewReaderLoader(iotest.ErrReader(boom), FormatJSON).Load()
	assert.ErrorIs(t, err, boom)
	assert.True(t, primitives.IsConfigError(err))

	_, err = (&ReaderLoader{}).Load()
	assert.True(t, primitives.IsConfigError(err))

	_, err = NewReaderLoader(strings.NewReader(orderJSON), "toml").Load()
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestStaticLoader(t *testing.T) {
	src := primitives.MachineConfig{InitialState: "Created", Transitions: wantOrder()}
	l := NewStaticLoader(src)

	cfg, err := l.Load()
	require.NoError(t, err)
	cfg.Transitions[0].To = "changed"
	assert.Equal(t, "Paid", l.Config.Transitions[0].To)

	_, err = NewStaticLoader(primitives.MachineConfig{}).Load()
	assert.True(t, primitives.IsConfigError(err))
}

func TestEncodeDecodePreservesOrder(t *testing.T) {
	cfg := primitives.MachineConfig{
		InitialState: "a",
		Transitions: []primitives.Transition{
			{Event: "go", From: "a", To: "b"},
			{Event: "go", From: "a", To: "c"},
		},
	}
	for _, format := range []Format{FormatJSON, FormatYAML} {
		data, err := Encode(cfg, format)
		require.NoError(t, err)
		got, err := Decode(data, format)
		require.NoError(t, err)
		assert.Equal(t, cfg.Transitions, got.Transitions, string(format))
	}
	_, err := Encode(cfg, "xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
