package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/srlehn/framewm/internal/config"
	"github.com/srlehn/framewm/internal/consts"
)

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(`
display: ":1"
border_width: 5
border_color: "#00ff00"
background: "0x101010"
log_level: trace
log_file: /tmp/framewm.log
`))
	require.NoError(t, err)
	assert.Equal(t, &config.Config{
		Display:     `:1`,
		BorderWidth: 5,
		BorderColor: 0x00ff00,
		Background:  0x101010,
		LogLevel:    `trace`,
		LogFile:     `/tmp/framewm.log`,
	}, cfg)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg, err = config.Parse([]byte(`border_width: 0`))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.BorderWidth)
	assert.Equal(t, config.Color(consts.DefaultBorderColor), cfg.BorderColor)
}

func TestParseInvalid(t *testing.T) {
	for name, doc := range map[string]string{
		`unknown_key`:    `border: 3`,
		`negative_width`: `border_width: -1`,
		`wide_color`:     `border_color: "#1000000"`,
		`bad_color`:      `background: "green"`,
		`log_level`:      `log_level: loud`,
		`not_a_map`:      `- 1`,
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := config.Parse([]byte(doc))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), `config.yaml`)
	require.NoError(t, os.WriteFile(path, []byte("border_width: 1\n"), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.BorderWidth)

	_, err = config.Load(filepath.Join(t.TempDir(), `missing.yaml`))
	assert.Error(t, err)
}

func TestSearchPaths(t *testing.T) {
	for _, p := range config.SearchPaths() {
		assert.Equal(t, `config.yaml`, filepath.Base(p))
		assert.Equal(t, consts.LibraryName, filepath.Base(filepath.Dir(p)))
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]config.Color{
		`#ff82d3`:  0xff82d3,
		`0xFF82D3`: 0xff82d3,
		`333333`:   0x333333,
		` #000001`: 0x000001,
	}
	for in, want := range tests {
		got, err := config.ParseColor(in)
		if assert.NoError(t, err, in) {
			assert.Equal(t, want, got, in)
		}
	}
	for _, in := range []string{``, `#`, `0x`, `#ggg`, `#1000000`} {
		_, err := config.ParseColor(in)
		assert.Error(t, err, in)
	}
}

func TestColorString(t *testing.T) {
	assert.Equal(t, `#ff82d3`, config.Color(0xff82d3).String())
	assert.Equal(t, `#00000a`, config.Color(0xa).String())
}

func TestColorFlag(t *testing.T) {
	var c config.Color
	require.NoError(t, c.Set(`#123456`))
	assert.Equal(t, config.Color(0x123456), c)
	assert.Equal(t, `color`, c.Type())
	assert.Error(t, c.Set(`nope`))
	assert.Equal(t, config.Color(0x123456), c)
}

func TestColorYAMLRoundTrip(t *testing.T) {
	b, err := yaml.Marshal(config.Default())
	require.NoError(t, err)
	cfg, err := config.Parse(b)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestValidateNil(t *testing.T) {
	var cfg *config.Config
	assert.Error(t, cfg.Validate())
}
