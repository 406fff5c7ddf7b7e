package config

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rkoesters/xdg/basedir"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/srlehn/framewm/internal/consts"
	"github.com/srlehn/framewm/internal/errors"
	"github.com/srlehn/framewm/internal/logx"
)

// FileName is looked up below the XDG config directories.
var FileName = filepath.Join(consts.LibraryName, `config.yaml`)

type Config struct {
	// Display is the X display name, empty for $DISPLAY.
	Display     string `yaml:"display"`
	BorderWidth int    `yaml:"border_width"`
	BorderColor Color  `yaml:"border_color"`
	Background  Color  `yaml:"background"`
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
}

func Default() *Config {
	return &Config{
		BorderWidth: consts.DefaultBorderWidth,
		BorderColor: consts.DefaultBorderColor,
		Background:  consts.DefaultBackground,
		LogLevel:    `info`,
	}
}

// Load reads the config file at path. With an empty path the XDG config
// directories are searched and a missing file yields the defaults.
func Load(path string) (*Config, error) {
	if len(path) > 0 {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.New(err)
		}
		return Parse(b)
	}
	for _, p := range SearchPaths() {
		b, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.New(err)
		}
		return Parse(b)
	}
	return Default(), nil
}

// SearchPaths lists the candidate config files, most important first.
func SearchPaths() []string {
	var paths []string
	if len(basedir.ConfigHome) > 0 {
		paths = append(paths, filepath.Join(basedir.ConfigHome, FileName))
	}
	for _, dir := range basedir.ConfigDirs {
		if len(dir) == 0 {
			continue
		}
		paths = append(paths, filepath.Join(dir, FileName))
	}
	return paths
}

// Parse decodes YAML on top of the defaults. Unknown keys are rejected.
func Parse(b []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// empty document
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, errors.New(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.NilReceiver()
	}
	if c.BorderWidth < 0 || c.BorderWidth > 0xffff {
		return errors.Errorf(`border width out of range: %d`, c.BorderWidth)
	}
	if err := c.BorderColor.validate(); err != nil {
		return err
	}
	if err := c.Background.validate(); err != nil {
		return err
	}
	if _, err := logx.ParseLevel(c.LogLevel); err != nil {
		return errors.Errorf(`invalid log level %q`, c.LogLevel)
	}
	return nil
}

// Color is a 24 bit RGB pixel value written as 0xRRGGBB or #RRGGBB.
type Color uint32

var (
	_ pflag.Value      = (*Color)(nil)
	_ yaml.Unmarshaler = (*Color)(nil)
	_ yaml.Marshaler   = Color(0)
)

func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, `#`):
		s = s[1:]
	case strings.HasPrefix(s, `0x`), strings.HasPrefix(s, `0X`):
		s = s[2:]
	}
	if len(s) == 0 {
		return 0, errors.New(`empty color`)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, errors.Errorf(`invalid color %q`, s)
	}
	c := Color(v)
	if err := c.validate(); err != nil {
		return 0, err
	}
	return c, nil
}

func (c Color) validate() error {
	if c > 0xffffff {
		return errors.Errorf(`color exceeds 24 bits: 0x%x`, uint32(c))
	}
	return nil
}

func (c Color) String() string { return `#` + leftPad(strconv.FormatUint(uint64(c), 16), 6) }

func (c *Color) Set(s string) error {
	v, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c *Color) Type() string { return `color` }

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return errors.New(err)
	}
	return c.Set(s)
}

func (c Color) MarshalYAML() (any, error) { return c.String(), nil }

func leftPad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat(`0`, n-len(s)) + s
}
