package manager

import (
	"log/slog"

	"github.com/srlehn/framewm/internal/config"
	"github.com/srlehn/framewm/internal/errors"
)

type Option interface {
	ApplyOption(m *Manager) error
}

var _ Option = (OptFunc)(nil)

type OptFunc func(*Manager) error

func (o OptFunc) ApplyOption(m *Manager) error { return o(m) }

var _ Option = (Options)(nil)

type Options []Option

func (o Options) ApplyOption(m *Manager) error { return m.SetOptions([]Option(o)...) }

func (m *Manager) SetOptions(opts ...Option) error {
	if m == nil {
		return errors.NilReceiver()
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.ApplyOption(m); err != nil {
			return errors.New(err)
		}
	}
	return nil
}

// SetLogger sets the logger. A nil logger disables logging.
func SetLogger(logger *slog.Logger) Option {
	return OptFunc(func(m *Manager) error { m.logger = logger; return nil })
}

// SetBorder sets frame border width and border pixel value.
func SetBorder(width int, color uint32) Option {
	return OptFunc(func(m *Manager) error {
		if width < 0 {
			return errors.Errorf(`negative border width %d`, width)
		}
		m.borderWidth = width
		m.borderColor = color
		return nil
	})
}

// SetBackground sets the frame background pixel value.
func SetBackground(color uint32) Option {
	return OptFunc(func(m *Manager) error { m.background = color; return nil })
}

// SetName sets the name the manager announces on the root window.
// An empty name disables the announcement.
func SetName(name string) Option {
	return OptFunc(func(m *Manager) error { m.name = name; return nil })
}

// SetConfig applies the decoration settings of cfg.
func SetConfig(cfg *config.Config) Option {
	return OptFunc(func(m *Manager) error {
		if cfg == nil {
			return errors.NilParam()
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return m.SetOptions(
			SetBorder(cfg.BorderWidth, uint32(cfg.BorderColor)),
			SetBackground(uint32(cfg.Background)),
		)
	})
}
