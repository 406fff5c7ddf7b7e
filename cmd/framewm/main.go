package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/srlehn/framewm/internal/config"
	"github.com/srlehn/framewm/internal/errors"
	"github.com/srlehn/framewm/internal/logx"
	"github.com/srlehn/framewm/manager"
	"github.com/srlehn/framewm/wm"
	"github.com/srlehn/framewm/wm/wmimpl"
)

var rootCmd = &cobra.Command{
	Use:          filepath.Base(os.Args[0]),
	Short:        "framewm minimal reparenting X11 window manager",
	Long:         "framewm frames every top-level window and otherwise grants all client requests",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

var (
	debugFlag       bool
	configFileFlag  string
	displayFlag     string
	borderWidthFlag int
	borderColorFlag config.Color
	backgroundFlag  config.Color
	logLevelFlag    string
	logFileFlag     string
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.Flags().BoolVarP(&debugFlag, `debug`, `d`, false, `print error stack traces`)
	rootCmd.Flags().StringVarP(&configFileFlag, `config`, `c`, ``, `config file (default: $XDG_CONFIG_HOME/`+config.FileName+`)`)
	rootCmd.Flags().StringVar(&displayFlag, `display`, ``, `X display (default: $DISPLAY)`)
	rootCmd.Flags().IntVar(&borderWidthFlag, `border-width`, 0, `frame border width in pixels`)
	rootCmd.Flags().Var(&borderColorFlag, `border-color`, `frame border color (0xRRGGBB or #RRGGBB)`)
	rootCmd.Flags().Var(&backgroundFlag, `background`, `frame background color (0xRRGGBB or #RRGGBB)`)
	rootCmd.Flags().StringVar(&logLevelFlag, `log-level`, ``, `trace, debug, info, warn or error`)
	rootCmd.Flags().StringVarP(&logFileFlag, `log-file`, `l`, ``, `log file (default: stderr)`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if stackFramer, ok := err.(interface{ ErrorStack() string }); debugFlag && ok {
			fmt.Fprintln(os.Stderr, "\n"+stackFramer.ErrorStack())
		}
		os.Exit(1)
	}
}

func run(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	loggerProv := logx.Prov(logger)

	wm.SetImpl(wmimpl.Impl())
	display, err := wm.Open(cfg.Display)
	if err != nil {
		logx.IsErr(err, loggerProv, slog.LevelError)
		return err
	}
	m, err := manager.New(display,
		manager.SetLogger(logger),
		manager.SetConfig(cfg),
	)
	if err != nil {
		_ = display.Close()
		return err
	}
	defer m.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := m.Run(ctx); err != nil {
		logx.IsErr(err, loggerProv, slog.LevelError)
		return err
	}
	logx.Info(`exiting`, loggerProv, `protocol_errors`, m.ProtocolErrors())
	return nil
}

// loadConfig reads the config file and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFileFlag)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed(`display`) {
		cfg.Display = displayFlag
	}
	if flags.Changed(`border-width`) {
		cfg.BorderWidth = borderWidthFlag
	}
	if flags.Changed(`border-color`) {
		cfg.BorderColor = borderColorFlag
	}
	if flags.Changed(`background`) {
		cfg.Background = backgroundFlag
	}
	if flags.Changed(`log-level`) {
		cfg.LogLevel = logLevelFlag
	}
	if flags.Changed(`log-file`) {
		cfg.LogFile = logFileFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.New(err)
	}
	return cfg, nil
}
