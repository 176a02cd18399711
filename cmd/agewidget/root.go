package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-agewidget/internal/config"
	"github.com/tartampluch/go-agewidget/internal/engine"
	"github.com/tartampluch/go-agewidget/internal/locale"
	"github.com/tartampluch/go-agewidget/internal/settings"
)

// cli holds the state shared by all subcommands.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configFile string
	debug      bool
	today      string
	locale     string

	logCloser io.Closer
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{stdout: stdout, stderr: stderr}
}

func (c *cli) close() {
	if c.logCloser != nil {
		_ = c.logCloser.Close() // Best effort close
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           config.BinaryName,
		Short:         config.CmdShortRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.logCloser = setupLogging(c.debug, c.stderr)
			if cmd.Name() == config.CmdWatch || cmd.Name() == config.CmdServe {
				logStartupInfo()
			}
		},
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, config.FlagConfig, "", config.FlagDescConf)
	flags.BoolVar(&c.debug, config.FlagDebug, false, config.FlagDescDbg)
	flags.StringVar(&c.today, config.FlagToday, "", config.FlagDescDay)
	flags.StringVar(&c.locale, config.FlagLocale, "", config.FlagDescLoc)

	root.AddCommand(
		c.renderCmd(),
		c.watchCmd(),
		c.serveCmd(),
		c.localesCmd(),
		c.versionCmd(),
		c.passwordCmd(),
	)
	return root
}

// clock is the real clock, or a fixed one when --today is given.
func (c *cli) clock() (engine.Clock, error) {
	if c.today == "" {
		return engine.RealClock{}, nil
	}
	d, err := engine.ParseDateStrict(c.today)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrTodayFlag, err)
	}
	// Noon keeps the date stable whatever the local offset.
	return engine.FixedClock{At: time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.Local)}, nil
}

// loader builds the settings loader with the flag overrides applied.
func (c *cli) loader() *settings.Loader {
	l := settings.NewLoader(c.configFile)
	if c.locale != "" {
		if !locale.Has(c.locale) {
			slog.Warn(config.MsgLocaleUnknown,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyValue, c.locale)
		}
		l.Set(config.KeyLocale, c.locale)
	}
	return l
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdVersion,
		Short: config.CmdShortVersion,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}
