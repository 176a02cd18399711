package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-agewidget/internal/config"
	"github.com/tartampluch/go-agewidget/internal/engine"
	"github.com/tartampluch/go-agewidget/internal/locale"
	"github.com/tartampluch/go-agewidget/internal/server"
	"github.com/tartampluch/go-agewidget/internal/settings"
	"github.com/tartampluch/go-agewidget/internal/worker"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// setup loads the settings and the clock shared by the board commands.
func (c *cli) setup(overrides map[string]any) (*settings.Store, engine.Clock, error) {
	clock, err := c.clock()
	if err != nil {
		return nil, nil, err
	}

	l := c.loader()
	for k, v := range overrides {
		l.Set(k, v)
	}
	store, err := settings.NewStore(l)
	if err != nil {
		return nil, nil, err
	}
	return store, clock, nil
}

func (c *cli) renderCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   config.CmdRender,
		Short: config.CmdShortRender,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, clock, err := c.setup(nil)
			if err != nil {
				return err
			}

			p := newPipeline(store, clock)
			board, _, err := p.board(cmd.Context(), engine.Today(clock))
			if err != nil {
				return fmt.Errorf("%s: %w", config.ErrRenderFailed, err)
			}
			return writeBoard(cmd.OutOrStdout(), board, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, config.FlagJSON, false, config.FlagDescJSON)
	return cmd
}

func (c *cli) watchCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   config.CmdWatch,
		Short: config.CmdShortWatch,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, clock, err := c.setup(nil)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			p := newPipeline(store, clock)
			out := cmd.OutOrStdout()

			sched := &worker.Scheduler{
				Clock:  clock,
				Timing: timingOf(store),
				Render: func(ctx context.Context, today engine.CalendarDate, trigger string) {
					board, _, err := p.board(ctx, today)
					if err != nil {
						slog.Warn(config.ErrContactsLoad, config.LogKeyComponent, config.CompMain, config.LogKeyError, err)
					}
					if err := writeBoard(out, board, asJSON); err != nil {
						slog.Error(config.ErrRenderFailed, config.LogKeyComponent, config.CompMain, config.LogKeyError, err)
					}
				},
			}
			sched.Run(ctx, store.Watch(ctx))

			slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, config.FlagJSON, false, config.FlagDescJSON)
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   config.CmdServe,
		Short: config.CmdShortServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]any{}
			if addr != "" {
				overrides[config.KeyServerAddr] = addr
			}
			store, clock, err := c.setup(overrides)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			p := newPipeline(store, clock)
			srv := server.NewServer(store.Current().ServerAddr)

			sched := &worker.Scheduler{
				Clock:  clock,
				Timing: timingOf(store),
				Render: func(ctx context.Context, today engine.CalendarDate, trigger string) {
					publish(ctx, p, srv, today, trigger)
				},
			}

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				sched.Run(ctx, store.Watch(ctx))
			}()

			err = srv.Start(ctx)
			wg.Wait()
			if err != nil {
				return err
			}
			slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, config.FlagAddr, "", config.FlagDescAddr)
	return cmd
}

// publish renders the board and the feed and hands both to the server.
func publish(ctx context.Context, p *pipeline, srv *server.Server, today engine.CalendarDate, trigger string) {
	log := slog.With(config.LogKeyComponent, config.CompMain, config.LogKeyTrigger, trigger)

	board, entities, err := p.board(ctx, today)
	if err != nil {
		log.Warn(config.ErrContactsLoad, config.LogKeyError, err)
	}
	if err := srv.PublishBoard(trigger, board); err != nil {
		log.Error(config.ErrRenderFailed, config.LogKeyError, err)
	}

	data, err := p.calendar(ctx, entities)
	if err != nil {
		log.Error(config.ErrICalEncode, config.LogKeyError, err)
		return
	}
	srv.PublishCalendar(data)
}

func timingOf(store *settings.Store) func() worker.Timing {
	return func() worker.Timing {
		s := store.Current()
		return worker.Timing{Interval: s.UpdateInterval, AtMidnight: s.UpdateAtMidnight}
	}
}

func (c *cli) localesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdLocales,
		Short: config.CmdShortLocales,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, code := range locale.Codes() {
				name := display.Self.Name(language.Make(code))
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), config.FormatLocaleLine, code, name)
			}
		},
	}
}

// passwordCmd stores the contacts password so that it can stay out of the
// configuration file. The user defaults to contacts.user.
func (c *cli) passwordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdPassword + config.CmdUsePassword,
		Short: config.CmdShortPassword,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var user string
			if len(args) == 1 {
				user = args[0]
			} else {
				s, err := c.loader().Load()
				if err != nil {
					return err
				}
				user = s.Contacts.WebUser
			}
			if user == "" {
				return errors.New(config.ErrPasswordUser)
			}

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("%s: %w", config.ErrPasswordRead, err)
			}
			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				return errors.New(config.ErrPasswordEmpty)
			}

			if err := settings.StorePassword(user, password); err != nil {
				return fmt.Errorf("%s: %w", config.ErrPasswordStore, err)
			}
			slog.Info(config.MsgPassStored,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyUser, user)
			return nil
		},
	}
}
