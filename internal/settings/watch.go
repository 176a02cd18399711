package settings

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/tartampluch/go-agewidget/internal/config"
)

// Store keeps the latest valid settings of a Loader.
type Store struct {
	loader *Loader

	mu      sync.RWMutex
	current Settings
}

// NewStore loads the configuration once.
func NewStore(l *Loader) (*Store, error) {
	s, err := l.Load()
	if err != nil {
		return nil, err
	}
	// A missing password only degrades remote contacts; it is logged inside.
	_ = s.ResolvePassword()
	return &Store{loader: l, current: s}, nil
}

// Current returns the latest valid settings.
func (st *Store) Current() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// Watch follows the configuration file. Each valid change replaces the
// current settings and sends one signal on the returned channel; invalid
// changes are logged and ignored. Without a configuration file the channel
// never fires.
func (st *Store) Watch(ctx context.Context) <-chan struct{} {
	reload := make(chan struct{}, config.ChannelBufferSize)
	log := slog.With(config.LogKeyComponent, config.CompSettings)

	file := st.loader.ConfigFile()
	if file == "" {
		return reload
	}

	st.loader.v.OnConfigChange(func(e fsnotify.Event) {
		if ctx.Err() != nil {
			return
		}
		st.apply(e.Name, reload)
	})
	st.loader.v.WatchConfig()
	log.Info(config.MsgConfigWatch, config.LogKeyFile, file)
	return reload
}

func (st *Store) apply(name string, reload chan<- struct{}) {
	next, err := st.loader.decode()
	if err != nil {
		slog.Warn(config.MsgConfigReject,
			config.LogKeyComponent, config.CompSettings,
			config.LogKeyFile, name,
			config.LogKeyError, err)
		return
	}
	_ = next.ResolvePassword()

	st.mu.Lock()
	st.current = next
	st.mu.Unlock()

	// Non-blocking: one pending reload is enough.
	select {
	case reload <- struct{}{}:
	default:
	}
}
