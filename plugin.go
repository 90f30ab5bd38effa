package aqua

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
)

// Plugin ties the helpers to a host server. It owns the world registry, the
// online player index, the offline player store and the scheduler.
//
// Most helpers in this package act on the registered plugin, see Register
// and Current. Only one plugin is registered per process.
type Plugin struct {
	name string
	host Host
	conf Config
	log  *slog.Logger

	worlds    *worldRegistry
	online    *onlineIndex
	store     *PlayerStore
	scheduler *Scheduler

	closed atomic.Bool
}

// pluginOptions holds the optional dependencies of a plugin.
type pluginOptions struct {
	log      *slog.Logger
	store    *PlayerStore
	executor Executor
}

// PluginOption configures a plugin.
type PluginOption func(*pluginOptions)

// WithLogger sets the logger of the plugin. Default: slog.Default().
func WithLogger(log *slog.Logger) PluginOption {
	return func(o *pluginOptions) {
		o.log = log
	}
}

// WithPlayerStore uses store instead of opening Config.PlayerStore.
// The plugin closes the store when it is closed.
func WithPlayerStore(store *PlayerStore) PluginOption {
	return func(o *pluginOptions) {
		o.store = store
	}
}

// WithExecutor runs synchronous tasks through exec instead of transactions of
// Config.MainWorld.
func WithExecutor(exec Executor) PluginOption {
	return func(o *pluginOptions) {
		o.executor = exec
	}
}

// New creates a plugin for host. The plugin does nothing until Enable is
// called.
//
// Usage:
//
//	conf, err := aqua.LoadConfig("aqua.yml")
//	if err != nil {
//	    return err
//	}
//	plugin, err := aqua.New("MyGame", srv, conf)
//	if err != nil {
//	    return err
//	}
//	plugin.Enable()
//	defer plugin.Close()
func New(name string, host Host, conf Config, opts ...PluginOption) (*Plugin, error) {
	if host == nil {
		return nil, errors.New("aqua: nil host")
	}

	o := pluginOptions{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	pl := &Plugin{
		name:   name,
		host:   host,
		conf:   conf,
		log:    o.log.With("plugin", name),
		worlds: newWorldRegistry(),
		online: newOnlineIndex(),
	}
	pl.worlds.registerHost(host)

	exec := o.executor
	if exec == nil {
		w, ok := pl.worlds.lookup(conf.MainWorld)
		if !ok {
			return nil, fmt.Errorf("aqua: main world %q not found, known worlds: [%s]",
				conf.MainWorld, strings.Join(pl.worlds.names(), ", "))
		}
		exec = worldExecutor{w: w}
	}

	pl.store = o.store
	if pl.store == nil {
		store, err := OpenPlayerStore(conf.PlayerStore)
		if err != nil {
			return nil, err
		}
		pl.store = store
	}

	pl.scheduler = newScheduler(exec, conf, pl.log)
	return pl, nil
}

// Name returns the name of the plugin.
func (pl *Plugin) Name() string {
	return pl.name
}

// Host returns the server the plugin runs on.
func (pl *Plugin) Host() Host {
	return pl.host
}

// Config returns the configuration the plugin was created with.
func (pl *Plugin) Config() Config {
	return pl.conf
}

// Logger returns the plugin's logger.
func (pl *Plugin) Logger() *slog.Logger {
	return pl.log
}

// Scheduler returns the plugin's task scheduler.
func (pl *Plugin) Scheduler() *Scheduler {
	return pl.scheduler
}

// Store returns the plugin's offline player store.
func (pl *Plugin) Store() *PlayerStore {
	return pl.store
}

// Enable starts the scheduler and registers the plugin as the process-wide
// instance used by the package level helpers.
func (pl *Plugin) Enable() {
	pl.scheduler.Start()
	Register(pl)
	pl.log.Info("aqua: plugin enabled", "tick_rate", pl.scheduler.tickRate)
}

// Close stops the scheduler, closes the offline player store and unregisters
// the plugin. Pending tasks are cancelled. Close should be called before the
// server itself is closed.
func (pl *Plugin) Close() error {
	if pl.closed.Swap(true) {
		return nil
	}

	pl.scheduler.Stop()
	current.CompareAndSwap(pl, nil)

	if err := pl.store.Close(); err != nil {
		return err
	}
	pl.log.Info("aqua: plugin disabled")
	return nil
}

// current is the registered plugin.
var current atomic.Pointer[Plugin]

// Register makes pl the plugin used by the package level helpers.
// Enable calls it; it is exported for hosts that manage the lifecycle
// themselves.
func Register(pl *Plugin) {
	current.Store(pl)
}

// Current returns the registered plugin. It panics if none is registered,
// as every helper needing the host is unusable without one.
func Current() *Plugin {
	pl := current.Load()
	if pl == nil {
		panic("aqua: no plugin registered")
	}
	return pl
}
