// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package lua

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/waymark/waymark/internal/addon"
	"github.com/waymark/waymark/internal/logging"
	"github.com/waymark/waymark/pkg/event"
)

// Addon is a loaded Lua addon. Its callbacks stay subscribed for the life of
// the registry; after Close they are skipped.
type Addon struct {
	manifest *addon.Manifest
	registry *event.Registry
	logger   *slog.Logger

	mu            sync.Mutex
	state         *lua.LState
	subscriptions []event.Type
	loadErr       error
	closed        bool
}

// Option configures addon loading.
type Option func(*Addon)

// WithLogger sets the logger backing waymark.log.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Addon) {
		a.logger = logger
	}
}

// LoadDir reads the manifest and entry script from dir and loads the addon.
func LoadDir(ctx context.Context, reg *event.Registry, dir string, opts ...Option) (*Addon, error) {
	m, err := addon.ReadManifest(dir)
	if err != nil {
		return nil, err
	}

	code, err := os.ReadFile(filepath.Clean(m.EntryPath()))
	if err != nil {
		return nil, oops.In("lua").
			With("addon", m.Name).
			With("path", m.EntryPath()).
			Wrapf(err, "read entry script")
	}

	return Load(ctx, reg, m, string(code), opts...)
}

// Load runs code for the addon described by m. Top-level calls to
// waymark.subscribe register Lua callbacks on reg under the addon's name.
// The script may only subscribe to channels that already exist and that the
// manifest declares.
func Load(ctx context.Context, reg *event.Registry, m *addon.Manifest, code string, opts ...Option) (*Addon, error) {
	if err := m.CheckAPI(event.APIVersion); err != nil {
		return nil, err
	}

	a := &Addon{
		manifest: m,
		registry: reg,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.ForAddon(a.logger, m.Name)

	L, err := newSandbox(ctx)
	if err != nil {
		return nil, err
	}
	a.state = L
	registerPayloadType(L)
	L.SetGlobal("waymark", a.module(L))

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := L.DoString(code); err != nil {
		// Subscriptions made before the failure cannot be removed; closing
		// turns them into no-ops.
		a.closed = true
		L.Close()
		if a.loadErr != nil {
			return nil, a.loadErr
		}
		return nil, errScript(m.Name, err)
	}
	L.RemoveContext()

	a.logger.Info("lua addon loaded",
		"version", m.Version,
		"subscriptions", len(a.subscriptions))
	return a, nil
}

// Name returns the addon name, which is also its subscriber identity.
func (a *Addon) Name() string { return a.manifest.Name }

// Manifest returns the addon manifest.
func (a *Addon) Manifest() *addon.Manifest { return a.manifest }

// Subscriptions returns the event types the addon subscribed to, in order.
func (a *Addon) Subscriptions() []event.Type {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.subscriptions)
}

// Close releases the Lua state. Callbacks invoked afterwards do nothing.
func (a *Addon) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.closed = true
	a.state.Close()
}

func (a *Addon) module(L *lua.LState) *lua.LTable {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"subscribe": a.luaSubscribe,
		"log":       a.luaLog,
	})
	L.SetField(mod, "api_version", lua.LString(event.APIVersion))
	L.SetField(mod, "addon", lua.LString(a.manifest.Name))
	return mod
}

// luaSubscribe implements waymark.subscribe(type, fn).
func (a *Addon) luaSubscribe(L *lua.LState) int {
	typ := event.Type(L.CheckString(1))
	fn := L.CheckFunction(2)

	if !a.manifest.Allows(typ) {
		a.raise(L, ErrUndeclaredEvent(a.manifest.Name, typ))
		return 0
	}
	h, ok := a.registry.Lookup(typ)
	if !ok {
		a.raise(L, ErrUnknownEvent(a.manifest.Name, typ))
		return 0
	}

	h.SubscribePayload(a.manifest.Name, a.callback(typ, fn))
	a.subscriptions = append(a.subscriptions, typ)
	return 0
}

// luaLog implements waymark.log([level,] message).
func (a *Addon) luaLog(L *lua.LState) int {
	level, msg := "info", L.CheckString(1)
	if L.GetTop() >= 2 {
		level, msg = strings.ToLower(msg), L.CheckString(2)
	}

	switch level {
	case "debug":
		a.logger.Debug(msg)
	case "warn":
		a.logger.Warn(msg)
	case "error":
		a.logger.Error(msg)
	default:
		a.logger.Info(msg)
	}
	return 0
}

// raise aborts the running script with err, keeping err for Load to return.
func (a *Addon) raise(L *lua.LState, err error) {
	a.loadErr = err
	L.RaiseError("%s", err.Error())
}

func (a *Addon) callback(typ event.Type, fn *lua.LFunction) func(event.Payload) error {
	return func(p event.Payload) error {
		a.mu.Lock()
		defer a.mu.Unlock()

		if a.closed {
			return nil
		}

		L := a.state
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, pushPayload(L, typ, p)); err != nil {
			return errScript(a.manifest.Name, err)
		}
		return nil
	}
}
