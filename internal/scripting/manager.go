package scripting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/bestiary/internal/game/rules"
)

// RuleHook is the global function a rule script defines.
const RuleHook = "rule_elements"

// script is one loaded rule script with its private VM.
type script struct {
	name string
	mu   sync.Mutex
	L    *lua.LState
}

// Manager owns one sandboxed LState per loaded script and implements
// rules.Source by calling every script's rule_elements hook.
//
// Manager is safe for concurrent use. Calls into the same script are
// serialized; different scripts run independently.
type Manager struct {
	mu        sync.RWMutex
	scripts   map[string]*script
	instLimit int
	logger    *zap.Logger
}

// NewManager creates a Manager whose hooks run with at most instLimit
// opcodes per call.
//
// Precondition: logger must be non-nil.
func NewManager(logger *zap.Logger, instLimit int) *Manager {
	return &Manager{
		scripts:   make(map[string]*script),
		instLimit: instLimit,
		logger:    logger,
	}
}

// LoadDirectory loads every *.lua file in dir, each into its own VM, in
// lexicographic order. A script with the same name as a loaded one
// replaces it.
//
// Precondition: dir must be a readable directory.
// Postcondition: on error no script from dir after the failing one is loaded.
func (m *Manager) LoadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		path := filepath.Join(dir, name)
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("scripting: reading %q: %w", path, err)
		}
		if err := m.LoadString(strings.TrimSuffix(name, ".lua"), string(src)); err != nil {
			return err
		}
	}
	return nil
}

// LoadString compiles and runs src as the script called name.
func (m *Manager) LoadString(name, src string) error {
	L := NewSandboxedState()
	m.RegisterModules(L, name)
	if err := RunLimited(context.Background(), L, m.instLimit, func() error {
		return L.DoString(src)
	}); err != nil {
		L.Close()
		return fmt.Errorf("scripting: loading %q: %w", name, err)
	}

	m.mu.Lock()
	old := m.scripts[name]
	m.scripts[name] = &script{name: name, L: L}
	m.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Debug("rule script loaded", zap.String("script", name))
	return nil
}

// Scripts returns the loaded script names, sorted.
func (m *Manager) Scripts() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.scripts))
	for name := range m.scripts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, s := range m.scripts {
		s.mu.Lock()
		s.L.Close()
		s.mu.Unlock()
		delete(m.scripts, name)
	}
}

// CallHook calls the global function hook in the named script. Returns
// (LNil, nil) if the script or hook does not exist. Lua runtime errors,
// including an exhausted instruction budget, are logged at Warn and yield
// LNil; only cancellation of ctx is returned as an error.
func (m *Manager) CallHook(ctx context.Context, name, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	s := m.scripts[name]
	m.mu.RUnlock()
	if s == nil {
		m.logger.Info("scripting: no such script", zap.String("script", name), zap.String("hook", hook))
		return lua.LNil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fn := s.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	var ret lua.LValue = lua.LNil
	err := RunLimited(ctx, s.L, m.instLimit, func() error {
		if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return lua.LNil, ctxErr
		}
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("script", name),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	return ret, nil
}

// Collect implements rules.Source. Each script's rule_elements(npc) result
// is applied in script order. Scripts that fail at runtime contribute
// nothing; malformed elements are skipped and reported in the joined error.
func (m *Manager) Collect(ctx context.Context, subject rules.Subject) (rules.Output, error) {
	out := rules.NewOutput()
	var errs []error
	for _, name := range m.Scripts() {
		m.mu.RLock()
		s := m.scripts[name]
		m.mu.RUnlock()
		if s == nil {
			continue
		}

		s.mu.Lock()
		arg := subjectTable(s.L, subject)
		s.mu.Unlock()

		ret, err := m.CallHook(ctx, name, RuleHook, arg)
		if err != nil {
			return rules.Output{}, err
		}
		elems, err := elementsFromLua(ret)
		if err != nil {
			errs = append(errs, fmt.Errorf("script %q: %w", name, err))
			continue
		}
		for i, se := range elems {
			source := se.source
			if source == "" {
				source = "script:" + name
			}
			if err := out.Apply(source, se.element); err != nil {
				errs = append(errs, fmt.Errorf("script %q element %d: %w", name, i+1, err))
			}
		}
	}
	return out, errors.Join(errs...)
}
