package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/bestiary/internal/game/modifier"
)

// RegisterModules installs the engine table into L:
//
//	engine.log(msg)        logs msg at info level with the script name
//	engine.slugify(s)      returns the selector slug of s
//	engine.has_trait(npc, t) reports whether npc.traits contains t
func (m *Manager) RegisterModules(L *lua.LState, script string) {
	engine := L.NewTable()
	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Info("lua", zap.String("script", script), zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetField(engine, "slugify", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(modifier.Slugify(L.CheckString(1))))
		return 1
	}))
	L.SetField(engine, "has_trait", L.NewFunction(func(L *lua.LState) int {
		npc := L.CheckTable(1)
		want := L.CheckString(2)
		found := false
		if traits, ok := npc.RawGetString("traits").(*lua.LTable); ok {
			traits.ForEach(func(_, v lua.LValue) {
				if v.String() == want {
					found = true
				}
			})
		}
		L.Push(lua.LBool(found))
		return 1
	}))
	L.SetGlobal("engine", engine)
}
