package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/halcyon-games/menagerie/internal/game/dice"
)

// registerModules registers the engine.* Lua table into L.
//
// engine.chance(p) performs a draw against probability p in [0, 1].
// engine.random(n) returns a uniform integer in [1, n].
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) registerModules(L *lua.LState) {
	engine := L.NewTable()

	L.SetField(engine, "chance", L.NewFunction(func(ls *lua.LState) int {
		p := float64(ls.CheckNumber(1))
		ls.Push(lua.LBool(dice.Chance(m.src, p)))
		return 1
	}))

	L.SetField(engine, "random", L.NewFunction(func(ls *lua.LState) int {
		n := int(ls.CheckInt(1))
		if n < 1 {
			ls.ArgError(1, "bound must be >= 1")
			return 0
		}
		ls.Push(lua.LNumber(m.src.Intn(n) + 1))
		return 1
	}))

	L.SetGlobal("engine", engine)
}
