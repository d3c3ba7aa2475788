package item

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/halcyon-games/menagerie/internal/game/battle"
	"github.com/halcyon-games/menagerie/internal/scripting"
)

// ScriptCollection is the scripting.Manager collection key item hooks live in.
const ScriptCollection = "items"

// Resolver computes item effects for the battle engine. Items whose
// definition names a Lua hook are resolved by that script; everything else
// falls back to the definition's numeric Power.
//
// Resolver satisfies battle.ItemResolver.
type Resolver struct {
	reg     *Registry
	scripts *scripting.Manager
	logger  *zap.Logger
}

// NewResolver creates a Resolver. scripts may be nil, disabling Lua hooks.
//
// Precondition: reg and logger must be non-nil.
func NewResolver(reg *Registry, scripts *scripting.Manager, logger *zap.Logger) *Resolver {
	return &Resolver{reg: reg, scripts: scripts, logger: logger}
}

// Resolve returns the effect of using itemID on target, or false when the
// item is unknown.
func (r *Resolver) Resolve(itemID string, target battle.ItemTarget) (battle.ItemEffect, bool) {
	def, ok := r.reg.Get(itemID)
	if !ok {
		return battle.ItemEffect{}, false
	}

	if def.Script != "" && r.scripts != nil && r.scripts.HasHook(ScriptCollection, def.Script) {
		if effect, ok := r.resolveScripted(def, target); ok {
			return effect, true
		}
		// A broken script degrades to the numeric fallback rather than
		// making the item unusable.
	}

	switch def.Kind {
	case KindHealing:
		return battle.ItemEffect{
			HPDelta: def.Power,
			Message: fmt.Sprintf("The %s restores %d HP.", def.Name, def.Power),
		}, true
	default:
		return battle.ItemEffect{
			Message: fmt.Sprintf("The %s has no effect here.", def.Name),
		}, true
	}
}

// resolveScripted calls the item's Lua hook with a snapshot table and decodes
// the returned table.
func (r *Resolver) resolveScripted(def *Definition, target battle.ItemTarget) (battle.ItemEffect, bool) {
	arg := &lua.LTable{}
	arg.RawSetString("hp", lua.LNumber(target.HP))
	arg.RawSetString("max_hp", lua.LNumber(target.MaxHP))
	arg.RawSetString("mp", lua.LNumber(target.MP))
	arg.RawSetString("max_mp", lua.LNumber(target.MaxMP))
	arg.RawSetString("power", lua.LNumber(def.Power))

	ret, err := r.scripts.CallHook(ScriptCollection, def.Script, arg)
	if err != nil {
		return battle.ItemEffect{}, false
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		r.logger.Warn("item script returned non-table",
			zap.String("item", def.ID),
			zap.String("hook", def.Script),
		)
		return battle.ItemEffect{}, false
	}

	effect := battle.ItemEffect{
		HPDelta: int(lua.LVAsNumber(tbl.RawGetString("hp_delta"))),
		MPDelta: int(lua.LVAsNumber(tbl.RawGetString("mp_delta"))),
		Message: lua.LVAsString(tbl.RawGetString("message")),
	}
	return effect, true
}

// DeviceMultiplier returns the capture multiplier for itemID, or false when
// the item is not a capture device.
func (r *Resolver) DeviceMultiplier(itemID string) (float64, bool) {
	def, ok := r.reg.Get(itemID)
	if !ok || def.Kind != KindCapture {
		return 0, false
	}
	return def.DeviceMultiplier, true
}
