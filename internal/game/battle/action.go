package battle

// ActionType identifies what a combatant intends to do on their turn.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionType int

const (
	ActionUnknown ActionType = iota // zero value; intentionally invalid
	ActionAttack
	ActionAbility
	ActionItem
	ActionDefend
	ActionFlee
	ActionCapture
)

// String returns the human-readable name of the ActionType.
func (a ActionType) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionAbility:
		return "ability"
	case ActionItem:
		return "item"
	case ActionDefend:
		return "defend"
	case ActionFlee:
		return "flee"
	case ActionCapture:
		return "capture"
	default:
		return "unknown"
	}
}

// Action is the single action-request type passed to the engine.
type Action struct {
	Type    ActionType
	ActorID string
	// TargetID is the primary target; empty for self/no-target actions.
	TargetID string
	// TargetIDs overrides TargetID for multi-target abilities.
	TargetIDs []string
	AbilityID string
	ItemID    string
}

// Result wraps the battle produced by resolving one action.
type Result struct {
	Battle     Battle
	Damage     int
	IsCritical bool
	// Message is a human-readable description of the outcome, for the
	// presentation layer.
	Message string
}

// ItemTarget is the snapshot of a combatant handed to the item resolver.
type ItemTarget struct {
	HP    int
	MaxHP int
	MP    int
	MaxMP int
}

// ItemEffect is the numeric result an item resolver returns.
type ItemEffect struct {
	HPDelta int
	MPDelta int
	Message string
}

// ItemResolver computes item effects. The engine delegates all item
// semantics to it and only applies the returned numbers.
type ItemResolver interface {
	// Resolve returns the effect of using itemID on target, or false when
	// the item is unknown.
	Resolve(itemID string, target ItemTarget) (ItemEffect, bool)
	// DeviceMultiplier returns the capture multiplier for itemID, or false
	// when the item is not a capture device.
	DeviceMultiplier(itemID string) (float64, bool)
}
