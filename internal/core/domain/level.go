package domain

import "fmt"

// Level identifies a tier of the weight hierarchy, from division at the top
// down to the priced items at the bottom.
type Level string

const (
	// LevelDivision is the top tier. Division weights sum to 100.
	LevelDivision Level = "division"
	// LevelGroup sits under a division.
	LevelGroup Level = "group"
	// LevelClass sits under a group.
	LevelClass Level = "class"
	// LevelSubclass sits under a class. The subclass tier is optional;
	// hierarchies built without one resolve items straight to classes.
	LevelSubclass Level = "subclass"
	// LevelItem is the bottom tier, the only tier with price observations.
	LevelItem Level = "item"
)

// Levels lists all tiers from top to bottom.
var Levels = []Level{LevelDivision, LevelGroup, LevelClass, LevelSubclass, LevelItem}

// SelectorLevels lists the tiers that exclusion selectors may target.
// The optional subclass tier is not one of them.
var SelectorLevels = []Level{LevelDivision, LevelGroup, LevelClass, LevelItem}

// IsValid reports whether the level is one of the defined tiers.
func (l Level) IsValid() bool {
	switch l {
	case LevelDivision, LevelGroup, LevelClass, LevelSubclass, LevelItem:
		return true
	}
	return false
}

// IsSelector reports whether exclusion selectors may target this level.
func (l Level) IsSelector() bool {
	switch l {
	case LevelDivision, LevelGroup, LevelClass, LevelItem:
		return true
	}
	return false
}

// String returns the level name.
func (l Level) String() string {
	return string(l)
}

// Description returns a human-readable explanation for UI display.
func (l Level) Description() string {
	switch l {
	case LevelDivision:
		return "Top-level division (weights sum to 100)"
	case LevelGroup:
		return "Group within a division"
	case LevelClass:
		return "Class within a group"
	case LevelSubclass:
		return "Subclass within a class (optional tier)"
	case LevelItem:
		return "Priced item"
	default:
		return "Unknown level"
	}
}

// ParseLevel converts a string to a Level, accepting the canonical names.
// Returns ErrInvalidInput for anything else.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if !l.IsValid() {
		return "", fmt.Errorf("%w: unknown level %q", ErrInvalidInput, s)
	}
	return l, nil
}
