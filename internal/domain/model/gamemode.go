package model

// GameMode identifies a puzzle game mode. The set is closed; tables keyed
// by GameMode are validated at startup to cover every mode.
type GameMode string

const (
	ModeTutorial       GameMode = "tutorial"
	ModeElementMatch   GameMode = "element_match"
	ModeSymbolQuiz     GameMode = "symbol_quiz"
	ModeMemoryPairs    GameMode = "memory_pairs"
	ModeGroupSort      GameMode = "group_sort"
	ModeElectronConfig GameMode = "electron_config"
	ModeBondBuilder    GameMode = "bond_builder"
	ModeReactionRace   GameMode = "reaction_race"
	ModeIsotopeHunt    GameMode = "isotope_hunt"
	ModePeriodicMaster GameMode = "periodic_master"
	ModeLabMaster      GameMode = "lab_master"
)

// AllGameModes lists every mode in rough difficulty order.
func AllGameModes() []GameMode {
	return []GameMode{
		ModeTutorial,
		ModeElementMatch,
		ModeSymbolQuiz,
		ModeMemoryPairs,
		ModeGroupSort,
		ModeElectronConfig,
		ModeBondBuilder,
		ModeReactionRace,
		ModeIsotopeHunt,
		ModePeriodicMaster,
		ModeLabMaster,
	}
}

// Valid reports whether the mode is one of the closed set.
func (m GameMode) Valid() bool {
	for _, known := range AllGameModes() {
		if m == known {
			return true
		}
	}
	return false
}

// Difficulty is the closed set of puzzle difficulty levels used by the
// economy reward calculation.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether the difficulty is one of the closed set.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
