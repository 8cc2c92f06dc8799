package engine

import "mastery-service/internal/models"

// Mode is a question-presentation style. It governs which question pool a
// turn draws from.
type Mode string

const (
	// Foundation modes
	ModeGuidedSolve   Mode = "GUIDED_SOLVE"
	ModeCollaborative Mode = "COLLABORATIVE"

	// Active recall modes
	ModeRapidFire  Mode = "RAPID_FIRE"
	ModeFillStory  Mode = "FILL_STORY"
	ModeNumberSwap Mode = "NUMBER_SWAP"

	// Deep understanding modes
	ModeExplainBack Mode = "EXPLAIN_BACK"
	ModeSpotError   Mode = "SPOT_ERROR"

	// Mastery modes
	ModeBuildMap          Mode = "BUILD_MAP"
	ModeMasteryValidation Mode = "MASTERY_VALIDATION"

	// Rescue mode
	ModeMicroWins Mode = "MICRO_WINS"
)

// AllModes lists every mode the controller can reach, including the two
// (MICRO_WINS, MASTERY_VALIDATION) only the scheduler forces.
func AllModes() []Mode {
	return []Mode{
		ModeGuidedSolve,
		ModeCollaborative,
		ModeRapidFire,
		ModeFillStory,
		ModeNumberSwap,
		ModeExplainBack,
		ModeSpotError,
		ModeBuildMap,
		ModeMasteryValidation,
		ModeMicroWins,
	}
}

// SelectMode picks the next question mode for a concept. It is a pure
// function of the state category and attempt count, so the same state
// always yields the same mode.
func SelectMode(state *models.UserConceptState) Mode {
	switch state.State {
	case models.StateUntouched:
		return ModeGuidedSolve

	case models.StateStruggling:
		return ModeCollaborative

	case models.StateLearning:
		switch state.TotalAttempts % 3 {
		case 0:
			return ModeRapidFire
		case 1:
			return ModeFillStory
		default:
			return ModeNumberSwap
		}

	case models.StateProficient:
		if state.TotalAttempts%2 == 0 {
			return ModeExplainBack
		}
		return ModeSpotError

	default: // mastered
		return ModeBuildMap
	}
}
