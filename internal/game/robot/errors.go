package robot

import "errors"

var (
	// ErrInvalidName is returned when a robot name is empty or too long after sanitising.
	ErrInvalidName = errors.New("robot name must be between 1 and 20 printable characters")
	// ErrSameLanguage is returned when both slots would hold the same language.
	ErrSameLanguage = errors.New("languages must be different")
	// ErrActiveRobot is returned when creating a robot over one that is not awaiting creation.
	ErrActiveRobot = errors.New("an active robot already exists")
	// ErrNotInCorner is returned for corner actions outside the corner phase.
	ErrNotInCorner = errors.New("robot must be in the corner")
	// ErrNotFighting is returned when a fight result is applied to a robot not in a fight.
	ErrNotFighting = errors.New("robot is not fighting")
	// ErrFightPending is returned when applying a fight that has not finished.
	ErrFightPending = errors.New("fight has not been resolved yet")
	// ErrOnCooldown is returned when a corner action's cooldown has not elapsed.
	ErrOnCooldown = errors.New("action on cooldown")
	// ErrInsufficientXP is returned when training costs more XP than the robot has.
	ErrInsufficientXP = errors.New("not enough XP")
	// ErrNotTrainable is returned when training HP or an unknown stat.
	ErrNotTrainable = errors.New("stat cannot be trained")
	// ErrInvalidSlot is returned for language slots other than 1 and 2.
	ErrInvalidSlot = errors.New("slot must be 1 or 2")
	// ErrTooFewFights is returned for voluntary retirement before the minimum fight count.
	ErrTooFewFights = errors.New("not enough fights to retire")
)
