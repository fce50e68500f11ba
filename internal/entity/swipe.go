package entity

import "time"

type Action string

const (
	ActionLike Action = "like"
	ActionPass Action = "pass"
)

func (a Action) Valid() bool {
	return a == ActionLike || a == ActionPass
}

// Swipe is one user's current decision about one profile. The composite
// unique index keeps a single row per (user, target) pair; a new decision
// overwrites action and timestamp in place.
type Swipe struct {
	ID              int64     `gorm:"primaryKey;column:id"`
	UserID          int64     `gorm:"column:user_id;not null;uniqueIndex:idx_swipes_user_target,priority:1"`
	TargetProfileID int64     `gorm:"column:target_profile_id;not null;index;uniqueIndex:idx_swipes_user_target,priority:2"`
	Action          Action    `gorm:"column:action;size:10;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Swipe) TableName() string {
	return "swipes"
}

type Outcome uint

const (
	OutcomeMatch Outcome = iota + 1 // Mutual like, match row created by this swipe
	OutcomeLiked
	OutcomePassed
	OutcomeAlreadyPassed
	OutcomeResponded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatch:
		return "Match"
	case OutcomeLiked:
		return "Liked successfully"
	case OutcomePassed:
		return "Passed successfully"
	case OutcomeAlreadyPassed:
		return "Already passed"
	case OutcomeResponded:
		return "Response recorded"
	default:
		return "Unknown"
	}
}

type Decision string

const (
	DecisionAccept  Decision = "accept"
	DecisionDecline Decision = "decline"
)

func (d Decision) Valid() bool {
	return d == DecisionAccept || d == DecisionDecline
}

// ToAction maps an incoming-like response onto the swipe it records.
func (d Decision) ToAction() Action {
	if d == DecisionAccept {
		return ActionLike
	}
	return ActionPass
}
