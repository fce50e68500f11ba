package match

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ivkudzin/unimatch/internal/entity"
	matchRepo "github.com/ivkudzin/unimatch/internal/repository/match"
	profileRepo "github.com/ivkudzin/unimatch/internal/repository/profile"
)

type IMatchUseCase interface {
	// LikeProfile records a like on the target profile and reports whether
	// this like closed a mutual pair. A repeat like is a conflict.
	LikeProfile(ctx context.Context, userID, profileID int64) (matched bool, outcome entity.Outcome, err error)

	// PassProfile records a pass. Repeating a pass is a benign no-op.
	PassProfile(ctx context.Context, userID, profileID int64) (entity.Outcome, error)

	// RespondToLike answers an incoming like: accept records a like and may
	// close the pair, decline records a pass and never creates a match.
	RespondToLike(ctx context.Context, userID, targetUserID int64, decision entity.Decision) (matched bool, outcome entity.Outcome, err error)

	ListMatches(ctx context.Context, userID int64) ([]entity.Profile, error)
}

type matchUseCase struct {
	profileRepo profileRepo.IProfileRepo
	matchRepo   matchRepo.IMatchRepo
	log         *slog.Logger
}

func NewMatchUseCase(
	profileRepo profileRepo.IProfileRepo,
	matchRepo matchRepo.IMatchRepo,
	log *slog.Logger,
) IMatchUseCase {
	return &matchUseCase{
		profileRepo: profileRepo,
		matchRepo:   matchRepo,
		log:         log,
	}
}

func (m *matchUseCase) LikeProfile(ctx context.Context, userID, profileID int64) (bool, entity.Outcome, error) {
	target, err := m.profileRepo.GetActiveByID(ctx, profileID)
	if err != nil {
		return false, 0, err
	}
	if target.UserID == userID {
		return false, 0, entity.ErrOwnProfile
	}

	// The reciprocal check needs the actor's own profile id; without an
	// active profile the like still lands but cannot match.
	actorProfileID := int64(0)
	if actor, err := m.profileRepo.GetActiveByUserID(ctx, userID); err == nil {
		actorProfileID = actor.ID
	} else if !errors.Is(err, entity.ErrNotFound) {
		return false, 0, err
	}

	matched, outcome, err := m.matchRepo.RecordSwipe(ctx, matchRepo.SwipeParams{
		ActorUserID:    userID,
		ActorProfileID: actorProfileID,
		Target:         target,
		Action:         entity.ActionLike,
	})
	if err != nil {
		return false, 0, err
	}

	if matched {
		m.log.Info("match created", "user_id", userID, "peer_user_id", target.UserID)
	}
	return matched, outcome, nil
}

func (m *matchUseCase) PassProfile(ctx context.Context, userID, profileID int64) (entity.Outcome, error) {
	target, err := m.profileRepo.GetActiveByID(ctx, profileID)
	if err != nil {
		return 0, err
	}

	_, outcome, err := m.matchRepo.RecordSwipe(ctx, matchRepo.SwipeParams{
		ActorUserID: userID,
		Target:      target,
		Action:      entity.ActionPass,
	})
	return outcome, err
}

func (m *matchUseCase) RespondToLike(ctx context.Context, userID, targetUserID int64, decision entity.Decision) (bool, entity.Outcome, error) {
	actor, err := m.profileRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		return false, 0, err
	}
	target, err := m.profileRepo.GetActiveByUserID(ctx, targetUserID)
	if err != nil {
		return false, 0, err
	}

	matched, _, err := m.matchRepo.RecordSwipe(ctx, matchRepo.SwipeParams{
		ActorUserID:     userID,
		ActorProfileID:  actor.ID,
		Target:          target,
		Action:          decision.ToAction(),
		OverwriteRepeat: true,
	})
	if err != nil {
		return false, 0, err
	}

	if matched {
		m.log.Info("match created", "user_id", userID, "peer_user_id", targetUserID)
		return true, entity.OutcomeMatch, nil
	}
	return false, entity.OutcomeResponded, nil
}

func (m *matchUseCase) ListMatches(ctx context.Context, userID int64) ([]entity.Profile, error) {
	if _, err := m.profileRepo.GetActiveByUserID(ctx, userID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return []entity.Profile{}, nil
		}
		return nil, err
	}

	return m.matchRepo.ListMatchedProfiles(ctx, userID)
}
