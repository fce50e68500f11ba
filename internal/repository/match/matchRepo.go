package matchRepo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis"
	"github.com/ivkudzin/unimatch/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IMatchRepo interface {
	// RecordSwipe upserts the actor's decision about the target profile and,
	// for likes, closes the mutual pair when the reciprocal like exists.
	RecordSwipe(ctx context.Context, params SwipeParams) (matched bool, outcome entity.Outcome, err error)

	// ListMatchedProfiles returns the active profile on the other side of
	// every match involving userID, newest match first.
	ListMatchedProfiles(ctx context.Context, userID int64) ([]entity.Profile, error)

	// IncomingLikeCount counts unanswered likes targeting profileID. The
	// value is cached per user and invalidated on every swipe write.
	IncomingLikeCount(ctx context.Context, userID, profileID int64) (int64, error)
}

type SwipeParams struct {
	ActorUserID    int64
	ActorProfileID int64 // 0 when the actor has no active profile
	Target         *entity.Profile
	Action         entity.Action

	// OverwriteRepeat replays the decision even when it equals the stored
	// one. Direct swipes leave it false: a repeat like is a conflict and a
	// repeat pass is a benign no-op. Responses to incoming likes set it.
	OverwriteRepeat bool
}

type MatchRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewMatchRepo(db *gorm.DB, rdb *redis.Client) IMatchRepo {
	return &MatchRepo{
		db:  db,
		rdb: rdb,
	}
}

func (m *MatchRepo) RecordSwipe(ctx context.Context, params SwipeParams) (bool, entity.Outcome, error) {
	var (
		matched bool
		outcome entity.Outcome
	)

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.Swipe
		res := tx.Where("user_id = ? AND target_profile_id = ?", params.ActorUserID, params.Target.ID).
			First(&existing)

		found := res.Error == nil
		if res.Error != nil && !errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return res.Error
		}

		if found && existing.Action == params.Action && !params.OverwriteRepeat {
			if params.Action == entity.ActionLike {
				return entity.ErrAlreadyLiked
			}
			outcome = entity.OutcomeAlreadyPassed
			return nil
		}

		swipe := entity.Swipe{
			UserID:          params.ActorUserID,
			TargetProfileID: params.Target.ID,
			Action:          params.Action,
			CreatedAt:       time.Now().UTC(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_profile_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"action", "created_at"}),
		}).Create(&swipe).Error; err != nil {
			return err
		}

		if params.Action == entity.ActionPass {
			outcome = entity.OutcomePassed
			return nil
		}
		outcome = entity.OutcomeLiked

		// Without an active profile of their own the actor cannot be liked
		// back, so there is no pair to close.
		if params.ActorProfileID == 0 {
			return nil
		}

		var reciprocal entity.Swipe
		res = tx.Where("user_id = ? AND target_profile_id = ? AND action = ?",
			params.Target.UserID, params.ActorProfileID, entity.ActionLike).
			First(&reciprocal)

		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil
		}
		if res.Error != nil {
			return res.Error
		}

		user1, user2 := entity.CanonicalPair(params.ActorUserID, params.Target.UserID)
		match := entity.Match{
			User1ID:   user1,
			User2ID:   user2,
			MatchedAt: time.Now().UTC(),
		}

		// The unique index on the canonical pair settles concurrent mutual
		// likes: only the insert that actually lands reports the match.
		ins := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
			DoNothing: true,
		}).Create(&match)
		if ins.Error != nil {
			return ins.Error
		}

		if ins.RowsAffected == 1 {
			matched = true
			outcome = entity.OutcomeMatch
		}
		return nil
	})

	if err != nil {
		return false, 0, err
	}

	m.invalidateCounts(params.ActorUserID, params.Target.UserID)
	return matched, outcome, nil
}

func (m *MatchRepo) ListMatchedProfiles(ctx context.Context, userID int64) ([]entity.Profile, error) {
	var matches []entity.Match
	res := m.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("matched_at DESC").
		Find(&matches)
	if res.Error != nil {
		return nil, res.Error
	}
	if len(matches) == 0 {
		return []entity.Profile{}, nil
	}

	peerIDs := make([]int64, 0, len(matches))
	for _, match := range matches {
		peerIDs = append(peerIDs, match.OtherUser(userID))
	}

	var profiles []entity.Profile
	res = m.db.WithContext(ctx).
		Where("user_id IN ? AND is_active = ? AND deleted_at IS NULL", peerIDs, true).
		Find(&profiles)
	if res.Error != nil {
		return nil, res.Error
	}

	byUserID := make(map[int64]entity.Profile, len(profiles))
	for _, p := range profiles {
		byUserID[p.UserID] = p
	}

	// Preserve match order; skip peers whose profile went inactive.
	ordered := make([]entity.Profile, 0, len(matches))
	for _, id := range peerIDs {
		if p, ok := byUserID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (m *MatchRepo) IncomingLikeCount(ctx context.Context, userID, profileID int64) (int64, error) {
	key := likeCountKey(userID)

	if count, err := m.rdb.Get(key).Int64(); err == nil {
		return count, nil
	}

	responded := m.db.Model(&entity.Swipe{}).
		Select("target_profile_id").
		Where("user_id = ?", userID)

	var count int64
	err := m.db.WithContext(ctx).
		Model(&entity.Swipe{}).
		Joins("JOIN profiles ON profiles.user_id = swipes.user_id").
		Where("swipes.target_profile_id = ? AND swipes.action = ?", profileID, entity.ActionLike).
		Where("profiles.is_active = ? AND profiles.deleted_at IS NULL", true).
		Where("profiles.id NOT IN (?)", responded).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	m.rdb.Set(key, count, time.Hour)
	return count, nil
}

func (m *MatchRepo) invalidateCounts(userIDs ...int64) {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, likeCountKey(id))
	}
	m.rdb.Del(keys...)
}

func likeCountKey(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10) + ":likes:incoming:count"
}
