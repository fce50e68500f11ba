package match_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis"
	"github.com/ivkudzin/unimatch/internal/entity"
	matchRepo "github.com/ivkudzin/unimatch/internal/repository/match"
	profileRepo "github.com/ivkudzin/unimatch/internal/repository/profile"
	matchUseCase "github.com/ivkudzin/unimatch/internal/usecase/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	profiles profileRepo.IProfileRepo
	useCase  matchUseCase.IMatchUseCase
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entity.Profile{}, &entity.Swipe{}, &entity.Match{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	profiles := profileRepo.New(db)
	matches := matchRepo.NewMatchRepo(db, rdb)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		db:       db,
		profiles: profiles,
		useCase:  matchUseCase.NewMatchUseCase(profiles, matches, log),
	}
}

func (f *fixture) createProfile(t *testing.T, userID int64) *entity.Profile {
	t.Helper()
	p := &entity.Profile{
		UserID:     userID,
		Name:       "User",
		Gender:     entity.GenderFemale,
		Age:        22,
		City:       "Prague",
		University: "CUNI",
		IsActive:   true,
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func TestMutualLikeScenario(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	p1 := f.createProfile(t, 1)
	p2 := f.createProfile(t, 2)

	matched, _, err := f.useCase.LikeProfile(ctx, 1, p2.ID)
	require.NoError(t, err)
	assert.False(t, matched)

	matched, outcome, err := f.useCase.LikeProfile(ctx, 2, p1.ID)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, entity.OutcomeMatch, outcome)

	var matches []entity.Match
	require.NoError(t, f.db.Find(&matches).Error)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(1), matches[0].User1ID)
	assert.Equal(t, int64(2), matches[0].User2ID)

	// A third like on the already-liked target is a conflict.
	_, _, err = f.useCase.LikeProfile(ctx, 1, p2.ID)
	assert.ErrorIs(t, err, entity.ErrAlreadyLiked)
}

func TestLikeOwnProfileRejected(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	p1 := f.createProfile(t, 1)

	_, _, err := f.useCase.LikeProfile(ctx, 1, p1.ID)
	assert.ErrorIs(t, err, entity.ErrOwnProfile)
}

func TestLikeMissingProfile(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.createProfile(t, 1)

	_, _, err := f.useCase.LikeProfile(ctx, 1, 999)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestLikeSoftDeletedProfile(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.createProfile(t, 1)
	p2 := f.createProfile(t, 2)
	require.NoError(t, f.profiles.SoftDelete(ctx, 2))

	_, _, err := f.useCase.LikeProfile(ctx, 1, p2.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestPassIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.createProfile(t, 1)
	p2 := f.createProfile(t, 2)

	outcome, err := f.useCase.PassProfile(ctx, 1, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomePassed, outcome)

	outcome, err = f.useCase.PassProfile(ctx, 1, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeAlreadyPassed, outcome)

	var count int64
	require.NoError(t, f.db.Model(&entity.Swipe{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRespondDeclineNeverMatches(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	p5 := f.createProfile(t, 5)
	f.createProfile(t, 9)

	// User 9 liked user 5 earlier.
	matched, _, err := f.useCase.LikeProfile(ctx, 9, p5.ID)
	require.NoError(t, err)
	require.False(t, matched)

	matched, outcome, err := f.useCase.RespondToLike(ctx, 5, 9, entity.DecisionDecline)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Equal(t, entity.OutcomeResponded, outcome)

	var matchCount int64
	require.NoError(t, f.db.Model(&entity.Match{}).Count(&matchCount).Error)
	assert.Zero(t, matchCount)

	// The decline landed as a pass from 5 toward 9's profile.
	var swipe entity.Swipe
	require.NoError(t, f.db.Where("user_id = ?", 5).First(&swipe).Error)
	assert.Equal(t, entity.ActionPass, swipe.Action)
}

func TestRespondAcceptCreatesMatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	p1 := f.createProfile(t, 1)
	f.createProfile(t, 2)

	matched, _, err := f.useCase.LikeProfile(ctx, 2, p1.ID)
	require.NoError(t, err)
	require.False(t, matched)

	matched, outcome, err := f.useCase.RespondToLike(ctx, 1, 2, entity.DecisionAccept)
	require.NoError(t, err)
	assert.True(t, matched)
	assert.Equal(t, entity.OutcomeMatch, outcome)
}

func TestRespondRequiresBothProfiles(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	f.createProfile(t, 1)

	_, _, err := f.useCase.RespondToLike(ctx, 1, 2, entity.DecisionAccept)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestListMatchesEmptyWithoutProfile(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	profiles, err := f.useCase.ListMatches(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}
