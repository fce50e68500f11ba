package profile_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis"
	"github.com/ivkudzin/unimatch/internal/entity"
	matchRepo "github.com/ivkudzin/unimatch/internal/repository/match"
	profileRepo "github.com/ivkudzin/unimatch/internal/repository/profile"
	profileUseCase "github.com/ivkudzin/unimatch/internal/usecase/profile"
	"github.com/ivkudzin/unimatch/pkg/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, profileUseCase.IProfileUseCase, string) {
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

	uploadDir := t.TempDir()
	photos, err := filestore.New(uploadDir, "/uploads")
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	useCase := profileUseCase.NewProfileUseCase(
		profileRepo.New(db),
		matchRepo.NewMatchRepo(db, rdb),
		photos,
		log,
	)
	return db, useCase, uploadDir
}

func validRequest() entity.UpsertProfileRequest {
	return entity.UpsertProfileRequest{
		Name:       "Alice",
		Gender:     "female",
		Age:        21,
		City:       "Vienna",
		University: "TU Wien",
		Interests:  []string{"robotics"},
		Goals:      []string{"networking"},
	}
}

func TestUpsertUnderageRejectedBeforeWrite(t *testing.T) {
	ctx := context.Background()
	db, useCase, _ := setup(t)

	req := validRequest()
	req.Age = 14

	_, err := useCase.Upsert(ctx, 1, req, nil)
	require.Error(t, err)
	assert.True(t, entity.IsInvalidInput(err))

	var count int64
	require.NoError(t, db.Model(&entity.Profile{}).Count(&count).Error)
	assert.Zero(t, count, "no row may be written on validation failure")
}

func TestUpsertMinimumAgeAccepted(t *testing.T) {
	ctx := context.Background()
	_, useCase, _ := setup(t)

	req := validRequest()
	req.Age = 15

	profile, err := useCase.Upsert(ctx, 1, req, nil)
	require.NoError(t, err)
	assert.Equal(t, 15, profile.Age)
}

func TestUpsertBadGenderRejected(t *testing.T) {
	ctx := context.Background()
	_, useCase, _ := setup(t)

	req := validRequest()
	req.Gender = "robot"

	_, err := useCase.Upsert(ctx, 1, req, nil)
	require.Error(t, err)

	var invalid *entity.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "gender", invalid.Field)
}

func TestUpsertOversizedBioRejected(t *testing.T) {
	ctx := context.Background()
	_, useCase, _ := setup(t)

	req := validRequest()
	req.Bio = strings.Repeat("a", entity.MaxBioLength+1)

	_, err := useCase.Upsert(ctx, 1, req, nil)
	require.Error(t, err)

	var invalid *entity.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "bio", invalid.Field)
}

func TestUpsertWithPhoto(t *testing.T) {
	ctx := context.Background()
	_, useCase, _ := setup(t)

	photo := &profileUseCase.PhotoUpload{
		Filename: "me.jpg",
		Data:     strings.NewReader("not-really-a-jpeg"),
		Size:     17,
	}

	profile, err := useCase.Upsert(ctx, 1, validRequest(), photo)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(profile.PhotoURL, "/uploads/1_"))
}

func TestUpsertRejectsBadPhotoExtension(t *testing.T) {
	ctx := context.Background()
	db, useCase, _ := setup(t)

	photo := &profileUseCase.PhotoUpload{
		Filename: "malware.exe",
		Data:     strings.NewReader("zzz"),
		Size:     3,
	}

	_, err := useCase.Upsert(ctx, 1, validRequest(), photo)
	require.Error(t, err)

	var invalid *entity.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "photo", invalid.Field)

	var count int64
	require.NoError(t, db.Model(&entity.Profile{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpsertKeepsOldPhotoWhenReplacementRejected(t *testing.T) {
	ctx := context.Background()
	_, useCase, uploadDir := setup(t)

	photo := &profileUseCase.PhotoUpload{
		Filename: "me.jpg",
		Data:     strings.NewReader("original-bytes"),
		Size:     14,
	}
	created, err := useCase.Upsert(ctx, 1, validRequest(), photo)
	require.NoError(t, err)
	require.NotEmpty(t, created.PhotoURL)

	name := strings.TrimPrefix(created.PhotoURL, "/uploads/")
	_, err = os.Stat(filepath.Join(uploadDir, name))
	require.NoError(t, err)

	bad := &profileUseCase.PhotoUpload{
		Filename: "replacement.exe",
		Data:     strings.NewReader("zzz"),
		Size:     3,
	}
	_, err = useCase.Upsert(ctx, 1, validRequest(), bad)
	require.Error(t, err)
	assert.True(t, entity.IsInvalidInput(err))

	// The stored URL and the file it points at both survive.
	current, err := useCase.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, created.PhotoURL, current.PhotoURL)

	_, err = os.Stat(filepath.Join(uploadDir, name))
	assert.NoError(t, err)
}

func TestListCandidatesEmptyWithoutOwnProfile(t *testing.T) {
	ctx := context.Background()
	db, useCase, _ := setup(t)

	other := entity.Profile{UserID: 2, Name: "B", Gender: entity.GenderMale, Age: 25, City: "x", University: "y", IsActive: true}
	require.NoError(t, db.Create(&other).Error)

	candidates, err := useCase.ListCandidates(ctx, 1, 0, 50)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestIncomingLikeCountZeroWithoutProfile(t *testing.T) {
	ctx := context.Background()
	_, useCase, _ := setup(t)

	count, err := useCase.IncomingLikeCount(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteThenGetNotFound(t *testing.T) {
	ctx := context.Background()
	_, useCase, _ := setup(t)

	_, err := useCase.Upsert(ctx, 1, validRequest(), nil)
	require.NoError(t, err)

	require.NoError(t, useCase.Delete(ctx, 1))

	_, err = useCase.GetByUserID(ctx, 1)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
