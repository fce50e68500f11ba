package profileRepo

import (
	"context"
	"errors"
	"time"

	"github.com/ivkudzin/unimatch/internal/entity"
	"gorm.io/gorm"
)

type IProfileRepo interface {
	GetActiveByUserID(ctx context.Context, userID int64) (*entity.Profile, error)
	GetActiveByID(ctx context.Context, id int64) (*entity.Profile, error)
	Upsert(ctx context.Context, profile entity.Profile) (*entity.Profile, error)
	SoftDelete(ctx context.Context, userID int64) error
	ListCandidates(ctx context.Context, userID int64, page, pageSize int) ([]entity.Profile, error)
	ListIncomingLikes(ctx context.Context, userID, profileID int64) ([]entity.Profile, error)
}

type ProfileRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) IProfileRepo {
	return &ProfileRepo{
		db: db,
	}
}

func (r *ProfileRepo) GetActiveByUserID(ctx context.Context, userID int64) (*entity.Profile, error) {
	var profile entity.Profile
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND deleted_at IS NULL", userID, true).
		First(&profile)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, entity.ErrNotFound
	}
	return &profile, result.Error
}

func (r *ProfileRepo) GetActiveByID(ctx context.Context, id int64) (*entity.Profile, error) {
	var profile entity.Profile
	result := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ? AND deleted_at IS NULL", id, true).
		First(&profile)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, entity.ErrNotFound
	}
	return &profile, result.Error
}

// Upsert inserts a new profile for the user or overwrites every mutable
// field of the existing row, reactivating it if it was soft-deleted. The
// stored photo survives when the incoming PhotoURL is empty.
func (r *ProfileRepo) Upsert(ctx context.Context, p entity.Profile) (*entity.Profile, error) {
	var out entity.Profile

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.Profile
		res := tx.Where("user_id = ?", p.UserID).First(&existing)

		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			p.IsActive = true
			p.DeletedAt = nil
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			out = p
			return nil
		}
		if res.Error != nil {
			return res.Error
		}

		existing.Username = p.Username
		existing.FirstName = p.FirstName
		existing.LastName = p.LastName
		existing.Name = p.Name
		existing.Gender = p.Gender
		existing.Age = p.Age
		existing.City = p.City
		existing.University = p.University
		existing.Interests = p.Interests
		existing.Goals = p.Goals
		existing.Bio = p.Bio
		if p.PhotoURL != "" {
			existing.PhotoURL = p.PhotoURL
		}
		existing.IsActive = true
		existing.DeletedAt = nil

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		out = existing
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ProfileRepo) SoftDelete(ctx context.Context, userID int64) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Where("user_id = ? AND is_active = ? AND deleted_at IS NULL", userID, true).
		Updates(map[string]interface{}{"is_active": false, "deleted_at": now})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// ListCandidates returns the swipe feed for userID: active profiles the user
// has not swiped on, is not matched with, and does not own. Newest first,
// offset pagination.
func (r *ProfileRepo) ListCandidates(ctx context.Context, userID int64, page, pageSize int) ([]entity.Profile, error) {
	var profiles []entity.Profile

	swiped := r.db.Model(&entity.Swipe{}).
		Select("target_profile_id").
		Where("user_id = ?", userID)

	matchedLow := r.db.Model(&entity.Match{}).
		Select("user2_id").
		Where("user1_id = ?", userID)

	matchedHigh := r.db.Model(&entity.Match{}).
		Select("user1_id").
		Where("user2_id = ?", userID)

	res := r.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Where("is_active = ? AND deleted_at IS NULL", true).
		Where("user_id <> ?", userID).
		Where("id NOT IN (?)", swiped).
		Where("user_id NOT IN (?)", matchedLow).
		Where("user_id NOT IN (?)", matchedHigh).
		Order("created_at DESC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&profiles)

	return profiles, res.Error
}

// ListIncomingLikes returns active profiles whose owners liked profileID and
// whom the owner of profileID has not swiped back on in either direction,
// newest like first.
func (r *ProfileRepo) ListIncomingLikes(ctx context.Context, userID, profileID int64) ([]entity.Profile, error) {
	var profiles []entity.Profile

	responded := r.db.Model(&entity.Swipe{}).
		Select("target_profile_id").
		Where("user_id = ?", userID)

	res := r.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Joins("JOIN swipes ON swipes.user_id = profiles.user_id AND swipes.target_profile_id = ? AND swipes.action = ?",
			profileID, entity.ActionLike).
		Where("profiles.is_active = ? AND profiles.deleted_at IS NULL", true).
		Where("profiles.id NOT IN (?)", responded).
		Order("swipes.created_at DESC").
		Find(&profiles)

	return profiles, res.Error
}
