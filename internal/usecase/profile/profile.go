package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"

	"github.com/ivkudzin/unimatch/internal/entity"
	matchRepo "github.com/ivkudzin/unimatch/internal/repository/match"
	profileRepo "github.com/ivkudzin/unimatch/internal/repository/profile"
	"github.com/ivkudzin/unimatch/pkg/filestore"
)

// PhotoUpload carries an uploaded photo into the usecase without tying it to
// the HTTP layer.
type PhotoUpload struct {
	Filename string
	Data     io.Reader
	Size     int64
}

type IProfileUseCase interface {
	GetByUserID(ctx context.Context, userID int64) (*entity.Profile, error)
	GetByID(ctx context.Context, id int64) (*entity.Profile, error)
	Upsert(ctx context.Context, userID int64, req entity.UpsertProfileRequest, photo *PhotoUpload) (*entity.Profile, error)
	Delete(ctx context.Context, userID int64) error
	ListCandidates(ctx context.Context, userID int64, page, pageSize int) ([]entity.Profile, error)
	ListIncomingLikes(ctx context.Context, userID int64) ([]entity.Profile, error)
	IncomingLikeCount(ctx context.Context, userID int64) (int64, error)
}

type profileUseCase struct {
	profileRepo profileRepo.IProfileRepo
	matchRepo   matchRepo.IMatchRepo
	photos      *filestore.Store
	log         *slog.Logger
}

func NewProfileUseCase(
	profileRepo profileRepo.IProfileRepo,
	matchRepo matchRepo.IMatchRepo,
	photos *filestore.Store,
	log *slog.Logger,
) IProfileUseCase {
	return &profileUseCase{
		profileRepo: profileRepo,
		matchRepo:   matchRepo,
		photos:      photos,
		log:         log,
	}
}

func (p *profileUseCase) GetByUserID(ctx context.Context, userID int64) (*entity.Profile, error) {
	return p.profileRepo.GetActiveByUserID(ctx, userID)
}

func (p *profileUseCase) GetByID(ctx context.Context, id int64) (*entity.Profile, error) {
	return p.profileRepo.GetActiveByID(ctx, id)
}

// Upsert validates the submission, stores the photo if one was sent and
// creates or overwrites the user's profile row. Validation failures reject
// the whole request before anything is written.
func (p *profileUseCase) Upsert(ctx context.Context, userID int64, req entity.UpsertProfileRequest, photo *PhotoUpload) (*entity.Profile, error) {
	if problems := req.Validate(ctx); len(problems) > 0 {
		return nil, firstProblem(problems)
	}

	photoURL := ""
	if photo != nil {
		url, err := p.photos.Save(userID, photo.Filename, photo.Data, photo.Size)
		if err != nil {
			var invalid *filestore.ErrInvalidFile
			if errors.As(err, &invalid) {
				return nil, entity.NewInvalidInput("photo", invalid.Reason)
			}
			return nil, err
		}

		// Retire the previous file only once its replacement is stored, so
		// a rejected upload never strands the stored photo_url.
		if existing, err := p.profileRepo.GetActiveByUserID(ctx, userID); err == nil && existing.PhotoURL != "" {
			if err := p.photos.Remove(existing.PhotoURL); err != nil {
				p.log.Warn("failed to remove old photo", "user_id", userID, "err", err)
			}
		}
		photoURL = url
	}

	saved, err := p.profileRepo.Upsert(ctx, entity.Profile{
		UserID:     userID,
		Username:   req.Username,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Name:       req.Name,
		Gender:     entity.Gender(req.Gender),
		Age:        req.Age,
		City:       req.City,
		University: req.University,
		Interests:  entity.StringList(req.Interests),
		Goals:      entity.StringList(req.Goals),
		Bio:        req.Bio,
		PhotoURL:   photoURL,
	})
	if err != nil {
		return nil, err
	}

	p.log.Info("profile upserted", "user_id", userID, "profile_id", saved.ID)
	return saved, nil
}

func (p *profileUseCase) Delete(ctx context.Context, userID int64) error {
	if err := p.profileRepo.SoftDelete(ctx, userID); err != nil {
		return err
	}
	p.log.Info("profile soft-deleted", "user_id", userID)
	return nil
}

// ListCandidates returns the swipe feed. A viewer without an active profile
// has nothing to swipe on and gets an empty feed, not an error.
func (p *profileUseCase) ListCandidates(ctx context.Context, userID int64, page, pageSize int) ([]entity.Profile, error) {
	if _, err := p.profileRepo.GetActiveByUserID(ctx, userID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return []entity.Profile{}, nil
		}
		return nil, err
	}

	return p.profileRepo.ListCandidates(ctx, userID, page, pageSize)
}

func (p *profileUseCase) ListIncomingLikes(ctx context.Context, userID int64) ([]entity.Profile, error) {
	viewer, err := p.profileRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return []entity.Profile{}, nil
		}
		return nil, err
	}

	return p.profileRepo.ListIncomingLikes(ctx, userID, viewer.ID)
}

func (p *profileUseCase) IncomingLikeCount(ctx context.Context, userID int64) (int64, error) {
	viewer, err := p.profileRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return p.matchRepo.IncomingLikeCount(ctx, userID, viewer.ID)
}

// firstProblem flattens a Validate() result into a deterministic
// InvalidInput error naming one offending field.
func firstProblem(problems map[string][]string) error {
	fields := make([]string, 0, len(problems))
	for f := range problems {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	field := fields[0]
	return entity.NewInvalidInput(field, problems[field][0])
}
