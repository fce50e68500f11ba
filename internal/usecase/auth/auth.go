package authUseCase

import (
	"context"
	"log/slog"

	"github.com/ivkudzin/unimatch/internal/entity"
	"github.com/ivkudzin/unimatch/pkg/initdata"
	"github.com/ivkudzin/unimatch/pkg/jwt"
)

type IAuthUseCase interface {
	// Authenticate verifies raw Telegram init data and mints a bearer token
	// for the embedded user id.
	Authenticate(ctx context.Context, rawInitData string) (*entity.AuthResponse, error)
}

type authUseCase struct {
	verifier *initdata.Verifier
	tokens   *jwt.Manager
	log      *slog.Logger
}

func New(verifier *initdata.Verifier, tokens *jwt.Manager, log *slog.Logger) IAuthUseCase {
	return &authUseCase{
		verifier: verifier,
		tokens:   tokens,
		log:      log,
	}
}

func (a *authUseCase) Authenticate(ctx context.Context, rawInitData string) (*entity.AuthResponse, error) {
	_, user, err := a.verifier.Verify(rawInitData)
	if err != nil {
		a.log.Warn("init data rejected", "err", err)
		return nil, entity.ErrUnauthorized
	}

	token, err := a.tokens.CreateToken(user.ID)
	if err != nil {
		return nil, err
	}

	a.log.Info("user authenticated", "user_id", user.ID)

	return &entity.AuthResponse{
		Token:  token,
		UserID: user.ID,
		User: entity.TelegramUser{
			ID:        user.ID,
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
	}, nil
}
