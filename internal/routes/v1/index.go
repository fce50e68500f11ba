package routesV1

import (
	"github.com/ivkudzin/unimatch/internal/middleware"
	routesV1Auth "github.com/ivkudzin/unimatch/internal/routes/v1/auth"
	routesV1Match "github.com/ivkudzin/unimatch/internal/routes/v1/match"
	routesV1Profile "github.com/ivkudzin/unimatch/internal/routes/v1/profile"
	authUseCase "github.com/ivkudzin/unimatch/internal/usecase/auth"
	matchUseCase "github.com/ivkudzin/unimatch/internal/usecase/match"
	profileUseCase "github.com/ivkudzin/unimatch/internal/usecase/profile"
	"github.com/ivkudzin/unimatch/pkg/jwt"
	"github.com/labstack/echo"
)

func InitV1Routes(
	e *echo.Echo,
	authCase authUseCase.IAuthUseCase,
	profileCase profileUseCase.IProfileUseCase,
	matchCase matchUseCase.IMatchUseCase,
	tokens *jwt.Manager,
) {
	v1 := e.Group("/v1")

	v1.POST("/auth", func(c echo.Context) error {
		return routesV1Auth.AuthHandler(c, authCase)
	})

	authed := e.Group("/v1", middleware.JWTMiddleware(tokens))

	authed.GET("/profiles", func(c echo.Context) error {
		return routesV1Profile.GetFeedHandler(c, profileCase)
	})
	authed.GET("/profiles/me", func(c echo.Context) error {
		return routesV1Profile.GetMeHandler(c, profileCase)
	})
	authed.GET("/profiles/:id", func(c echo.Context) error {
		return routesV1Profile.GetByIDHandler(c, profileCase)
	})
	authed.POST("/profiles", func(c echo.Context) error {
		return routesV1Profile.UpsertHandler(c, profileCase)
	})
	authed.DELETE("/profiles/me", func(c echo.Context) error {
		return routesV1Profile.DeleteMeHandler(c, profileCase)
	})

	authed.GET("/likes/incoming", func(c echo.Context) error {
		return routesV1Profile.IncomingLikesHandler(c, profileCase)
	})
	authed.GET("/likes/count", func(c echo.Context) error {
		return routesV1Profile.LikeCountHandler(c, profileCase)
	})
	authed.POST("/likes/respond", func(c echo.Context) error {
		return routesV1Match.RespondHandler(c, matchCase)
	})

	authed.POST("/profiles/:id/like", func(c echo.Context) error {
		return routesV1Match.LikeHandler(c, matchCase)
	})
	authed.POST("/profiles/:id/pass", func(c echo.Context) error {
		return routesV1Match.PassHandler(c, matchCase)
	})
	authed.GET("/matches", func(c echo.Context) error {
		return routesV1Match.ListMatchesHandler(c, matchCase)
	})
}
