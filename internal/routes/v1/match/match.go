package routesV1Match

import (
	"net/http"
	"strconv"

	"github.com/ivkudzin/unimatch/internal/entity"
	"github.com/ivkudzin/unimatch/internal/middleware"
	matchUseCase "github.com/ivkudzin/unimatch/internal/usecase/match"
	"github.com/ivkudzin/unimatch/pkg/http_util"
	"github.com/labstack/echo"
)

func LikeHandler(c echo.Context, matchCase matchUseCase.IMatchUseCase) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	profileID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, http_util.HTTPErrorResponse{Message: "invalid profile id"})
	}

	matched, outcome, err := matchCase.LikeProfile(c.Request().Context(), userID, profileID)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, entity.SwipeResponse{
		Matched: matched,
		Message: outcome.String(),
	})
}

func PassHandler(c echo.Context, matchCase matchUseCase.IMatchUseCase) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	profileID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, http_util.HTTPErrorResponse{Message: "invalid profile id"})
	}

	outcome, err := matchCase.PassProfile(c.Request().Context(), userID, profileID)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, entity.SwipeResponse{
		Matched: false,
		Message: outcome.String(),
	})
}

func RespondHandler(c echo.Context, matchCase matchUseCase.IMatchUseCase) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	req, err := http_util.Decode[entity.RespondToLikeRequest](c)
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, http_util.HTTPErrorResponse{Message: "invalid request"})
	}

	if problems := req.Validate(c.Request().Context()); len(problems) > 0 {
		return http_util.EncodeProblems(c, problems)
	}

	matched, outcome, err := matchCase.RespondToLike(c.Request().Context(), userID, req.TargetUserID, entity.Decision(req.Action))
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	message := outcome.String()
	if outcome == entity.OutcomeResponded {
		message = "Response recorded: " + req.Action
	}

	return http_util.Encode(c, http.StatusOK, entity.SwipeResponse{
		Matched: matched,
		Message: message,
	})
}

func ListMatchesHandler(c echo.Context, matchCase matchUseCase.IMatchUseCase) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	profiles, err := matchCase.ListMatches(c.Request().Context(), userID)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.ProfileListResponse]{
		Message: "Matches fetched successfully",
		Data:    entity.ProfileListResponse{Profiles: profiles},
	})
}
