package routesV1Profile

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ivkudzin/unimatch/internal/entity"
	"github.com/ivkudzin/unimatch/internal/middleware"
	profileUseCase "github.com/ivkudzin/unimatch/internal/usecase/profile"
	"github.com/ivkudzin/unimatch/pkg/http_util"
	"github.com/labstack/echo"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

func GetFeedHandler(c echo.Context, profileCase profileUseCase.IProfileUseCase) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 0 {
		page = 0
	}
	size, _ := strconv.Atoi(c.QueryParam("size"))
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	profiles, err := profileCase.ListCandidates(c.Request().Context(), userID, page, size)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.ProfileListResponse]{
		Message: "Profiles fetched successfully",
		Data:    entity.ProfileListResponse{Profiles: profiles},
	})
}

func GetMeHandler(c echo.Context, profileCase profileUseCase.IProfileUseCase) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	profile, err := profileCase.GetByUserID(c.Request().Context(), userID)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, profile)
}

func GetByIDHandler(c echo.Context, profileCase profileUseCase.IProfileUseCase) error {
	if _, err := middleware.UserID(c); err != nil {
		return http_util.EncodeError(c, err)
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, http_util.HTTPErrorResponse{Message: "invalid profile id"})
	}

	profile, err := profileCase.GetByID(c.Request().Context(), id)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, profile)
}

// UpsertHandler accepts a multipart form; interests and goals arrive as
// JSON-encoded arrays in form fields, the photo as an optional file part.
func UpsertHandler(c echo.Context, profileCase profileUseCase.IProfileUseCase) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	req, err := http_util.Decode[entity.UpsertProfileRequest](c)
	if err != nil {
		return http_util.Encode(c, http.StatusBadRequest, http_util.HTTPErrorResponse{Message: "invalid request"})
	}

	if raw := c.FormValue("interests"); raw != "" {
		_ = json.Unmarshal([]byte(raw), &req.Interests)
	}
	if raw := c.FormValue("goals"); raw != "" {
		_ = json.Unmarshal([]byte(raw), &req.Goals)
	}

	if problems := req.Validate(c.Request().Context()); len(problems) > 0 {
		return http_util.EncodeProblems(c, problems)
	}

	var photo *profileUseCase.PhotoUpload
	if fh, err := c.FormFile("photo"); err == nil && fh != nil {
		src, err := fh.Open()
		if err != nil {
			return http_util.Encode(c, http.StatusBadRequest, http_util.HTTPErrorResponse{Message: "invalid photo upload"})
		}
		defer src.Close()
		photo = &profileUseCase.PhotoUpload{
			Filename: fh.Filename,
			Data:     src,
			Size:     fh.Size,
		}
	}

	profile, err := profileCase.Upsert(c.Request().Context(), userID, req, photo)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, profile)
}

func DeleteMeHandler(c echo.Context, profileCase profileUseCase.IProfileUseCase) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	if err := profileCase.Delete(c.Request().Context(), userID); err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, map[string]string{"message": "Profile deleted"})
}

func IncomingLikesHandler(c echo.Context, profileCase profileUseCase.IProfileUseCase) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	profiles, err := profileCase.ListIncomingLikes(c.Request().Context(), userID)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, http_util.HTTPResponse[entity.ProfileListResponse]{
		Message: "Incoming likes fetched successfully",
		Data:    entity.ProfileListResponse{Profiles: profiles},
	})
}

func LikeCountHandler(c echo.Context, profileCase profileUseCase.IProfileUseCase) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	count, err := profileCase.IncomingLikeCount(c.Request().Context(), userID)
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, entity.LikeCountResponse{Count: count})
}
