package http_util

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ivkudzin/unimatch/internal/entity"
	"github.com/labstack/echo"
)

type HTTPResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type ErrorResponse struct {
	Property string `json:"property"`
	Detail   string `json:"detail"`
}

type HTTPErrorResponse struct {
	Message string          `json:"message"`
	Errors  []ErrorResponse `json:"errors,omitempty"`
}

func Encode[T any](c echo.Context, status int, v T) error {
	return c.JSON(status, v)
}

func Decode[T any](c echo.Context) (T, error) {
	var v T
	if err := c.Bind(&v); err != nil {
		return v, err
	}
	return v, nil
}

// DecodeBody unmarshals a raw response body. Used by clients of the API,
// notably the integration tests.
func DecodeBody[T any](body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, err
	}
	return v, nil
}

// EncodeProblems turns a request Validate() result into a 400 response.
func EncodeProblems(c echo.Context, problems map[string][]string) error {
	resp := HTTPErrorResponse{Message: "Bad Request"}
	for field, details := range problems {
		for _, d := range details {
			resp.Errors = append(resp.Errors, ErrorResponse{Property: field, Detail: d})
		}
	}
	return c.JSON(http.StatusBadRequest, resp)
}

// EncodeError maps domain errors onto HTTP statuses. Unknown errors become a
// generic 500 so storage internals never reach the client.
func EncodeError(c echo.Context, err error) error {
	var invalid *entity.InvalidInputError

	switch {
	case errors.As(err, &invalid):
		return c.JSON(http.StatusBadRequest, HTTPErrorResponse{
			Message: "Bad Request",
			Errors:  []ErrorResponse{{Property: invalid.Field, Detail: invalid.Detail}},
		})

	case errors.Is(err, entity.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, HTTPErrorResponse{Message: "unauthorized"})

	case errors.Is(err, entity.ErrNotFound):
		return c.JSON(http.StatusNotFound, HTTPErrorResponse{Message: "not found"})

	case errors.Is(err, entity.ErrAlreadyLiked):
		return c.JSON(http.StatusConflict, HTTPErrorResponse{Message: "already liked"})

	case errors.Is(err, entity.ErrOwnProfile):
		return c.JSON(http.StatusBadRequest, HTTPErrorResponse{Message: "cannot swipe your own profile"})

	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, HTTPErrorResponse{Message: "request timed out"})

	default:
		return c.JSON(http.StatusInternalServerError, HTTPErrorResponse{Message: "internal server error"})
	}
}
