package routesV1Auth

import (
	"net/http"
	"strings"

	authUseCase "github.com/ivkudzin/unimatch/internal/usecase/auth"
	"github.com/ivkudzin/unimatch/pkg/http_util"
	"github.com/labstack/echo"
)

const tmaPrefix = "tma "

// AuthHandler exchanges "Authorization: tma <initData>" for a bearer token.
func AuthHandler(c echo.Context, authCase authUseCase.IAuthUseCase) error {
	authHeader := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, tmaPrefix) {
		return http_util.Encode(c, http.StatusBadRequest, http_util.HTTPErrorResponse{
			Message: "missing init data, use 'Authorization: tma <initData>'",
		})
	}

	resp, err := authCase.Authenticate(c.Request().Context(), strings.TrimPrefix(authHeader, tmaPrefix))
	if err != nil {
		return http_util.EncodeError(c, err)
	}

	return http_util.Encode(c, http.StatusOK, resp)
}
