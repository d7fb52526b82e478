package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapitypes "github.com/oapi-codegen/runtime/types"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

func pathString(c echo.Context, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &value, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid path parameter "+name).SetInternal(err)
	}
	return value, nil
}

func pathID(c echo.Context, name string) (kernel.UUID, error) {
	raw, err := pathString(c, name)
	if err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromString(raw)
}

// queryParam binds an optional query parameter. An absent parameter yields the
// zero value of T.
func queryParam[T any](c echo.Context, name string) (T, error) {
	var value *T
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &value); err != nil {
		var zero T
		return zero, echo.NewHTTPError(http.StatusBadRequest, "invalid query parameter "+name).SetInternal(err)
	}
	if value == nil {
		var zero T
		return zero, nil
	}
	return *value, nil
}

func requiredQueryParam(c echo.Context, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, true, name, c.QueryParams(), dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameter "+name).SetInternal(err)
	}
	return nil
}

func optionalID(raw *string, param string) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	return optionalIDString(*raw, param)
}

func optionalIDString(raw, param string) (*kernel.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return &id, nil
}

// dateRange reads the startDate and endDate query parameters.
func dateRange(c echo.Context) (time.Time, time.Time, error) {
	var start, end openapitypes.Date
	if err := requiredQueryParam(c, "startDate", &start); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if err := requiredQueryParam(c, "endDate", &end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start.Time, end.Time, nil
}
