package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/freight/internal/domain"
	"github.com/pscheid92/freight/internal/plugin"
	apperrors "github.com/pscheid92/freight/internal/platform/errors"
)

const apiPrefix = "/api/0"

func (s *Server) registerAppRoutes() {
	api := s.echo.Group(apiPrefix, newRateLimiter(s.config.APIRateLimit, s.config.APIRateBurst))
	api.GET("/apps/:app_id/", s.handleGetApp)
	api.PUT("/apps/:app_id/", s.handleUpdateApp)
	api.DELETE("/apps/:app_id/", s.handleDeleteApp)
}

// updateAppRequest is the decoded PUT body. Absent and null fields leave the stored value as is.
type updateAppRequest struct {
	Name           *string
	Repository     *string
	Provider       *string
	ProviderConfig map[string]any
	Notifiers      []domain.ConfigEntry
	Checks         []domain.ConfigEntry
}

func (r updateAppRequest) toUpdate() domain.AppUpdate {
	return domain.AppUpdate{
		Name:           r.Name,
		Repository:     r.Repository,
		Provider:       r.Provider,
		ProviderConfig: r.ProviderConfig,
		Notifiers:      r.Notifiers,
		Checks:         r.Checks,
	}
}

func (s *Server) handleGetApp(c echo.Context) error {
	appID, err := parseAppID(c)
	if err != nil {
		return err
	}

	view, err := s.app.GetApp(c.Request().Context(), appID)
	if err != nil {
		return s.appError(err, appID, "failed to load app")
	}

	if err := c.JSON(http.StatusOK, view); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdateApp(c echo.Context) error {
	appID, err := parseAppID(c)
	if err != nil {
		return err
	}

	req, err := decodeUpdateRequest(c)
	if err != nil {
		return err
	}

	view, err := s.app.UpdateApp(c.Request().Context(), appID, req.toUpdate())
	if err != nil {
		return s.appError(err, appID, "failed to update app")
	}

	if err := c.JSON(http.StatusOK, view); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDeleteApp(c echo.Context) error {
	appID, err := parseAppID(c)
	if err != nil {
		return err
	}

	id, err := s.app.DeleteApp(c.Request().Context(), appID)
	if err != nil {
		return s.appError(err, appID, "failed to delete app")
	}

	if err := c.JSON(http.StatusOK, map[string]string{"id": id}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// parseAppID treats anything that cannot be an app id as an unknown app.
func parseAppID(c echo.Context) (int64, error) {
	raw := c.Param("app_id")
	appID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || appID <= 0 {
		return 0, apperrors.NotFoundError("Invalid app").WithField("app_id", raw)
	}
	return appID, nil
}

// appError maps service errors to API errors.
func (s *Server) appError(err error, appID int64, internalMessage string) error {
	if errors.Is(err, domain.ErrAppNotFound) {
		return apperrors.NotFoundError("Invalid app").WithField("app_id", appID)
	}

	var verr *plugin.ValidationError
	if errors.As(err, &verr) {
		if s.appMetrics != nil {
			s.appMetrics.ValidationFailures.WithLabelValues(verr.Name).Inc()
		}
		return apperrors.ValidationError(verr.Message).
			WithName(verr.Name).
			WithField("app_id", appID).
			WithField("plugin_type", verr.PluginType)
	}

	return apperrors.InternalError(internalMessage, err).WithField("app_id", appID)
}

// updateAppBody is the JSON wire shape of the PUT body. The structured fields may be
// sent either as JSON values or as JSON documents encoded in a string.
type updateAppBody struct {
	Name           *string         `json:"name"`
	Repository     *string         `json:"repository"`
	Provider       *string         `json:"provider"`
	ProviderConfig json.RawMessage `json:"provider_config"`
	Notifiers      json.RawMessage `json:"notifiers"`
	Checks         json.RawMessage `json:"checks"`
}

type jsonField struct {
	key string
	dst any
}

// jsonFields lists the structured fields in the order they are decoded and reported.
func (r *updateAppRequest) jsonFields() []jsonField {
	return []jsonField{
		{"provider_config", &r.ProviderConfig},
		{"notifiers", &r.Notifiers},
		{"checks", &r.Checks},
	}
}

func decodeUpdateRequest(c echo.Context) (updateAppRequest, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEApplicationForm) || strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		return decodeUpdateForm(c)
	}

	var req updateAppRequest
	var body updateAppBody
	dec := json.NewDecoder(c.Request().Body)
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return req, nil
		}
		return req, apperrors.ValidationError("Request body must be a JSON object").WithField("cause", err.Error())
	}

	req.Name = body.Name
	req.Repository = body.Repository
	req.Provider = body.Provider
	raws := []json.RawMessage{body.ProviderConfig, body.Notifiers, body.Checks}
	for i, f := range req.jsonFields() {
		if err := decodeJSONValue(f.key, raws[i], f.dst); err != nil {
			return req, err
		}
	}
	return req, nil
}

// decodeJSONValue decodes a structured field from a JSON body. A string value is
// decoded as the JSON document it contains. Absent and null leave dst untouched.
func decodeJSONValue(key string, raw json.RawMessage, dst any) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return invalidJSONField(key, err)
		}
		raw = json.RawMessage(encoded)
	}
	return unmarshalJSONField(key, raw, dst)
}

func unmarshalJSONField(key string, data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return invalidJSONField(key, err)
	}
	return nil
}

func invalidJSONField(key string, err error) error {
	return apperrors.ValidationError(fmt.Sprintf("Invalid JSON in %s", key)).WithField("cause", err.Error())
}

// decodeUpdateForm reads form-encoded updates. Structured fields are JSON documents
// carried as strings; a present but empty one is malformed.
func decodeUpdateForm(c echo.Context) (updateAppRequest, error) {
	var req updateAppRequest

	form, err := c.FormParams()
	if err != nil {
		return req, apperrors.ValidationError("Invalid form body").WithField("cause", err.Error())
	}

	optionalString := func(key string) *string {
		if !form.Has(key) {
			return nil
		}
		v := form.Get(key)
		return &v
	}
	req.Name = optionalString("name")
	req.Repository = optionalString("repository")
	req.Provider = optionalString("provider")

	for _, f := range req.jsonFields() {
		if !form.Has(f.key) {
			continue
		}
		if err := unmarshalJSONField(f.key, []byte(form.Get(f.key)), f.dst); err != nil {
			return req, err
		}
	}
	return req, nil
}
