package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EstatePulse/internal/domain/models"
	"EstatePulse/internal/usecase"
	xhttp "EstatePulse/pkg/http"
	xlogger "EstatePulse/pkg/logger"
)

type stubFeed struct {
	indicators *models.IndicatorSet
	err        error
}

func (f *stubFeed) Indicators(context.Context) (*models.IndicatorSet, error) {
	return f.indicators, f.err
}

func (f *stubFeed) MarketImpact(context.Context) (*models.MarketImpact, error) {
	return &models.MarketImpact{
		InterestEnvironment: models.ImpactEntry{Label: "Neutral", Description: "Steady conditions."},
	}, f.err
}

func (f *stubFeed) Insights(context.Context) ([]models.Insight, error) {
	return []models.Insight{{Title: "Rates", Message: "Rates moved.", Type: "warning"}}, f.err
}

func newPagesServer(t *testing.T, demoMode bool, feed *stubFeed) *echo.Echo {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	loader := usecase.NewDashboardLoader(feed, nil, log)
	e := echo.New()
	NewPagesHandler(log, loader, demoMode).RegisterRoutes(e)
	return e
}

func getPage(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postForm(e *echo.Echo, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func ptr(v float64) *float64 { return &v }

func TestLoginPageDemoMode(t *testing.T) {
	e := newPagesServer(t, true, &stubFeed{})

	rec := getPage(e, "/login")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Demo Mode - Login Disabled")
	assert.Contains(t, body, "disabled placeholder=\"Authentication unavailable in demo mode\"")
	assert.NotContains(t, body, "required placeholder")
}

func TestLoginPageNormalMode(t *testing.T) {
	e := newPagesServer(t, false, &stubFeed{})

	rec := getPage(e, "/login")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, ">Login</button>")
	assert.Contains(t, body, "required placeholder")
	assert.NotContains(t, body, "unavailable in demo mode")
}

func TestRegisterPageDemoMode(t *testing.T) {
	e := newPagesServer(t, true, &stubFeed{})

	rec := getPage(e, "/register")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Demo Mode - Registration Disabled")
	assert.Contains(t, body, "Registration unavailable in demo mode")
}

func TestLoginSubmitRejectedInDemoMode(t *testing.T) {
	e := newPagesServer(t, true, &stubFeed{})

	rec := postForm(e, "/login", url.Values{
		"email":    {"user@example.com"},
		"password": {"longenough"},
	})
	var body xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusForbidden, body.Status)
}

func TestRegisterSubmitRejectedInDemoMode(t *testing.T) {
	e := newPagesServer(t, true, &stubFeed{})

	rec := postForm(e, "/register", url.Values{
		"name":             {"Sam"},
		"email":            {"user@example.com"},
		"password":         {"longenough"},
		"confirm_password": {"longenough"},
	})
	var body xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusForbidden, body.Status)
}

func TestLoginSubmitValidation(t *testing.T) {
	e := newPagesServer(t, false, &stubFeed{})

	rec := postForm(e, "/login", url.Values{
		"email":    {"not-an-email"},
		"password": {"short"},
	})
	var body xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, body.Status)
}

func TestLoginSubmitAccepted(t *testing.T) {
	e := newPagesServer(t, false, &stubFeed{})

	rec := postForm(e, "/login", url.Values{
		"email":    {"user@example.com"},
		"password": {"longenough"},
	})
	var body xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusOK, body.Status)
}

func TestRegisterSubmitPasswordMismatch(t *testing.T) {
	e := newPagesServer(t, false, &stubFeed{})

	rec := postForm(e, "/register", url.Values{
		"name":             {"Sam"},
		"email":            {"user@example.com"},
		"password":         {"longenough"},
		"confirm_password": {"different1"},
	})
	var body xhttp.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, body.Status)
}

func TestDashboardRendersSections(t *testing.T) {
	feed := &stubFeed{indicators: &models.IndicatorSet{
		PolicyRate:   ptr(4.5),
		MortgageRate: ptr(5.25),
	}}
	e := newPagesServer(t, true, feed)

	rec := getPage(e, "/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "Demo Mode")
	assert.Contains(t, body, "4.50%")
	assert.Contains(t, body, "5.25%")
	assert.Contains(t, body, "N/A")
	assert.Contains(t, body, "interest-environment-label")
	assert.Contains(t, body, "Rates moved.")
}

func TestDashboardRendersFallbacks(t *testing.T) {
	e := newPagesServer(t, false, &stubFeed{err: errors.New("feed down")})

	rec := getPage(e, "/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, models.OverviewUnavailable)
	assert.Contains(t, body, models.LoadingText)
	assert.Contains(t, body, models.InsightsUnavailable)
}

func TestIndexRedirectsToDashboard(t *testing.T) {
	e := newPagesServer(t, false, &stubFeed{})
	rec := getPage(e, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get(echo.HeaderLocation))
}
