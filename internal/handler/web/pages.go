package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"EstatePulse/internal/service/ratelimit"
	"EstatePulse/internal/usecase"
	xhttp "EstatePulse/pkg/http"
	xlogger "EstatePulse/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Rate limit for auth form submissions, per client IP.
const (
	authBurst  = 10
	authRefill = 0.5 // tokens per second
)

// AuthPageView is the render-time model for the login and register pages.
// DemoMode is fixed when the view is built and never changes afterwards.
type AuthPageView struct {
	DemoMode    bool
	Title       string
	Action      string
	SubmitLabel string
}

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=8"`
}

// RegisterRequest carries the registration form fields.
type RegisterRequest struct {
	Name            string `form:"name" json:"name" validate:"required,min=2"`
	Email           string `form:"email" json:"email" validate:"required,email"`
	Password        string `form:"password" json:"password" validate:"required,min=8"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password" validate:"required,eqfield=Password"`
}

// PagesHandler serves the server-rendered dashboard and auth pages.
type PagesHandler struct {
	logger    *xlogger.Logger
	loader    *usecase.DashboardLoader
	demoMode  bool
	limiter   *ratelimit.Limiter
	templates *template.Template
}

// NewPagesHandler creates the page handler. demoMode gates the auth forms.
func NewPagesHandler(logger *xlogger.Logger, loader *usecase.DashboardLoader, demoMode bool) *PagesHandler {
	return &PagesHandler{
		logger:    logger,
		loader:    loader,
		demoMode:  demoMode,
		limiter:   ratelimit.New(),
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

func (h *PagesHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/dashboard", h.Dashboard)
	e.GET("/login", h.LoginPage)
	e.POST("/login", h.Login)
	e.GET("/register", h.RegisterPage)
	e.POST("/register", h.Register)
}

// Index redirects to the dashboard.
func (h *PagesHandler) Index(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/dashboard")
}

// Dashboard renders the economic dashboard page.
func (h *PagesHandler) Dashboard(c echo.Context) error {
	view := h.loader.Build(c.Request().Context())
	view.DemoMode = h.demoMode
	return h.render(c, "dashboard.html", view)
}

// LoginPage renders the login form.
func (h *PagesHandler) LoginPage(c echo.Context) error {
	view := AuthPageView{
		DemoMode:    h.demoMode,
		Title:       "Login",
		Action:      "/login",
		SubmitLabel: "Login",
	}
	if h.demoMode {
		view.SubmitLabel = "Demo Mode - Login Disabled"
	}
	return h.render(c, "login.html", view)
}

// RegisterPage renders the registration form.
func (h *PagesHandler) RegisterPage(c echo.Context) error {
	view := AuthPageView{
		DemoMode:    h.demoMode,
		Title:       "Register",
		Action:      "/register",
		SubmitLabel: "Create Account",
	}
	if h.demoMode {
		view.SubmitLabel = "Demo Mode - Registration Disabled"
	}
	return h.render(c, "register.html", view)
}

// Login handles the login form submission. Submissions are rejected outright
// in demo mode; credential verification belongs to the hosting deployment.
func (h *PagesHandler) Login(c echo.Context) error {
	if h.demoMode {
		return xhttp.AppErrorResponse(c, xhttp.ForbiddenError("authentication is disabled in demo mode"))
	}
	if !h.limiter.Allow(c.RealIP(), authBurst, authRefill) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many attempts, slow down"))
	}

	req := &LoginRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	h.logger.Info("login submitted", xlogger.String("email", req.Email))
	return xhttp.SuccessResponse(c, map[string]string{"message": "login accepted"})
}

// Register handles the registration form submission.
func (h *PagesHandler) Register(c echo.Context) error {
	if h.demoMode {
		return xhttp.AppErrorResponse(c, xhttp.ForbiddenError("registration is disabled in demo mode"))
	}
	if !h.limiter.Allow(c.RealIP(), authBurst, authRefill) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many attempts, slow down"))
	}

	req := &RegisterRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	h.logger.Info("registration submitted", xlogger.String("email", req.Email))
	return xhttp.SuccessResponse(c, map[string]string{"message": "registration accepted"})
}

func (h *PagesHandler) render(c echo.Context, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("template render failed", xlogger.String("template", name), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("page render failed").WithError(err))
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
