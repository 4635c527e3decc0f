package users

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// ControllerRoutes holds the route paths the controller registers
type ControllerRoutes struct {
	Register     string
	Profile      string
	Token        string
	TokenRefresh string
	Health       string
}

// Controller exposes the account and token operations as JSON endpoints
type Controller struct {
	Debug        bool
	Logger       Logger
	Accounts     Accounts
	Tokens       TokenService
	Routes       *ControllerRoutes
	Gate         router.MiddlewareFunc
	ContextKey   string
	ErrorHandler func(router.Context, error) error
}

type ControllerOption func(*Controller) *Controller

func WithControllerLogger(logger Logger) ControllerOption {
	return func(c *Controller) *Controller {
		c.Logger = logger
		return c
	}
}

func WithControllerDebug(debug bool) ControllerOption {
	return func(c *Controller) *Controller {
		c.Debug = debug
		return c
	}
}

// NewController builds a Controller. The Gate middleware guards the
// profile routes; everything else is public.
func NewController(accounts Accounts, tokens TokenService, gate router.MiddlewareFunc, opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger:   defLogger{},
		Accounts: accounts,
		Tokens:   tokens,
		Gate:     gate,
		ContextKey: "user",
		Routes: &ControllerRoutes{
			Register:     "/user/register",
			Profile:      "/user/:id",
			Token:        "/auth/token",
			TokenRefresh: "/auth/token/refresh",
			Health:       "/health",
		},
	}
	c.ErrorHandler = c.respondError

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Accounts == nil {
		panic("Missing Accounts service in users controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in users controller...")
	}

	if c.Gate == nil {
		panic("Missing auth gate middleware in users controller...")
	}

	return c
}

// RegisterRoutes mounts the controller on the given router
func RegisterRoutes[T any](app router.Router[T], controller *Controller) {
	app.Post(controller.Routes.Register, controller.RegisterPost).
		SetName("user-register")

	app.Get(controller.Routes.Profile, controller.ProfileGet, controller.Gate).
		SetName("user-detail.get")
	app.Put(controller.Routes.Profile, controller.ProfilePut, controller.Gate).
		SetName("user-detail.put")

	app.Post(controller.Routes.Token, controller.TokenPost).
		SetName("token-obtain")
	app.Post(controller.Routes.TokenRefresh, controller.TokenRefreshPost).
		SetName("token-refresh")

	app.Get(controller.Routes.Health, controller.HealthGet).
		SetName("healthcheck")
}

// RegisterPayload is the registration body
type RegisterPayload struct {
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Phone     string `json:"phone_number" form:"phone_number"`
	Avatar    string `json:"avatar" form:"avatar"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email, validation.Length(3, 255)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.FirstName, validation.Length(0, 255)),
		validation.Field(&r.LastName, validation.Length(0, 255)),
		validation.Field(&r.Phone, validation.Length(0, 20)),
		validation.Field(&r.Avatar, validation.Length(0, 256)),
	)
}

func (a *Controller) RegisterPost(ctx router.Context) error {
	payload := new(RegisterPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return a.respondBindError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register validate payload", "error", err)
		return a.respondValidation(ctx, err)
	}

	if a.Debug {
		a.Logger.Debug("register payload", "payload", print.MaybePrettyJSON(payload))
	}

	account, err := a.Accounts.Register(ctx.Context(), RegisterInput{
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
		Avatar:    payload.Avatar,
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, account)
}

func (a *Controller) ProfileGet(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, a.ContextKey)
	if !ok {
		return a.ErrorHandler(ctx, ErrUnauthenticated)
	}

	account, err := a.Accounts.GetProfile(ctx.Context(), ctx.Param("id", ""), RequesterFromClaims(claims))
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, account)
}

// ProfileUpdatePayload carries a partial profile update. Absent fields
// keep their stored values and an empty string clears the field; id,
// email, and role are never writable.
type ProfileUpdatePayload struct {
	FirstName *string `json:"first_name" form:"first_name"`
	LastName  *string `json:"last_name" form:"last_name"`
	Phone     *string `json:"phone_number" form:"phone_number"`
	Avatar    *string `json:"avatar" form:"avatar"`
	Password  *string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r ProfileUpdatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Phone, validation.Length(0, 20)),
		validation.Field(&r.Avatar, validation.Length(0, 256)),
	)
}

func (a *Controller) ProfilePut(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, a.ContextKey)
	if !ok {
		return a.ErrorHandler(ctx, ErrUnauthenticated)
	}

	payload := new(ProfileUpdatePayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("profile update parse payload", "error", err)
		return a.respondBindError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("profile update validate payload", "error", err)
		return a.respondValidation(ctx, err)
	}

	account, err := a.Accounts.UpdateProfile(ctx.Context(), ctx.Param("id", ""), UpdateProfileInput{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Phone:     payload.Phone,
		Avatar:    payload.Avatar,
		Password:  payload.Password,
	}, RequesterFromClaims(claims))
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, account)
}

// TokenObtainPayload is the login body
type TokenObtainPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r TokenObtainPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *Controller) TokenPost(ctx router.Context) error {
	payload := new(TokenObtainPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("token obtain parse payload", "error", err)
		return a.respondBindError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(ctx, err)
	}

	pair, err := a.Accounts.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		// credential and disabled-account failures surface as 400 here,
		// matching the contract of the login endpoint
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryAuth {
			return ctx.JSON(http.StatusBadRequest, errorBody(richErr))
		}
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, pair)
}

// TokenRefreshPayload is the refresh body
type TokenRefreshPayload struct {
	Refresh string `json:"refresh" form:"refresh"`
}

// Validate will run validation rules
func (r TokenRefreshPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Refresh, validation.Required),
	)
}

func (a *Controller) TokenRefreshPost(ctx router.Context) error {
	payload := new(TokenRefreshPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("token refresh parse payload", "error", err)
		return a.respondBindError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(ctx, err)
	}

	access, err := a.Tokens.Refresh(payload.Refresh)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{"access": access})
}

func (a *Controller) HealthGet(ctx router.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *Controller) respondError(ctx router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "an unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = statusFromCategory(richErr.Category)
	}

	if status >= http.StatusInternalServerError {
		a.Logger.Error("request failed",
			"error", richErr.Message,
			"category", richErr.Category,
			"details", print.MaybePrettyJSON(richErr.Metadata),
		)
		// opaque server-side failure: no internals leak outward
		return ctx.JSON(status, map[string]string{"error": "internal server error"})
	}

	return ctx.JSON(status, errorBody(richErr))
}

func (a *Controller) respondValidation(ctx router.Context, err error) error {
	body := map[string]any{
		"error":     "validation failed",
		"text_code": "VALIDATION_FAILED",
	}

	if fieldErrs, ok := err.(validation.Errors); ok {
		fields := map[string]string{}
		for field, fieldErr := range fieldErrs {
			fields[field] = fieldErr.Error()
		}
		body["fields"] = fields
	} else {
		body["error"] = err.Error()
	}

	return ctx.JSON(http.StatusBadRequest, body)
}

func (a *Controller) respondBindError(ctx router.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, map[string]string{
		"error":     "failed to parse request body",
		"text_code": "MALFORMED_BODY",
	})
}

func errorBody(richErr *goerrors.Error) map[string]any {
	body := map[string]any{
		"error": richErr.Message,
	}
	if richErr.TextCode != "" {
		body["text_code"] = richErr.TextCode
	}
	if len(richErr.Metadata) > 0 {
		body["fields"] = richErr.Metadata
	}
	return body
}

func statusFromCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusBadRequest
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
