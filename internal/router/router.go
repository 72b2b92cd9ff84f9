package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskhub/internal/apperr"
	"taskhub/internal/auth"
	"taskhub/internal/config"
	"taskhub/internal/handler"
	"taskhub/internal/model"
)

// permissions declares the role gate per operation as plain configuration
// data. Operations not listed require only an authenticated caller.
var permissions = map[string][]model.Role{
	"users.create":      {model.RoleAdmin},
	"users.findAll":     {model.RoleAdmin, model.RoleManager},
	"users.findOne":     {model.RoleAdmin, model.RoleManager},
	"users.update":      {model.RoleAdmin},
	"users.remove":      {model.RoleAdmin},
	"projects.create":   {model.RoleAdmin, model.RoleManager},
	"projects.update":   {model.RoleAdmin, model.RoleManager},
	"projects.remove":   {model.RoleAdmin},
	"categories.create": {model.RoleAdmin, model.RoleManager},
	"categories.update": {model.RoleAdmin, model.RoleManager},
	"categories.remove": {model.RoleAdmin},
	"tasks.create":      {model.RoleAdmin, model.RoleManager},
	"tasks.findAll":     {model.RoleAdmin, model.RoleManager},
}

func roleGate(operation string) echo.MiddlewareFunc {
	return auth.RequireRoles(permissions[operation]...)
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	projectHandler *handler.ProjectHandler,
	categoryHandler *handler.CategoryHandler,
	taskHandler *handler.TaskHandler,
	healthHandler *handler.HealthHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = errorHandler

	e.GET("/healthz", healthHandler.Check)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/auth/profile", authHandler.GetProfile)
	secured.PATCH("/auth/profile", authHandler.UpdateProfile)
	secured.PATCH("/auth/change-password", authHandler.ChangePassword)

	secured.POST("/users", userHandler.Create, roleGate("users.create"))
	secured.GET("/users", userHandler.FindAll, roleGate("users.findAll"))
	secured.GET("/users/:id", userHandler.FindOne, roleGate("users.findOne"))
	secured.PATCH("/users/:id", userHandler.Update, roleGate("users.update"))
	secured.DELETE("/users/:id", userHandler.Remove, roleGate("users.remove"))

	secured.POST("/projects", projectHandler.Create, roleGate("projects.create"))
	secured.GET("/projects", projectHandler.FindAll)
	secured.GET("/projects/:id", projectHandler.FindOne)
	secured.PATCH("/projects/:id", projectHandler.Update, roleGate("projects.update"))
	secured.DELETE("/projects/:id", projectHandler.Remove, roleGate("projects.remove"))

	secured.POST("/categories", categoryHandler.Create, roleGate("categories.create"))
	secured.GET("/categories", categoryHandler.FindAll)
	secured.GET("/categories/:id", categoryHandler.FindOne)
	secured.PATCH("/categories/:id", categoryHandler.Update, roleGate("categories.update"))
	secured.DELETE("/categories/:id", categoryHandler.Remove, roleGate("categories.remove"))

	secured.POST("/tasks", taskHandler.Create, roleGate("tasks.create"))
	secured.GET("/tasks", taskHandler.FindAll, roleGate("tasks.findAll"))
	secured.GET("/tasks/my", taskHandler.FindMyTasks)
	secured.GET("/tasks/:id", taskHandler.FindOne)
	secured.PATCH("/tasks/:id", taskHandler.Update)
	secured.PATCH("/tasks/:id/status", taskHandler.UpdateStatus)
	secured.DELETE("/tasks/:id", taskHandler.Remove)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// errorHandler renders every error as the standard {error, code} body.
// Framework errors (routing, JWT middleware) arrive as echo.HTTPError; all
// application errors carry their own kind.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = c.JSON(he.Code, apperr.ErrorResponse{
			Error: fmt.Sprintf("%v", he.Message),
			Code:  statusCode(he.Code),
		})
		return
	}

	status, body := apperr.ToResponse(err)
	_ = c.JSON(status, body)
}

func statusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		return "INTERNAL_ERROR"
	}
}
