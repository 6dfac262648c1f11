package http

import (
	"context"
	"fmt"
	stdhttp "net/http"

	"file-drive/internal/audit"
	"file-drive/internal/config"
	"file-drive/internal/http/handler"
	"file-drive/internal/http/middleware"
	"file-drive/internal/repository"
	"file-drive/internal/session"
	"file-drive/pkg/password"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	requestBodyLimit = "64K"
	// Room for the multipart envelope around the file part.
	multipartOverhead = 1 << 20
)

type ServerDependencies struct {
	Config       *config.Config
	DB           handler.Pinger
	Users        repository.UserRepository
	Folders      repository.FolderRepository
	Files        repository.FileRepository
	Drive        handler.DriveService
	Sessions     *session.Manager
	Audit        *audit.Logger
	Metrics      *middleware.Metrics
	PasswordCost int
	Logger       *zap.Logger
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = NewErrorHandler(deps.Logger)

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	uploadLimit := deps.Drive.MaxUploadSize() + multipartOverhead

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders(deps.Config.Session.CookieSecure))
	// Outside the request logger so it sees the final status
	e.Use(deps.Metrics.Middleware())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimitWithConfig(echomiddleware.BodyLimitConfig{
		Skipper: func(c echo.Context) bool { return c.Path() == "/upload" },
		Limit:   requestBodyLimit,
	}))

	// Global rate limiting
	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	// Strict rate limiting for credential endpoints
	strict := middleware.NewStrictRateLimiter().Middleware()
	userRateLimiter := middleware.NewUserRateLimiter()

	cost := deps.PasswordCost
	if cost == 0 {
		cost = password.DefaultCost
	}

	authHandler, err := handler.NewAuthHandler(deps.Users, deps.Sessions, deps.Audit, cost, deps.Logger)
	if err != nil {
		return nil, err
	}
	driveHandler := handler.NewDriveHandler(deps.Folders, deps.Files, deps.Drive, deps.Audit)
	fileHandler := handler.NewFileHandler(deps.Files, deps.Drive, deps.Audit)
	healthHandler := handler.NewHealthHandler(deps.DB, deps.Logger)

	e.GET("/", authHandler.Landing)
	e.GET("/sign-up", authHandler.SignUpForm)
	e.POST("/sign-up", authHandler.SignUp, strict)
	e.POST("/login", authHandler.Login, strict)
	e.POST("/logout", authHandler.Logout)
	e.GET("/health", healthHandler.Check)
	e.GET("/metrics/requests", deps.Metrics.Handler)
	if deps.Config.Server.EnableProfiling {
		registerProfiling(e)
	}

	// Per-route rather than a group: a root group with middleware would
	// swallow unknown paths into the session redirect.
	protected := []echo.MiddlewareFunc{
		deps.Sessions.RequireSession(),
		userRateLimiter.Middleware(),
	}

	e.GET("/after-login", authHandler.AfterLogin, protected...)

	e.GET("/drive", driveHandler.Root, protected...)
	e.GET("/drive/:folderId", driveHandler.Folder, protected...)
	e.POST("/folders", driveHandler.CreateFolder, protected...)
	e.POST("/folders/:id/rename", driveHandler.RenameFolder, protected...)
	e.POST("/folders/:id/delete", driveHandler.DeleteFolder, protected...)

	e.GET("/files/:id", fileHandler.Details, protected...)
	e.GET("/files/:id/download", fileHandler.Download, protected...)
	e.POST("/files/:id/rename", fileHandler.Rename, protected...)
	e.POST("/files/:id/delete", fileHandler.Delete, protected...)
	e.POST("/upload", fileHandler.Upload, append(protected,
		echomiddleware.BodyLimit(fmt.Sprintf("%dB", uploadLimit)),
	)...)

	return &Server{
		echo: e,
		deps: deps,
	}, nil
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.echo.ServeHTTP(w, r)
}
