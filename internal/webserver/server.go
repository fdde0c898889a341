// Package webserver owns the echo instance and the route groups the admin
// and storefront APIs register into.
package webserver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pskitchenware/storefront/config"
	"github.com/pskitchenware/storefront/internal/app"
)

const (
	AdminPrefix = "/api/v1/admin"
	StorePrefix = "/api/v1/store"

	// AuthCookie carries the admin JWT
	AuthCookie = "ps-auth-token"

	// SessionMaxLength bounds one encoded session file
	SessionMaxLength = 256 << 10

	appContextKey = "appctx"
)

type WebServer struct {
	root   *echo.Echo
	api    *echo.Group // admin, JWT protected
	open   *echo.Group // admin, public
	store  *echo.Group // storefront, cookie session
	appCtx app.AppContext
}

var server *WebServer

// Init builds a fresh server. Route registration functions must run after it.
func Init(appCtx app.AppContext) *WebServer {
	cfg := appCtx.Config()
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(requestLogger())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appContextKey, appCtx)
			return next(c)
		}
	})

	e.Static("/uploads", cfg.GetUploadsDir())

	s := &WebServer{root: e, appCtx: appCtx}
	s.open = e.Group(AdminPrefix)
	s.api = e.Group(AdminPrefix, echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.Web.Secret),
		TokenLookup: "header:Authorization:Bearer ,cookie:" + AuthCookie,
		ErrorHandler: func(c echo.Context, err error) error {
			return Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		},
	}))

	// the cookie carries only the session id; values live in session files
	if err := os.MkdirAll(cfg.GetSessionDir(), 0o700); err != nil {
		zap.L().Error("create session dir error", zap.Error(err))
	}
	store := sessions.NewFilesystemStore(cfg.GetSessionDir(), []byte(cfg.Web.Secret))
	store.MaxLength(SessionMaxLength)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   config.SessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	s.store = e.Group(StorePrefix, session.Middleware(store))

	server = s
	return s
}

func (s *WebServer) Handler() http.Handler {
	return s.root
}

func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// Start serves until ctx is done, then shuts down gracefully
func (s *WebServer) Start(ctx context.Context) error {
	cfg := s.appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	errCh := make(chan error, 1)
	go func() {
		zap.S().Infof("Storefront web server listening on %s", addr)
		if err := s.root.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "web server")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.root.Shutdown(shutdownCtx)
	}
}

// GetAppContext returns the application bound by the server middleware
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(appContextKey).(app.AppContext)
}

// ApiGET registers a JWT protected admin route
func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.GET(path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.POST(path, h, m...)
}

func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PUT(path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.DELETE(path, h, m...)
}

// OpenPOST registers a public admin route such as login
func OpenPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.open.POST(path, h, m...)
}

// StoreGET registers a public storefront route with the cart session
func StoreGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.store.GET(path, h, m...)
}

func StorePOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.store.POST(path, h, m...)
}

func StorePUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.store.PUT(path, h, m...)
}

func StoreDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.store.DELETE(path, h, m...)
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("namespace", "web"),
			}
			if v.Error != nil {
				zap.L().Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			zap.L().Debug("request", fields...)
			return nil
		},
	})
}

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		zap.L().Error("unhandled request error", zap.Error(err), zap.String("uri", c.Request().RequestURI))
	}
	_ = Fail(c, code, http.StatusText(code), msg, nil)
}
