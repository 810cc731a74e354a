// Package httpserver exposes the session boundary over HTTP using gin.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/limiter"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// UserService is the subset of services.UserService the handlers need.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, userName, password string) (*services.Token, error)
	VerifyAndIdentify(ctx context.Context, token string) services.Verification
	Revoke(ctx context.Context, token string) error
}

// Options configures optional collaborators. Zero values are usable.
type Options struct {
	AllowedOrigins []string
	Limiter        *limiter.LoginLimiter
	Metrics        *metrics.Metrics
}

type HTTPServer struct {
	address string
	logger  logging.Logger
	users   UserService
	limiter *limiter.LoginLimiter
	metrics *metrics.Metrics
	engine  *gin.Engine
}

func NewHTTPServer(address string, l logging.Logger, us UserService, opts Options) *HTTPServer {
	if l == nil {
		l = logging.Nop()
	}
	if opts.Limiter == nil {
		opts.Limiter = limiter.NewDefault()
	}

	s := &HTTPServer{
		address: address,
		logger:  l.With("module", "http_server"),
		users:   us,
		limiter: opts.Limiter,
		metrics: opts.Metrics,
	}
	s.engine = s.routes(opts.AllowedOrigins)
	return s
}

func (s *HTTPServer) routes(origins []string) *gin.Engine {
	r := gin.New()
	r.Use(s.recovery(), s.requestLogger())

	if len(origins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = origins
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
		r.Use(cors.New(corsConfig))
	}

	r.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, codeNotFound, "not found")
	})

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	r.POST("/register", s.register)
	r.POST("/login", s.login)

	protected := r.Group("")
	protected.Use(s.requireAuth())
	{
		protected.GET("/user/me", s.me)
		protected.POST("/logout", s.logout)
	}

	return r
}

// Handler returns the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(context.Background(), "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
