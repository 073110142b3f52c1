package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/crop-advisor/go-service/internal/diagnosis"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/ensemble"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/eval"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/events"
	"github.com/danielpatrickdp/crop-advisor/go-service/internal/metrics"
)

// #region types
// Dispatcher sends events without blocking the request.
type Dispatcher interface {
	Dispatch(evt events.Event)
}

// Deps are the collaborators of the HTTP layer. AuditDB, Events and Metrics
// are optional.
type Deps struct {
	Predictor *ensemble.Predictor
	Diagnoser *diagnosis.Diagnoser
	AuditDB   *sql.DB
	Events    Dispatcher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// Server is the HTTP front of the prediction and diagnosis pipelines.
type Server struct {
	deps Deps
	eval *eval.EvalHarness
}

// #endregion types

// #region constructor
// NewServer creates a server. A nil logger is replaced by a no-op logger.
func NewServer(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Server{deps: deps, eval: eval.NewEvalHarness(eval.DefaultEvalConfig())}
}

// #endregion constructor

// #region router
// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(
		RequestID(),
		Recovery(s.deps.Logger),
		AccessLog(s.deps.Logger),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader},
			ExposeHeaders:   []string{RequestIDHeader},
			MaxAge:          12 * time.Hour,
		}),
	)
	if s.deps.Metrics != nil {
		r.Use(Instrument(s.deps.Metrics))
		r.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
	}

	r.GET("/health", s.health)
	r.POST("/predict", s.predict)
	r.POST("/analyze-disease", s.analyzeDisease)
	return r
}

// NewHTTPServer wraps handler in an http.Server with the given timeouts.
func NewHTTPServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}
}

// #endregion router
