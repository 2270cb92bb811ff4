package handler

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aryan0dhankhar/claimledger/internal/observability/metrics"
	"github.com/aryan0dhankhar/claimledger/internal/security/middleware"
	"github.com/aryan0dhankhar/claimledger/internal/security/ratelimit"
)

const maxJSONBody = 1 << 20

// RouterConfig collects everything NewRouter wires together
type RouterConfig struct {
	Auth    *AuthHandler
	Records *RecordHandler
	Files   *FileHandler
	Health  *HealthHandler

	// LoginLimiter throttles POST /api/login per client IP when set
	LoginLimiter       ratelimit.Allower
	CORSAllowedOrigins []string
	Logger             *slog.Logger
}

// NewRouter builds the API mux. Middleware order, outermost first:
// request ID, CORS, per-route metrics, then per-route validation.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	mux := http.NewServeMux()
	handle := func(method, path string, h http.Handler) {
		mux.Handle(method+" "+path, metrics.InstrumentRoute(path, h))
	}
	jsonBody := func(fields []string, h http.HandlerFunc) http.Handler {
		return middleware.ValidateJSONContentType(log)(
			middleware.RequireJSONFields(fields, maxJSONBody, log)(h),
		)
	}

	var login http.Handler = jsonBody(LoginFields, cfg.Auth.Login)
	if cfg.LoginLimiter != nil {
		login = middleware.RateLimit(cfg.LoginLimiter, "/api/login", log)(login)
	}

	handle(http.MethodPost, "/api/register", jsonBody(RegisterFields, cfg.Auth.Register))
	handle(http.MethodPost, "/api/login", login)
	handle(http.MethodGet, "/api/expenses", http.HandlerFunc(cfg.Records.ListExpenses))
	handle(http.MethodPost, "/api/expenses", jsonBody(ExpenseFields, cfg.Records.CreateExpense))
	handle(http.MethodGet, "/api/bills", http.HandlerFunc(cfg.Records.ListBills))
	handle(http.MethodPost, "/api/bills", jsonBody(BillFields, cfg.Records.CreateBill))
	handle(http.MethodPost, "/api/upload", http.HandlerFunc(cfg.Files.Upload))
	handle(http.MethodGet, "/api/files/{filename}", http.HandlerFunc(cfg.Files.Fetch))

	mux.HandleFunc("GET /healthz", cfg.Health.Health)
	mux.HandleFunc("GET /readyz", cfg.Health.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.RequestID(log)(middleware.CORS(cfg.CORSAllowedOrigins)(mux))
}
