package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	app "github.com/R3E-Network/storefront/internal/app"
	"github.com/R3E-Network/storefront/internal/app/metrics"
	"github.com/R3E-Network/storefront/internal/app/validation"
	svcerrors "github.com/R3E-Network/storefront/internal/errors"
	"github.com/R3E-Network/storefront/internal/httputil"
	"github.com/R3E-Network/storefront/internal/middleware"
	"github.com/R3E-Network/storefront/pkg/admin"
	"github.com/R3E-Network/storefront/pkg/api"
	"github.com/R3E-Network/storefront/pkg/logger"
)

// Options configures the HTTP layer.
type Options struct {
	// UserIDHeader names the caller identity header. Defaults to x_user_id.
	UserIDHeader string
	Logger       *logger.Logger
	// AuditSize bounds the in-memory audit ring.
	AuditSize int
	// AuditLogPath, when set, appends every audit entry to a JSONL file.
	AuditLogPath string
	RateLimit    RateLimitOptions
	CORSOrigins  []string
	MaxBodyBytes int64
}

// RateLimitOptions configures per-client limiting. Zero RequestsPerSecond
// disables it.
type RateLimitOptions struct {
	RequestsPerSecond float64
	Burst             int
}

// Handler serves the storefront REST API.
type Handler struct {
	app     *app.Application
	log     *logger.Logger
	audit   *auditTrail
	journal *auditJournal
	header  string
	maxBody int64
	root    http.Handler
}

// NewHandler builds the router and wraps it in tracing, CORS and rate
// limiting.
func NewHandler(application *app.Application, opts Options) (*Handler, error) {
	if application == nil {
		return nil, errors.New("httpapi: application is required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	header := opts.UserIDHeader
	if header == "" {
		header = "x_user_id"
	}

	h := &Handler{
		app:     application,
		log:     log,
		header:  header,
		maxBody: opts.MaxBodyBytes,
	}

	if opts.AuditLogPath != "" {
		journal, err := openAuditJournal(opts.AuditLogPath)
		if err != nil {
			return nil, err
		}
		h.journal = journal
	}
	h.audit = newAuditTrail(opts.AuditSize, h.journal)

	var root http.Handler = h.router()
	if opts.RateLimit.RequestsPerSecond > 0 {
		limiter := middleware.NewRateLimiter(opts.RateLimit.RequestsPerSecond, opts.RateLimit.Burst, log.WithComponent("ratelimit"))
		root = limiter.Handler(root)
	}
	root = middleware.NewCORSMiddleware(opts.CORSOrigins, header).Handler(root)
	root = middleware.Tracing(log)(root)
	h.root = root

	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.root.ServeHTTP(w, r)
}

// Close releases the audit journal.
func (h *Handler) Close() error {
	if h.journal != nil {
		return h.journal.Close()
	}
	return nil
}

func (h *Handler) router() *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(h.notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.methodNotAllowed)
	r.Use(middleware.Metrics())

	identity := middleware.UserIdentity(h.header)
	guarded := func(fn http.HandlerFunc) http.Handler { return identity(fn) }

	// Every resource path is served with and without a trailing slash.
	handle := func(path string, handler http.Handler, method string) {
		r.Handle(path, handler).Methods(method)
		r.Handle(path+"/", handler).Methods(method)
	}

	handle("/users", http.HandlerFunc(h.registerUser), http.MethodPost)
	handle("/users/{id:[0-9]+}", http.HandlerFunc(h.getUser), http.MethodGet)

	handle("/purchases", http.HandlerFunc(h.registerPurchase), http.MethodPost)
	handle("/purchases", guarded(h.listPurchases), http.MethodGet)
	handle("/all-purchases", guarded(h.listPurchases), http.MethodGet)
	handle("/purchases/{id:[0-9]+}", guarded(h.getPurchase), http.MethodGet)

	handle("/payments", http.HandlerFunc(h.registerPayment), http.MethodPost)
	handle("/payments", guarded(h.listPayments), http.MethodGet)
	handle("/all-payments", guarded(h.listPayments), http.MethodGet)
	handle("/payments/{id:[0-9]+}", guarded(h.getPayment), http.MethodGet)

	handle("/admin/users", http.HandlerFunc(h.adminUsers), http.MethodGet)
	handle("/admin/paid_purchases", http.HandlerFunc(h.adminPaidPurchases), http.MethodGet)
	handle("/admin/total_purchases", http.HandlerFunc(h.adminTotalPurchases), http.MethodGet)
	handle("/admin/audit", http.HandlerFunc(h.adminAudit), http.MethodGet)

	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, api.Health{Status: "ok"})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, svcerrors.NotFound("Not found"))
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httputil.WriteErrorResponse(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
		fmt.Sprintf("Method %s not allowed", r.Method), nil)
}

// pathID parses the {id} route variable. Values that overflow int64 cannot
// name a record and are reported as notFoundMsg.
func pathID(r *http.Request, notFoundMsg string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, svcerrors.NotFound(notFoundMsg)
	}
	return id, nil
}

// callerID returns the id set by the identity middleware.
func callerID(r *http.Request) int64 {
	id, _ := middleware.UserIDFromRequest(r)
	return id
}

// readBody returns the raw request body, or a VALIDATION_ERROR when it cannot
// be read within the size limit.
func (h *Handler) readBody(r *http.Request) ([]byte, error) {
	body, err := httputil.ReadBody(r, h.maxBody)
	if err != nil {
		return nil, validation.AsServiceError(validation.Errors{{
			Field:   validation.RootField,
			Message: err.Error(),
			Type:    "value_error.body",
		}})
	}
	return body, nil
}

// writeError responds with err. Failures mapped to a 5xx status are logged
// with their cause, which the response body never carries.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if svcerrors.IsInternal(err) {
		h.log.WithContext(r.Context()).
			WithError(err).
			WithField("method", r.Method).
			WithField("path", r.URL.Path).
			Error("request failed")
	}
	httputil.WriteError(w, r, err)
}

// writeCreated responds to a successful registration and audits it.
func (h *Handler) writeCreated(w http.ResponseWriter, r *http.Request, kind string, userID, recordID int64, body any) {
	h.record(r, admin.AuditEntry{Kind: kind, UserID: userID, RecordID: recordID, Status: http.StatusOK})
	httputil.WriteJSON(w, http.StatusOK, body)
}

// writeRejected responds to a refused registration and audits it.
func (h *Handler) writeRejected(w http.ResponseWriter, r *http.Request, kind string, err error) {
	h.record(r, admin.AuditEntry{Kind: kind, Status: svcerrors.HTTPStatus(err), Code: string(svcerrors.CodeOf(err))})
	h.writeError(w, r, err)
}

func (h *Handler) record(r *http.Request, entry admin.AuditEntry) {
	entry.Time = nowUTC()
	entry.TraceID = logger.TraceID(r.Context())
	entry.CallerID = assertedCaller(r, h.header)
	entry.RemoteAddr = r.RemoteAddr
	if err := h.audit.append(entry); err != nil {
		h.log.WithContext(r.Context()).WithError(err).Warn("write audit entry")
	}
}

// assertedCaller returns the caller id header on unguarded routes, or 0 when
// it is absent or not an integer.
func assertedCaller(r *http.Request, header string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get(header)), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
