package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bancosur/corresponsal/internal/terminal/service"
	"github.com/bancosur/corresponsal/internal/terminal/store"
	"github.com/bancosur/corresponsal/pkg/httpx"
	"github.com/bancosur/corresponsal/pkg/slogx"

	_ "github.com/bancosur/corresponsal/api/terminal" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AuthService    *service.AuthService
	FlowService    *service.FlowService
	CatalogService *service.CatalogService
	ReceiptService *service.ReceiptService
	HistoryService *service.HistoryService
	SessionManager *service.SessionManager
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerCatalogs()
	r.registerFlows()
	r.registerReceipts()
	r.registerHistory()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Corresponsal Terminal API
//	@version		0.1.0
//	@description	On-device service driving the banking-agent terminal: session management,
//	@description	transaction flows (withdrawal, deposit, loan payment, receivables, bills),
//	@description	OTP verification and receipt printing over the remote core-banking API.
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	login := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/session/login",
		httpx.Chain(login, httpx.RateLimitByIP(httpx.StrictLimit)))

	logout := &LogoutHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/session/logout", logout)

	activate := &ActivateHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/session/activate",
		httpx.Chain(activate, httpx.RateLimitByIP(httpx.StrictLimit)))
}

func (r *Router) registerCatalogs() {
	r.Mux.Handle("GET /v1/catalogs", &CatalogsHandler{
		CatalogService: r.CatalogService,
		SessionManager: r.SessionManager,
	})
}

func (r *Router) registerFlows() {
	flows := &FlowHandler{FlowService: r.FlowService}

	r.Mux.Handle("POST /v1/flows", http.HandlerFunc(flows.HandleStart))
	r.Mux.Handle("GET /v1/flows/{id}", http.HandlerFunc(flows.HandleGet))
	r.Mux.Handle("DELETE /v1/flows/{id}", http.HandlerFunc(flows.HandleAbandon))
	r.Mux.Handle("POST /v1/flows/{id}/client", http.HandlerFunc(flows.HandleClient))
	r.Mux.Handle("POST /v1/flows/{id}/target", http.HandlerFunc(flows.HandleTarget))
	r.Mux.Handle("POST /v1/flows/{id}/amount", http.HandlerFunc(flows.HandleAmount))
	r.Mux.Handle("POST /v1/flows/{id}/otp/resend", http.HandlerFunc(flows.HandleOTPResend))
	r.Mux.Handle("POST /v1/flows/{id}/otp/verify", http.HandlerFunc(flows.HandleOTPVerify))
	r.Mux.Handle("POST /v1/flows/{id}/commit", http.HandlerFunc(flows.HandleCommit))
}

func (r *Router) registerReceipts() {
	receipts := &ReceiptsHandler{ReceiptService: r.ReceiptService}
	r.Mux.Handle("GET /v1/receipts/{id}", http.HandlerFunc(receipts.HandleGet))
	r.Mux.Handle("GET /v1/receipts/{id}/print", http.HandlerFunc(receipts.HandlePrint))
}

func (r *Router) registerHistory() {
	r.Mux.Handle("GET /v1/history", &HistoryHandler{
		HistoryService: r.HistoryService,
		SessionManager: r.SessionManager,
	})
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
