// Package server assembles the panel HTTP server: the chi router, the
// middleware chain, and the remote service clients the panel endpoints run
// over.
package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/syspanel/syspanel/internal/common/httpclient"
	"github.com/syspanel/syspanel/internal/common/httpx"
	"github.com/syspanel/syspanel/internal/common/logtrace"
	commonmiddleware "github.com/syspanel/syspanel/internal/common/middleware"
	"github.com/syspanel/syspanel/internal/panelsrv/compute"
	"github.com/syspanel/syspanel/internal/panelsrv/config"
	"github.com/syspanel/syspanel/internal/panelsrv/identity"
	"github.com/syspanel/syspanel/internal/panelsrv/metrics"
	"github.com/syspanel/syspanel/internal/panelsrv/pancommon"
	"github.com/syspanel/syspanel/internal/panelsrv/projects"
	"github.com/syspanel/syspanel/internal/panelsrv/workflows"
)

// PanelServer is the assembled panel service.
type PanelServer struct {
	Router   *chi.Mux
	Identity identity.Client
	Compute  compute.Client
}

// CreateNewServer builds a server with clients constructed from the loaded
// configuration.
func CreateNewServer() (*PanelServer, error) {
	cfg := config.Config()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	idc := identity.NewClient(&cfg.Identity, httpclient.ClientOptions{
		Timeout: cfg.Identity.GetRequestTimeoutOrDefault(),
	})
	cc := compute.NewClient(&cfg.Compute, httpclient.ClientOptions{
		Timeout: cfg.Compute.GetRequestTimeoutOrDefault(),
	})
	return CreateServerWithClients(idc, cc), nil
}

// CreateServerWithClients builds a server over the given clients. Tests use
// this to substitute the remote services.
func CreateServerWithClients(idc identity.Client, cc compute.Client) *PanelServer {
	return &PanelServer{
		Router:   chi.NewRouter(),
		Identity: idc,
		Compute:  cc,
	}
}

// MountHandlers installs the middleware chain and all panel routes.
func (s *PanelServer) MountHandlers() {
	cfg := config.Config()
	metrics.MustInit()

	s.Router.Use(commonmiddleware.RequestLogger)
	s.Router.Use(commonmiddleware.PanicHandler)
	s.Router.Use(metrics.Middleware)
	s.Router.Use(operatorContext)
	s.Router.Use(commonmiddleware.LimitRequestBody(cfg.MaxRequestBodySize))
	s.Router.Use(commonmiddleware.SetTimeout(cfg.GetRequestTimeoutOrDefault()))
	if cfg.HandleCORS {
		s.Router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	s.mountPanelHandlers(s.Router)

	if logtrace.IsTraceEnabled() {
		walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			fmt.Printf("%s %s\n", method, route)
			return nil
		}
		if err := chi.Walk(s.Router, walkFunc); err != nil {
			fmt.Printf("Logging err: %s\n", err.Error())
		}
	}
}

// operatorContext propagates the operator identity injected by whatever
// fronts the panel. The headers are optional; endpoints fall back to
// configured defaults when they are absent. The operator user is only
// attached to the request log context.
func operatorContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if tenantID := r.Header.Get(OperatorTenantHeader); tenantID != "" {
			ctx = pancommon.WithTenantID(ctx, pancommon.TenantID(tenantID))
		}
		if user := r.Header.Get(OperatorUserHeader); user != "" {
			ctx = log.Ctx(ctx).With().Str("operator", user).Logger().WithContext(ctx)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

const (
	OperatorUserHeader   = "X-Syspanel-Operator-User"
	OperatorTenantHeader = "X-Syspanel-Operator-Tenant"
)

func (s *PanelServer) mountPanelHandlers(r chi.Router) {
	// Workflow routes first so /projects/create wins over /projects/{tenantID}.
	workflows.NewHandler(s.Identity, s.Compute).Router(r)
	projects.NewHandler(s.Identity, s.Compute).Router(r)
	r.Get("/version", s.getVersion)
	r.Get("/ready", s.getReadiness)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
}

type GetVersionRsp struct {
	ServerVersion string `json:"serverVersion"`
	ApiVersion    string `json:"apiVersion"`
}

func (s *PanelServer) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	rsp := &GetVersionRsp{
		ServerVersion: "Syspanel Server: " + pancommon.ServerVersion,
		ApiVersion:    pancommon.ApiVersion,
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, rsp)
}

func (s *PanelServer) getReadiness(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("Readiness check")

	if err := s.Identity.Ping(r.Context()); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("identity service unreachable during readiness check")
		httpx.SendJsonRsp(r.Context(), w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "identity service unreachable",
		})
		return
	}

	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
