package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/nextprepbd/platform/internal/platform/service"
	"github.com/nextprepbd/platform/internal/platform/store"
	"github.com/nextprepbd/platform/pkg/httpx"
	"github.com/nextprepbd/platform/pkg/jwtx"
	"github.com/nextprepbd/platform/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	serviceKey   string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store           store.Store
	SessionService  *service.SessionService
	InviteService   *service.InviteService
	AccountService  *service.AccountService
	ContentService  *service.ContentService
	DonationService *service.DonationService
	ContactService  *service.ContactService
}

func NewRouter(
	verifier jwtx.Verifier,
	serviceKey, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		serviceKey:   serviceKey,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSessions()
	r.registerInvitations()
	r.registerRecovery()
	r.registerAdminAccounts()
	r.registerDonations()
	r.registerMessages()
	r.registerContent()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSessions() {
	registerHandler := &RegisterHandler{SessionService: r.SessionService}
	sessionHandler := &SessionHandler{SessionService: r.SessionService}
	profileHandler := &ProfileHandler{SessionService: r.SessionService}
	passwordHandler := &PasswordChangeHandler{AccountService: r.AccountService}

	// POST /register - strict rate limit by IP (account creation)
	r.Mux.Handle("POST /v1/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /sessions - strict rate limit by IP (brute force prevention)
	r.Mux.Handle("POST /v1/sessions",
		httpx.Chain(sessionHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /profile - authenticated, lenient rate limit by user
	r.Mux.Handle("GET /v1/profile",
		httpx.Chain(profileHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("profile:read"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// PUT /password - authenticated, strict rate limit (credential change)
	r.Mux.Handle("PUT /v1/password",
		httpx.Chain(http.HandlerFunc(passwordHandler.ServeHTTP),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerInvitations() {
	issueHandler := &InvitationIssueHandler{InviteService: r.InviteService}
	listHandler := &InvitationListHandler{InviteService: r.InviteService}
	acceptHandler := &InvitationAcceptHandler{InviteService: r.InviteService}

	// POST /invitations - admin operation, moderate rate limit by user
	r.Mux.Handle("POST /v1/invitations",
		httpx.Chain(issueHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /invitations - admin read, moderate rate limit by user
	r.Mux.Handle("GET /v1/invitations",
		httpx.Chain(listHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:read"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /invitations/accept - authenticated, strict rate limit by IP
	// (token guessing prevention)
	r.Mux.Handle("POST /v1/invitations/accept",
		httpx.Chain(acceptHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerRecovery() {
	h := &RecoveryHandler{AccountService: r.AccountService}

	// Both recovery endpoints are public and strictly limited by IP
	r.Mux.Handle("POST /v1/recovery",
		httpx.Chain(http.HandlerFunc(h.HandleStart),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/recovery/complete",
		httpx.Chain(http.HandlerFunc(h.HandleComplete),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAdminAccounts() {
	h := &AdminAccountsHandler{AccountService: r.AccountService}

	// Service-tier endpoints: gated by the shared service key, not by a
	// session. Moderate rate limit by IP.
	secure := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.RequireServiceKey(r.serviceKey),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/admin/accounts/{id}/password-reset", secure(http.HandlerFunc(h.HandlePasswordReset)))
	r.Mux.Handle("DELETE /v1/admin/accounts/{id}", secure(http.HandlerFunc(h.HandleDelete)))
	r.Mux.Handle("PUT /v1/admin/accounts/{id}/role", secure(http.HandlerFunc(h.HandleRoleChange)))
	r.Mux.Handle("POST /v1/admin/accounts/recovery", secure(http.HandlerFunc(h.HandleRecovery)))
}

func (r *Router) registerDonations() {
	h := &DonationsHandler{DonationService: r.DonationService}

	// POST /donations - public pledge form, moderate rate limit by IP
	r.Mux.Handle("POST /v1/donations",
		httpx.Chain(http.HandlerFunc(h.HandlePledge),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /donations - admin read
	r.Mux.Handle("GET /v1/donations",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:read"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /donations/{id}/resolve - admin write
	r.Mux.Handle("POST /v1/donations/{id}/resolve",
		httpx.Chain(http.HandlerFunc(h.HandleResolve),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerMessages() {
	h := &MessagesHandler{ContactService: r.ContactService}

	// POST /messages - public contact form, moderate rate limit by IP
	r.Mux.Handle("POST /v1/messages",
		httpx.Chain(http.HandlerFunc(h.HandleSubmit),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /messages - admin read
	r.Mux.Handle("GET /v1/messages",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:read"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// DELETE /messages/{id} - admin write
	r.Mux.Handle("DELETE /v1/messages/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("admin:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerContent() {
	courses := &CoursesHandler{ContentService: r.ContentService}
	resources := &ResourcesHandler{ContentService: r.ContentService}

	// Authenticated reads - lenient rate limit by user
	securedRead := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("content:read"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	// Writes require content:write (tutors and admins)
	securedWrite := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope("content:write"),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/courses", securedRead(http.HandlerFunc(courses.HandleList)))
	r.Mux.Handle("GET /v1/courses/{id}", securedRead(http.HandlerFunc(courses.HandleGet)))
	r.Mux.Handle("GET /v1/courses/{id}/resources", securedRead(http.HandlerFunc(resources.HandleListByCourse)))
	r.Mux.Handle("GET /v1/resources", securedRead(http.HandlerFunc(resources.HandleListMine)))

	r.Mux.Handle("POST /v1/courses", securedWrite(http.HandlerFunc(courses.HandleCreate)))
	r.Mux.Handle("PUT /v1/courses/{id}", securedWrite(http.HandlerFunc(courses.HandleUpdate)))
	r.Mux.Handle("DELETE /v1/courses/{id}", securedWrite(http.HandlerFunc(courses.HandleDelete)))
	r.Mux.Handle("POST /v1/resources", securedWrite(http.HandlerFunc(resources.HandleCreate)))
	r.Mux.Handle("DELETE /v1/resources/{id}", securedWrite(http.HandlerFunc(resources.HandleDelete)))
}

func (r *Router) registerSystem() {
	// Health endpoints - public with high limits
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
