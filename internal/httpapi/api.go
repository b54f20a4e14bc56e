// Package httpapi exposes the product over JSON/HTTP for the web front
// end. All credential operations are routed through the access controller;
// the handlers only translate between HTTP and domain types.
package httpapi

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/securestash/securestash/internal/access"
	"github.com/securestash/securestash/internal/identity"
	"github.com/securestash/securestash/internal/logging"
	"github.com/securestash/securestash/internal/session"
)

type API struct {
	identities *identity.Service
	sessions   *session.Store
	control    *access.Controller
	secretKey  []byte
	tokenTTL   time.Duration
	logger     logging.Logger
}

func New(identities *identity.Service, sessions *session.Store, control *access.Controller,
	secretKey []byte, tokenTTL time.Duration, logger logging.Logger) *API {
	return &API{
		identities: identities,
		sessions:   sessions,
		control:    control,
		secretKey:  secretKey,
		tokenTTL:   tokenTTL,
		logger:     logger.With("module", "httpapi"),
	}
}

// Router builds the full route tree. Everything below /api requires a
// bearer token except signup and signin.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/api/signup", a.handleSignUp)
	r.Post("/api/signin", a.handleSignIn)

	r.Group(func(r chi.Router) {
		r.Use(a.withSession)

		r.Post("/api/logout", a.handleLogout)
		r.Get("/api/session", a.handleGetSession)
		r.Put("/api/session/verification-email", a.handleSetVerificationEmail)

		r.Route("/api/credentials/{category}", func(r chi.Router) {
			r.Get("/", a.handleList)
			r.Post("/", a.handleAdd)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", a.handleView)
				r.Put("/", a.handleEdit)
				r.Delete("/", a.handleDelete)
				r.Post("/verify", a.handleVerify)
				r.Post("/cancel", a.handleCancel)
			})
		})
	})

	return r
}
