// Package web serves the storefront pages and the cart JSON endpoint.
package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/port"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultSessionCookie = "storefront_session"

	featuredCount = 4
)

type Deps struct {
	Catalog  port.Catalog
	Carts    *cart.Registry
	Checkout *checkout.Service
	Logger   *slog.Logger

	// SessionCookie defaults to DefaultSessionCookie.
	SessionCookie string
	SecureCookie  bool
}

type server struct {
	catalog  port.Catalog
	carts    *cart.Registry
	checkout *checkout.Service
	logger   *slog.Logger
	pages    *renderer

	sessionCookie string
	secureCookie  bool
}

func NewRouter(deps Deps) (http.Handler, error) {
	if deps.Catalog == nil {
		return nil, errors.New("catalog is nil")
	}
	if deps.Carts == nil {
		return nil, errors.New("cart registry is nil")
	}
	if deps.Checkout == nil {
		return nil, errors.New("checkout service is nil")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.SessionCookie == "" {
		deps.SessionCookie = DefaultSessionCookie
	}

	pages, err := newRenderer()
	if err != nil {
		return nil, fmt.Errorf("newRenderer: %w", err)
	}

	s := &server{
		catalog:       deps.Catalog,
		carts:         deps.Carts,
		checkout:      deps.Checkout,
		logger:        deps.Logger,
		pages:         pages,
		sessionCookie: deps.SessionCookie,
		secureCookie:  deps.SecureCookie,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.session)

		r.Get("/", s.home)
		r.Get("/products", s.products)
		r.Get("/products/{id}", s.product)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.cartPage)
			r.Post("/items", s.addItem)
			r.Post("/items/{id}/quantity", s.updateQuantity)
			r.Post("/items/{id}/remove", s.removeItem)
			r.Post("/clear", s.clearCart)
		})

		r.Get("/checkout", s.checkoutPage)
		r.Post("/checkout", s.placeOrder)

		r.Get("/api/cart", s.apiCart)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.pages.render(w, r, http.StatusNotFound, pageMessage, messageData{
			Heading: "Page not found",
			Message: "The page you are looking for does not exist.",
		})
	})

	return otelhttp.NewHandler(r, "storefront"), nil
}
