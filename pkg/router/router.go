// Package router is a thin generic layer over net/http. Handlers take a
// typed request and return a typed response; middlewares and closers share
// per-request state through the context.
package router

import (
	"context"
	"net/http"

	"github.com/pointward/backend/config"
	"github.com/pointward/backend/internal/model"
	"github.com/pointward/backend/pkg/jwt"
	"github.com/pointward/backend/pkg/logger"
	"github.com/pointward/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler; returning an error stops the chain
// and writes the error response. CloserFunc always runs last, after the
// response is recorded.
type MiddlewareFunc func(ctx context.Context) error
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux
	ctx context.Context

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, l logger.Logger) *Router {
	ctx := context.Background()
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, l)
	ctx = xcontext.WithTokenEngine(ctx,
		jwt.NewEngine[model.AccessToken](cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration))

	return &Router{
		mux: http.NewServeMux(),
		ctx: ctx,
	}
}

// Branch forks the middleware chain. Routes registered on the branch inherit
// the parent's middlewares at branch time but share the same mux.
func (r *Router) Branch() *Router {
	return &Router{
		mux:     r.mux,
		ctx:     r.ctx,
		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]MiddlewareFunc{}, r.afters...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	registerHandler(r, http.MethodGet, pattern, handler)
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	registerHandler(r, http.MethodPost, pattern, handler)
}

func registerHandler[Request, Response any](
	r *Router, method, pattern string, handler HandlerFunc[Request, Response],
) {
	befores := append([]MiddlewareFunc{}, r.befores...)
	afters := append([]MiddlewareFunc{}, r.afters...)
	closers := append([]CloserFunc{}, r.closers...)

	r.mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := xcontext.WithHTTPRequest(r.ctx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)
		ctx = xcontext.WithRequestState(ctx)

		func() {
			for _, m := range befores {
				if err := m(ctx); err != nil {
					xcontext.SetError(ctx, err)
					return
				}
			}

			request := new(Request)
			if err := bindRequest(req, request); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
				xcontext.SetError(ctx, errBadBinding)
				return
			}

			resp, err := handler(ctx, request)
			if err != nil {
				xcontext.SetError(ctx, err)
				return
			}

			if resp != nil {
				xcontext.SetResponse(ctx, resp)
			}

			for _, m := range afters {
				if err := m(ctx); err != nil {
					xcontext.SetError(ctx, err)
					return
				}
			}
		}()

		handleResponse(ctx)

		for _, closer := range closers {
			closer(ctx)
		}
	})
}
