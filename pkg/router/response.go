package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pointward/backend/pkg/errorx"
	"github.com/pointward/backend/pkg/xcontext"
)

var errBadBinding = errorx.New(errorx.BadRequest, "Cannot bind the request")

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{
		Code: 0,
		Data: data,
	}
}

func newErrorResponse(err error) response {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return response{
			Code:  int64(errx.Code),
			Error: errx.Message,
		}
	}

	return response{
		Code:  int64(errorx.Unknown.Code),
		Error: errorx.Unknown.Message,
	}
}

// Renderer lets a response type bypass the JSON envelope and write its own
// body, e.g. the plain "1"/"0" bodies offerwall providers expect.
type Renderer interface {
	Render(w http.ResponseWriter) error
}

func handleResponse(ctx context.Context) {
	w := xcontext.HTTPWriter(ctx)

	err := func() error {
		if err := xcontext.Error(ctx); err != nil {
			return err
		}

		resp := xcontext.Response(ctx)
		if resp == nil {
			return nil
		}

		if renderer, ok := resp.(Renderer); ok {
			if err := renderer.Render(w); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot render the response: %v", err)
				return errorx.New(errorx.BadResponse, "Cannot render the response")
			}

			return nil
		}

		if err := WriteJson(w, newResponse(resp)); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
			return errorx.New(errorx.BadResponse, "Cannot write the response")
		}

		return nil
	}()

	if err != nil {
		if err := WriteJson(w, newErrorResponse(err)); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the error response: %v", err)
		}
	}
}

func WriteJson(w http.ResponseWriter, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}
