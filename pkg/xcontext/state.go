package xcontext

import "context"

// requestState is the mutable per-request scratch space shared between the
// router and its middlewares. Middlewares receive a context value, so the
// state itself must be a pointer they can write through.
type requestState struct {
	userID   string
	response any
	err      error
}

func WithRequestState(ctx context.Context) context.Context {
	return context.WithValue(ctx, stateKey{}, &requestState{})
}

func SetRequestUserID(ctx context.Context, id string) {
	if s, ok := ctx.Value(stateKey{}).(*requestState); ok {
		s.userID = id
	}
}

func SetResponse(ctx context.Context, resp any) {
	if s, ok := ctx.Value(stateKey{}).(*requestState); ok {
		s.response = resp
	}
}

func Response(ctx context.Context) any {
	if s, ok := ctx.Value(stateKey{}).(*requestState); ok {
		return s.response
	}

	return nil
}

func SetError(ctx context.Context, err error) {
	if s, ok := ctx.Value(stateKey{}).(*requestState); ok {
		s.err = err
	}
}

func Error(ctx context.Context) error {
	if s, ok := ctx.Value(stateKey{}).(*requestState); ok {
		return s.err
	}

	return nil
}
