package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/pointward/backend/pkg/errorx"
	"github.com/pointward/backend/pkg/router"
	"github.com/pointward/backend/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		request := xcontext.HTTPRequest(ctx)
		info := fmt.Sprintf("%s | %s", request.Method, request.URL.Path)
		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				xcontext.Logger(ctx).Warnf("%s | %d", info, errx.Code)
			} else {
				xcontext.Logger(ctx).Errorf("%s | %d", info, -1)
			}
		} else {
			xcontext.Logger(ctx).Infof(info)
		}
	}
}
