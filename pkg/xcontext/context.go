package xcontext

import (
	"context"
	"net/http"

	"github.com/pointward/backend/config"
	"github.com/pointward/backend/internal/model"
	"github.com/pointward/backend/pkg/jwt"
	"github.com/pointward/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	txKey            struct{}
	httpClientKey    struct{}
	httpRequestKey   struct{}
	httpWriterKey    struct{}
	tokenEngineKey   struct{}
	requestUserIDKey struct{}
	stateKey         struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	return ctx.Value(configsKey{}).(config.Configs)
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	return ctx.Value(loggerKey{}).(logger.Logger)
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the database handle of this context. If a transaction was opened
// by WithDBTransaction and is still live, the transaction is returned instead
// so every repository call inside the block joins it.
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !t.done {
		return t.tx
	}

	return ctx.Value(dbKey{}).(*gorm.DB)
}

type dbTransaction struct {
	tx   *gorm.DB
	done bool
}

// WithDBTransaction begins a database transaction on the returned context.
// The caller must finish it with WithCommitDBTransaction, usually paired with
// a deferred WithRollbackDBTransaction; the rollback becomes a no-op after
// the commit.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

func WithCommitDBTransaction(ctx context.Context) {
	if t, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !t.done {
		t.tx.Commit()
		t.done = true
	}
}

func WithRollbackDBTransaction(ctx context.Context) {
	if t, ok := ctx.Value(txKey{}).(*dbTransaction); ok && !t.done {
		t.tx.Rollback()
		t.done = true
	}
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientKey{}, client)
}

func HTTPClient(ctx context.Context) *http.Client {
	if client, ok := ctx.Value(httpClientKey{}).(*http.Client); ok {
		return client
	}

	return http.DefaultClient
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	return ctx.Value(httpRequestKey{}).(*http.Request)
}

func WithHTTPWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, httpWriterKey{}, w)
}

func HTTPWriter(ctx context.Context) http.ResponseWriter {
	return ctx.Value(httpWriterKey{}).(http.ResponseWriter)
}

func WithTokenEngine(ctx context.Context, engine *jwt.Engine[model.AccessToken]) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) *jwt.Engine[model.AccessToken] {
	return ctx.Value(tokenEngineKey{}).(*jwt.Engine[model.AccessToken])
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	if id, ok := ctx.Value(requestUserIDKey{}).(string); ok {
		return id
	}

	if s, ok := ctx.Value(stateKey{}).(*requestState); ok {
		return s.userID
	}

	return ""
}
