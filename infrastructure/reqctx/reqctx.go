// Package reqctx carries the identity of the in-flight request in a
// context.Context.
//
// Background work never looks the request up implicitly: the submitter
// captures it with Detach and passes the resulting context into the work.
package reqctx

import (
	"context"
	"net/http"

	"github.com/prasetyowira/starter/infrastructure/logger"
)

type infoKey struct{}

// Info is a snapshot of the request attributes exposed to downstream code.
type Info struct {
	Method string
	Path   string
	Header http.Header
}

// FromRequest snapshots r. The header map is cloned so it stays valid after
// the request completes.
func FromRequest(r *http.Request) Info {
	return Info{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
	}
}

// With stores info in ctx.
func With(ctx context.Context, info Info) context.Context {
	return context.WithValue(ctx, infoKey{}, info)
}

// From returns the request info stored in ctx.
func From(ctx context.Context) (Info, bool) {
	if ctx == nil {
		return Info{}, false
	}
	info, ok := ctx.Value(infoKey{}).(Info)
	return info, ok
}

// Path returns the current request path, or "" when no request is active.
func Path(ctx context.Context) string {
	info, _ := From(ctx)
	return info.Path
}

// Header returns the named request header, or "" when no request is active.
func Header(ctx context.Context, name string) string {
	info, ok := From(ctx)
	if !ok || info.Header == nil {
		return ""
	}
	return info.Header.Get(name)
}

// Detach returns a fresh context carrying only the request info and request
// id of ctx. It is not cancelled when the request finishes.
func Detach(ctx context.Context) context.Context {
	out := context.Background()
	if info, ok := From(ctx); ok {
		out = With(out, info)
	}
	if id := logger.RequestID(ctx); id != "" {
		out = logger.WithRequestID(out, id)
	}
	return out
}
