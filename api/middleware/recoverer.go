package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/prasetyowira/starter/constant"
	"github.com/prasetyowira/starter/domain/result"
	"github.com/prasetyowira/starter/domain/status"
	appLogger "github.com/prasetyowira/starter/infrastructure/logger"
	"github.com/prasetyowira/starter/infrastructure/reqctx"
)

// EnvelopeWriter writes an envelope with a transport status.
type EnvelopeWriter func(w http.ResponseWriter, env result.Envelope[any], statusCode int)

// Recoverer turns a panicking handler into a 500 internal-error envelope and
// logs the panic with its stack once.
func Recoverer(write EnvelopeWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				ctx := r.Context()
				appLogger.CtxError(ctx, constant.MsgPanicRecovered, appLogger.LoggerInfo{
					ContextFunction: constant.CtxRecoverer,
					Error: &appLogger.CustomError{
						Code:    constant.ErrCodeAPIPanic,
						Message: fmt.Sprint(rec),
						Type:    constant.ErrTypeInternal,
					},
					Data: map[string]interface{}{
						constant.DataPath:  reqctx.Path(ctx),
						constant.DataCode:  status.InternalException.Code(),
						constant.DataMsg:   status.InternalException.Msg(),
						constant.DataStack: string(debug.Stack()),
					},
				})

				write(w, result.FailWith[any](status.InternalException), http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
