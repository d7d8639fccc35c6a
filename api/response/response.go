// Package response writes result envelopes and translates errors into them at
// the request boundary.
package response

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prasetyowira/starter/constant"
	"github.com/prasetyowira/starter/domain/apperror"
	"github.com/prasetyowira/starter/domain/result"
	"github.com/prasetyowira/starter/domain/status"
	appLogger "github.com/prasetyowira/starter/infrastructure/logger"
	"github.com/prasetyowira/starter/infrastructure/reqctx"
)

// Mapper converts errors into an envelope and a transport status. Every
// translation writes exactly one log entry.
type Mapper struct {
	exposeDebug bool
}

// NewMapper creates a mapper. Internal failure detail reaches the client's
// debugMsg only when exposeDebug is set.
func NewMapper(exposeDebug bool) *Mapper {
	return &Mapper{exposeDebug: exposeDebug}
}

// Translate classifies err and returns the transport status and envelope for it
func (m *Mapper) Translate(ctx context.Context, err error) (int, result.Envelope[any]) {
	path := reqctx.Path(ctx)
	kind := apperror.Classify(err)

	switch kind {
	case apperror.KindBusiness:
		de, _ := apperror.AsDomainError(err)
		env := m.Sanitize(result.FailWithDetail[any](de.Status(), de.Message(), de.Unwrap()))
		m.log(ctx, appLogger.CtxWarn, constant.MsgBusinessFailure, constant.ErrCodeAPIBusiness, constant.ErrTypeBusiness, path, kind, env, err, nil)
		return de.HTTPStatus(), env

	case apperror.KindValidation:
		v, _ := apperror.AsValidationError(err)
		env := result.FailWithCause[any](status.ParamValidate, v)
		m.log(ctx, appLogger.CtxWarn, constant.MsgValidationFailure, constant.ErrCodeAPIValidation, constant.ErrTypeValidation, path, kind, env, err, v.Fields)
		return http.StatusBadRequest, env

	case apperror.KindNotFound:
		env := result.FailWithCause[any](status.ResourceNotFound, err)
		m.log(ctx, appLogger.CtxWarn, constant.MsgRouteNotFound, constant.ErrCodeAPIRouteNotFound, constant.ErrTypeRoute, path, kind, env, err, nil)
		return http.StatusNotFound, env

	case apperror.KindMethodNotAllowed:
		env := result.FailWithCause[any](status.MethodNotAllowed, err)
		m.log(ctx, appLogger.CtxWarn, constant.MsgMethodNotAllowed, constant.ErrCodeAPIMethodNotAllow, constant.ErrTypeRoute, path, kind, env, err, nil)
		return http.StatusMethodNotAllowed, env

	case apperror.KindMalformedBody:
		env := result.FailWithCause[any](status.ParamValidate, err)
		m.log(ctx, appLogger.CtxWarn, constant.MsgMalformedBody, constant.ErrCodeAPIMalformedBody, constant.ErrTypeValidation, path, kind, env, err, nil)
		return http.StatusBadRequest, env

	default:
		env := m.Sanitize(result.FailWithCause[any](status.InternalException, err))
		m.log(ctx, appLogger.CtxError, constant.MsgInternalFailure, constant.ErrCodeAPIInternal, constant.ErrTypeInternal, path, kind, env, err, nil)
		return http.StatusInternalServerError, env
	}
}

// Sanitize drops the diagnostic message of env unless debug output is exposed
func (m *Mapper) Sanitize(env result.Envelope[any]) result.Envelope[any] {
	if m.exposeDebug {
		return env
	}
	return env.WithoutDebug()
}

// Write translates err and writes the envelope. A nil err writes nothing.
func (m *Mapper) Write(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	statusCode, env := m.Translate(r.Context(), err)
	WriteEnvelope(w, env, statusCode)
}

func (m *Mapper) log(
	ctx context.Context,
	logFunc func(context.Context, string, appLogger.LoggerInfo),
	msg, code, errType, path string,
	kind apperror.Kind,
	env result.Envelope[any],
	cause error,
	fields []apperror.FieldError,
) {
	data := map[string]interface{}{
		constant.DataPath: path,
		constant.DataCode: env.Code(),
		constant.DataMsg:  env.Msg(),
		constant.DataKind: kind.String(),
	}
	if fields != nil {
		data[constant.DataFields] = fields
	}
	message := kind.String()
	if cause != nil {
		message = cause.Error()
	}

	logFunc(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxErrorMapper,
		Error: &appLogger.CustomError{
			Code:    code,
			Message: message,
			Type:    errType,
		},
		Data:  data,
		Cause: cause,
	})
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set(constant.HeaderContentType, constant.MimeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		appLogger.Error(constant.MsgEncodeResponseFailed, appLogger.LoggerInfo{
			ContextFunction: constant.CtxWriteResponse,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIEncodeResponse,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
		})
	}
}

// WriteEnvelope writes env as JSON with the given transport status
func WriteEnvelope[T any](w http.ResponseWriter, env result.Envelope[T], statusCode int) {
	WriteJSON(w, env, statusCode)
}

// OK writes a success envelope wrapping payload
func OK[T any](w http.ResponseWriter, payload T) {
	WriteEnvelope(w, result.SuccessWith(payload), http.StatusOK)
}
