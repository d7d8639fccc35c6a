package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/prasetyowira/starter/domain/apperror"
	"github.com/prasetyowira/starter/domain/result"
	"github.com/prasetyowira/starter/domain/status"
	appLogger "github.com/prasetyowira/starter/infrastructure/logger"
	"github.com/prasetyowira/starter/infrastructure/reqctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var orderMissing = status.Define(992, 1, "order {0} does not exist")

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(appLogger.Replace(zap.New(core)))
	return logs
}

func requestContext(path string) context.Context {
	return reqctx.With(context.Background(), reqctx.Info{Method: http.MethodGet, Path: path})
}

type signup struct {
	Email string `validate:"required"`
	Site  string `validate:"url"`
}

func TestMapper_Translate(t *testing.T) {
	fieldErrs := validator.New().Struct(signup{Site: "not a url"})
	require.Error(t, fieldErrs)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
		wantLevel  zapcore.Level
	}{
		{"business", apperror.New(orderMissing, 7), http.StatusOK, 992001, zapcore.WarnLevel},
		{"business declaring not found", apperror.New(status.ResourceNotFound).WithHTTPStatus(http.StatusNotFound), http.StatusNotFound, 100003, zapcore.WarnLevel},
		{"validation", apperror.NewValidationError(map[string]string{"title": "is required"}), http.StatusBadRequest, 100013, zapcore.WarnLevel},
		{"validator errors", fieldErrs, http.StatusBadRequest, 100013, zapcore.WarnLevel},
		{"route not found", &apperror.RouteError{Method: "GET", Path: "/nope"}, http.StatusNotFound, 100003, zapcore.WarnLevel},
		{"method not allowed", &apperror.RouteError{Method: "PATCH", Path: "/x", MethodNotAllowed: true}, http.StatusMethodNotAllowed, 100004, zapcore.WarnLevel},
		{"malformed body", &apperror.MalformedBodyError{Cause: errors.New("unexpected EOF")}, http.StatusBadRequest, 100013, zapcore.WarnLevel},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, 100005, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			logs := observeLogs(t)
			m := NewMapper(true)

			// Act
			statusCode, env := m.Translate(requestContext("/api/orders/7"), tt.err)

			// Assert
			assert.Equal(t, tt.wantStatus, statusCode)
			assert.Equal(t, tt.wantCode, env.Code())
			require.Equal(t, 1, logs.Len(), "every branch logs exactly once")
			entry := logs.All()[0]
			assert.Equal(t, tt.wantLevel, entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, "/api/orders/7", fields["path"])
			assert.EqualValues(t, tt.wantCode, fields["code"])
			assert.Equal(t, env.Msg(), fields["msg"])
			assert.NotEmpty(t, fields["error"])
		})
	}
}

func TestMapper_BusinessErrorIsTransportOK(t *testing.T) {
	observeLogs(t)

	statusCode, env := NewMapper(false).Translate(context.Background(), apperror.New(status.ResourceNotFound))

	assert.Equal(t, http.StatusOK, statusCode)
	assert.Equal(t, 100003, env.Code())
	assert.Equal(t, status.ResourceNotFound.Msg(), env.Msg())
}

func TestMapper_BusinessMessageIsDescribed(t *testing.T) {
	observeLogs(t)

	_, env := NewMapper(false).Translate(context.Background(), apperror.New(orderMissing, 7))

	assert.Equal(t, "order 7 does not exist", env.Msg())
	_, hasDebug := env.DebugMsg()
	assert.False(t, hasDebug)
}

func TestMapper_ValidationListsFields(t *testing.T) {
	observeLogs(t)
	err := apperror.NewValidationError(map[string]string{"url": "must be a valid URL", "title": ""})

	_, env := NewMapper(false).Translate(context.Background(), err)

	debug, ok := env.DebugMsg()
	require.True(t, ok)
	assert.Equal(t, "ValidationError: title: ; url: must be a valid URL", debug)
	assert.Equal(t, status.ParamValidate.Msg(), env.Msg())
}

func TestMapper_InternalDetailNeverInMessage(t *testing.T) {
	observeLogs(t)
	cause := errors.New("password=hunter2 rejected")

	_, hidden := NewMapper(false).Translate(context.Background(), cause)
	_, exposed := NewMapper(true).Translate(context.Background(), cause)

	assert.Equal(t, status.InternalException.Msg(), hidden.Msg())
	_, hasDebug := hidden.DebugMsg()
	assert.False(t, hasDebug)

	assert.NotContains(t, exposed.Msg(), "hunter2")
	debug, ok := exposed.DebugMsg()
	require.True(t, ok)
	assert.Contains(t, debug, "hunter2")
}

func TestMapper_Write(t *testing.T) {
	// Arrange
	observeLogs(t)
	req := httptest.NewRequest(http.MethodGet, "/api/orders/3", nil)
	w := httptest.NewRecorder()

	// Act
	NewMapper(false).Write(w, req, apperror.New(orderMissing, 3))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 992001, body["code"])
	assert.Equal(t, "order 3 does not exist", body["msg"])
	assert.Nil(t, body["data"])
	assert.NotContains(t, body, "debugMsg")
}

func TestMapper_WriteNilIsNoop(t *testing.T) {
	// Arrange
	logs := observeLogs(t)
	req := httptest.NewRequest(http.MethodGet, "/api/orders/3", nil)
	w := httptest.NewRecorder()

	// Act
	NewMapper(true).Write(w, req, nil)

	// Assert
	assert.False(t, w.Flushed)
	assert.Empty(t, w.Body.Bytes())
	assert.Empty(t, w.Header().Get("Content-Type"))
	assert.Zero(t, logs.Len())
}

func TestMapper_TranslateNilIsInternal(t *testing.T) {
	logs := observeLogs(t)

	var statusCode int
	var env result.Envelope[any]
	require.NotPanics(t, func() {
		statusCode, env = NewMapper(true).Translate(context.Background(), nil)
	})

	assert.Equal(t, http.StatusInternalServerError, statusCode)
	assert.Equal(t, status.InternalException.Code(), env.Code())
	_, hasDebug := env.DebugMsg()
	assert.False(t, hasDebug)
	require.Equal(t, 1, logs.Len())
}

type listing struct {
	items []string
}

func (l listing) PageNumber() int   { return 2 }
func (l listing) PageSize() int     { return 10 }
func (l listing) TotalCount() int64 { return 95 }

func (l listing) MarshalJSON() ([]byte, error) { return json.Marshal(l.items) }

func TestOK_WritesPageInfo(t *testing.T) {
	w := httptest.NewRecorder()

	OK(w, listing{items: []string{"a", "b"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"code": 0,
		"msg": "request succeeded",
		"data": {
			"pageInfo": {"pageNumber": 2, "pageSize": 10, "pageCount": 10, "total": 95},
			"dataInfo": ["a", "b"]
		}
	}`, w.Body.String())
}

func TestWriteEnvelope_Success(t *testing.T) {
	w := httptest.NewRecorder()

	WriteEnvelope(w, result.Success[any](), http.StatusOK)

	assert.JSONEq(t, `{"code": 0, "msg": "request succeeded", "data": null}`, w.Body.String())
}
