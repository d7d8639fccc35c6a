package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prasetyowira/starter/api/middleware"
	"github.com/prasetyowira/starter/api/response"
	"github.com/prasetyowira/starter/domain/bookmark"
	"github.com/prasetyowira/starter/domain/crud"
	"github.com/prasetyowira/starter/infrastructure/async"
	"github.com/prasetyowira/starter/constant"
	"github.com/prasetyowira/starter/infrastructure/db"
	"github.com/prasetyowira/starter/infrastructure/logger"
	"github.com/prasetyowira/starter/infrastructure/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newTestServer wires the handler on SQLite and a small pool behind a bare chi mux
func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	return newTestServerWithTimeout(t, 5*time.Second)
}

func newTestServerWithTimeout(t *testing.T, timeout time.Duration) http.Handler {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "handlers.db"), &bookmark.Bookmark{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })

	pool := async.NewPool(async.PoolConfig{CoreSize: 2, MaxSize: 4, QueueCapacity: 8})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = pool.Shutdown(ctx)
	})

	service := bookmark.NewService(crud.NewService[uint, bookmark.Bookmark](
		db.NewGormMapper[uint, bookmark.Bookmark](conn),
		db.NewTxManager(conn),
	))
	h := NewBookmarkHandler(service, async.NewHelper(pool, timeout), qrcode.NewGenerator(), response.NewMapper(false))

	r := chi.NewRouter()
	r.Use(middleware.RequestContext())
	r.Post("/api/bookmarks", h.Create)
	r.Get("/api/bookmarks", h.List)
	r.Get("/api/bookmarks/{id}", h.Get)
	r.Put("/api/bookmarks/{id}", h.Update)
	r.Delete("/api/bookmarks/{id}", h.Delete)
	r.Get("/api/bookmarks/{id}/qrcode", h.QRCode)
	return r
}

// observeWarnings captures log entries at warn level and above
func observeWarnings(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	t.Cleanup(logger.Replace(zap.New(core)))
	return logs
}

type envelope struct {
	Code     int     `json:"code"`
	Msg      *string `json:"msg"`
	DebugMsg *string `json:"debugMsg"`
	Data     *struct {
		PageInfo *struct {
			PageNumber int   `json:"pageNumber"`
			PageSize   int   `json:"pageSize"`
			PageCount  int64 `json:"pageCount"`
			Total      int64 `json:"total"`
		} `json:"pageInfo"`
		DataInfo json.RawMessage `json:"dataInfo"`
	} `json:"data"`
}

func do(t *testing.T, srv http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func createBookmark(t *testing.T, srv http.Handler, title, url string) bookmark.Bookmark {
	t.Helper()
	w, env := do(t, srv, http.MethodPost, "/api/bookmarks", `{"title":"`+title+`","url":"`+url+`"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 0, env.Code)
	var b bookmark.Bookmark
	require.NoError(t, json.Unmarshal(env.Data.DataInfo, &b))
	return b
}

func TestBookmarkHandler_CreateAndGet(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	created := createBookmark(t, srv, "Go", "https://go.dev")

	// Act
	w, env := do(t, srv, http.MethodGet, "/api/bookmarks/"+itoa(created.ID), "")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
	var got bookmark.Bookmark
	require.NoError(t, json.Unmarshal(env.Data.DataInfo, &got))
	assert.Equal(t, "https://go.dev", got.URL)
	assert.Nil(t, env.Data.PageInfo)
}

func TestBookmarkHandler_GetMissingIsBusinessFailure(t *testing.T) {
	srv := newTestServer(t)
	logs := observeWarnings(t)

	w, env := do(t, srv, http.MethodGet, "/api/bookmarks/404", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 201001, env.Code)
	require.NotNil(t, env.Msg)
	assert.Equal(t, "bookmark 404 does not exist", *env.Msg)
	assert.Nil(t, env.Data)
	require.Equal(t, 1, logs.Len(), "a failed request is logged once")
	assert.Equal(t, constant.MsgBusinessFailure, logs.All()[0].Message)
}

func TestBookmarkHandler_CreateValidation(t *testing.T) {
	srv := newTestServer(t)

	w, env := do(t, srv, http.MethodPost, "/api/bookmarks", `{"title":"","url":"not a url"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 100013, env.Code)
	require.NotNil(t, env.DebugMsg)
	assert.Contains(t, *env.DebugMsg, "title: is required")
	assert.Contains(t, *env.DebugMsg, "url: must be a valid URL")
}

func TestBookmarkHandler_CreateMalformedBody(t *testing.T) {
	srv := newTestServer(t)

	w, env := do(t, srv, http.MethodPost, "/api/bookmarks", `{"title":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 100013, env.Code)
}

func TestBookmarkHandler_CreateDuplicate(t *testing.T) {
	srv := newTestServer(t)
	createBookmark(t, srv, "Go", "https://go.dev")
	logs := observeWarnings(t)

	w, env := do(t, srv, http.MethodPost, "/api/bookmarks", `{"title":"again","url":"https://go.dev"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 201002, env.Code)
	assert.Equal(t, 1, logs.Len())
}

func TestBookmarkHandler_List(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	for _, u := range []string{"https://a.example", "https://b.example", "https://c.example"} {
		createBookmark(t, srv, "docs", u)
	}

	// Act
	w, env := do(t, srv, http.MethodGet, "/api/bookmarks?page=2&size=2&title=docs", "")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Data.PageInfo)
	assert.Equal(t, 2, env.Data.PageInfo.PageNumber)
	assert.Equal(t, 2, env.Data.PageInfo.PageSize)
	assert.Equal(t, int64(2), env.Data.PageInfo.PageCount)
	assert.Equal(t, int64(3), env.Data.PageInfo.Total)
	var items []bookmark.Bookmark
	require.NoError(t, json.Unmarshal(env.Data.DataInfo, &items))
	assert.Len(t, items, 1)
}

func TestBookmarkHandler_ListBadQuery(t *testing.T) {
	srv := newTestServer(t)

	w, env := do(t, srv, http.MethodGet, "/api/bookmarks?page=two", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 100013, env.Code)
}

func TestBookmarkHandler_UpdateAndDelete(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	created := createBookmark(t, srv, "old", "https://old.example")
	path := "/api/bookmarks/" + itoa(created.ID)

	// Act
	updateW, updateEnv := do(t, srv, http.MethodPut, path, `{"title":"new"}`)
	deleteW, deleteEnv := do(t, srv, http.MethodDelete, path, "")
	_, afterEnv := do(t, srv, http.MethodGet, path, "")

	// Assert
	assert.Equal(t, http.StatusOK, updateW.Code)
	var updated bookmark.Bookmark
	require.NoError(t, json.Unmarshal(updateEnv.Data.DataInfo, &updated))
	assert.Equal(t, "new", updated.Title)

	assert.Equal(t, http.StatusOK, deleteW.Code)
	assert.Equal(t, 0, deleteEnv.Code)
	assert.Nil(t, deleteEnv.Data)
	assert.Equal(t, 201001, afterEnv.Code)
}

func TestBookmarkHandler_InvalidID(t *testing.T) {
	srv := newTestServer(t)

	w, env := do(t, srv, http.MethodGet, "/api/bookmarks/abc", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 100013, env.Code)
}

func TestBookmarkHandler_QRCode(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	created := createBookmark(t, srv, "Go", "https://go.dev")

	// Act
	w, _ := do(t, srv, http.MethodGet, "/api/bookmarks/"+itoa(created.ID)+"/qrcode?size=128", "")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}

func TestBookmarkHandler_QRCodeMissingUsesDeferred(t *testing.T) {
	srv := newTestServer(t)
	logs := observeWarnings(t)

	w, env := do(t, srv, http.MethodGet, "/api/bookmarks/77/qrcode", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 201001, env.Code)
	require.NotNil(t, env.Msg)
	assert.Equal(t, "bookmark 77 does not exist", *env.Msg)
	// answered from the deferred envelope, not through the error mapper
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, constant.MsgAsyncBusinessFailure, logs.All()[0].Message)
}

func TestBookmarkHandler_QRCodeTimeoutUsesDeferred(t *testing.T) {
	// Arrange
	srv := newTestServerWithTimeout(t, time.Nanosecond)
	logs := observeWarnings(t)

	// Act
	w, env := do(t, srv, http.MethodGet, "/api/bookmarks/1/qrcode", "")

	// Assert
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 100014, env.Code)
	assert.Nil(t, env.DebugMsg)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, constant.MsgAsyncFailure, logs.All()[0].Message)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
