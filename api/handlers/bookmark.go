package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/prasetyowira/starter/api/response"
	"github.com/prasetyowira/starter/constant"
	"github.com/prasetyowira/starter/domain/apperror"
	"github.com/prasetyowira/starter/domain/bookmark"
	"github.com/prasetyowira/starter/domain/crud"
	"github.com/prasetyowira/starter/domain/result"
	"github.com/prasetyowira/starter/infrastructure/async"
	"github.com/prasetyowira/starter/infrastructure/logger"
	"github.com/prasetyowira/starter/infrastructure/qrcode"
)

// BookmarkHandler handles bookmark HTTP requests
type BookmarkHandler struct {
	service  *bookmark.Service
	async    *async.Helper
	qr       *qrcode.Generator
	mapper   *response.Mapper
	validate *validator.Validate
}

// NewBookmarkHandler creates a new bookmark handler
func NewBookmarkHandler(service *bookmark.Service, helper *async.Helper, qr *qrcode.Generator, mapper *response.Mapper) *BookmarkHandler {
	return &BookmarkHandler{
		service:  service,
		async:    helper,
		qr:       qr,
		mapper:   mapper,
		validate: newValidator(),
	}
}

// Create handles POST /api/bookmarks
func (h *BookmarkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookmark.CreateRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		h.mapper.Write(w, r, err)
		return
	}

	b, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.mapper.Write(w, r, err)
		return
	}

	response.WriteEnvelope(w, result.SuccessWith(b), http.StatusCreated)
}

// List handles GET /api/bookmarks
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := intQuery(r, constant.QueryPage, 1)
	if err != nil {
		h.mapper.Write(w, r, err)
		return
	}
	size, err := intQuery(r, constant.QuerySize, crud.DefaultPageSize)
	if err != nil {
		h.mapper.Write(w, r, err)
		return
	}

	bookmarks, err := h.service.List(r.Context(), r.URL.Query().Get(constant.QueryTitle), crud.NewPageRequest(page, size))
	if err != nil {
		h.mapper.Write(w, r, err)
		return
	}

	response.OK(w, bookmarks)
}

// Get handles GET /api/bookmarks/{id}
func (h *BookmarkHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.mapper.Write(w, r, err)
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.mapper.Write(w, r, err)
		return
	}

	response.OK(w, b)
}

// Update handles PUT /api/bookmarks/{id}
func (h *BookmarkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.mapper.Write(w, r, err)
		return
	}

	var req bookmark.UpdateRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		h.mapper.Write(w, r, err)
		return
	}

	b, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.mapper.Write(w, r, err)
		return
	}

	response.OK(w, b)
}

// Delete handles DELETE /api/bookmarks/{id}
func (h *BookmarkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.mapper.Write(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.mapper.Write(w, r, err)
		return
	}

	response.WriteEnvelope(w, result.Success[any](), http.StatusOK)
}

// QRCode handles GET /api/bookmarks/{id}/qrcode. The image is rendered on the
// async pool; a failure comes back through the deferred envelope.
func (h *BookmarkHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := idParam(r)
	if err != nil {
		h.mapper.Write(w, r, err)
		return
	}
	size, err := intQuery(r, constant.QuerySize, qrcode.DefaultSize)
	if err != nil {
		h.mapper.Write(w, r, err)
		return
	}

	logger.CtxDebug(ctx, constant.MsgGeneratingQRCode, logger.LoggerInfo{
		ContextFunction: constant.CtxBookmarkQRCode,
		Data: map[string]interface{}{
			constant.DataID:   id,
			constant.DataSize: size,
		},
	})

	deferred := async.NewDeferred()
	png, err := async.Supply(ctx, h.async, func(ctx context.Context) ([]byte, error) {
		b, err := h.service.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return h.qr.Generate(b.URL, size)
	}, deferred).Get(ctx)

	if err != nil {
		var asyncErr *apperror.AsyncError
		if !errors.As(err, &asyncErr) || !asyncErr.Delivered {
			h.mapper.Write(w, r, err)
			return
		}
		statusCode := http.StatusServiceUnavailable
		if de, ok := apperror.AsDomainError(err); ok {
			statusCode = de.HTTPStatus()
		}
		response.WriteEnvelope(w, h.mapper.Sanitize(<-deferred.Result()), statusCode)
		return
	}

	w.Header().Set(constant.HeaderContentType, constant.MimePNG)
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
