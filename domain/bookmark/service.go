package bookmark

import (
	"context"

	"github.com/prasetyowira/starter/constant"
	"github.com/prasetyowira/starter/domain/apperror"
	"github.com/prasetyowira/starter/domain/crud"
	"github.com/prasetyowira/starter/infrastructure/logger"
)

// Service implements the bookmark use cases
type Service struct {
	crud *crud.Service[uint, Bookmark]
}

// NewService creates a bookmark service on top of the generic crud service
func NewService(store *crud.Service[uint, Bookmark]) *Service {
	return &Service{crud: store}
}

// Create stores a new bookmark. A URL can only be bookmarked once.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Bookmark, error) {
	logger.CtxDebug(ctx, constant.MsgCreatingBookmark, logger.LoggerInfo{
		ContextFunction: constant.CtxCreateBookmark,
		Data: map[string]interface{}{
			constant.DataURL: req.URL,
		},
	})

	b := Bookmark{Title: req.Title, URL: req.URL, Description: req.Description}
	err := s.crud.Tx().WithTransaction(ctx, func(ctx context.Context) error {
		if _, exists, err := s.crud.Find(ctx, &Bookmark{URL: req.URL}); err != nil {
			return err
		} else if exists {
			logger.CtxDebug(ctx, constant.MsgBookmarkExists, logger.LoggerInfo{
				ContextFunction: constant.CtxCreateBookmark,
				Data: map[string]interface{}{
					constant.DataURL: req.URL,
				},
			})
			return apperror.New(DuplicateURL, req.URL)
		}
		return s.crud.Save(ctx, &b)
	})
	if err != nil {
		return Bookmark{}, err
	}

	logger.CtxInfo(ctx, constant.MsgBookmarkCreated, logger.LoggerInfo{
		ContextFunction: constant.CtxCreateBookmark,
		Data: map[string]interface{}{
			constant.DataID:  b.ID,
			constant.DataURL: b.URL,
		},
	})
	return b, nil
}

// Get returns the bookmark identified by id
func (s *Service) Get(ctx context.Context, id uint) (Bookmark, error) {
	b, found, err := s.crud.FindByID(ctx, id)
	if err != nil {
		return Bookmark{}, err
	}
	if !found {
		logger.CtxDebug(ctx, constant.MsgBookmarkNotFound, logger.LoggerInfo{
			ContextFunction: constant.CtxGetBookmark,
			Data: map[string]interface{}{
				constant.DataID: id,
			},
		})
		return Bookmark{}, apperror.New(NotFound, id)
	}
	return b, nil
}

// List returns one page of bookmarks, optionally restricted to an exact title
func (s *Service) List(ctx context.Context, title string, page crud.PageRequest) (crud.Page[Bookmark], error) {
	filter := crud.Filter{}
	if title != "" {
		filter["title"] = title
	}
	listing, err := s.crud.FindListByPage(ctx, filter, page)
	if err != nil {
		return listing, err
	}

	logger.CtxDebug(ctx, constant.MsgListingBookmarks, logger.LoggerInfo{
		ContextFunction: constant.CtxListBookmarks,
		Data: map[string]interface{}{
			constant.DataTitle:    title,
			constant.DataPage:     page.Number,
			constant.DataPageSize: page.Size,
			constant.DataTotal:    listing.Total,
		},
	})
	return listing, nil
}

// Update applies the non-empty fields of req to the bookmark identified by id
func (s *Service) Update(ctx context.Context, id uint, req UpdateRequest) (Bookmark, error) {
	var updated Bookmark
	err := s.crud.Tx().WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.Get(ctx, id)
		if err != nil {
			return err
		}

		if req.URL != "" && req.URL != current.URL {
			if _, exists, err := s.crud.Find(ctx, &Bookmark{URL: req.URL}); err != nil {
				return err
			} else if exists {
				return apperror.New(DuplicateURL, req.URL)
			}
		}

		if _, err := s.crud.Modify(ctx, &Bookmark{
			ID:          id,
			Title:       req.Title,
			URL:         req.URL,
			Description: req.Description,
		}); err != nil {
			return err
		}

		updated, err = s.Get(ctx, id)
		return err
	})
	if err != nil {
		return Bookmark{}, err
	}

	logger.CtxInfo(ctx, constant.MsgBookmarkUpdated, logger.LoggerInfo{
		ContextFunction: constant.CtxUpdateBookmark,
		Data: map[string]interface{}{
			constant.DataID: id,
		},
	})
	return updated, nil
}

// Delete removes the bookmark identified by id
func (s *Service) Delete(ctx context.Context, id uint) error {
	n, err := s.crud.RemoveByID(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.New(NotFound, id)
	}

	logger.CtxInfo(ctx, constant.MsgBookmarkDeleted, logger.LoggerInfo{
		ContextFunction: constant.CtxDeleteBookmark,
		Data: map[string]interface{}{
			constant.DataID:           id,
			constant.DataRowsAffected: n,
		},
	})
	return nil
}
