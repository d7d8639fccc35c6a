package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prasetyowira/starter/api"
	"github.com/prasetyowira/starter/api/handlers"
	"github.com/prasetyowira/starter/api/response"
	"github.com/prasetyowira/starter/config"
	"github.com/prasetyowira/starter/constant"
	"github.com/prasetyowira/starter/domain/bookmark"
	"github.com/prasetyowira/starter/domain/crud"
	"github.com/prasetyowira/starter/infrastructure/async"
	"github.com/prasetyowira/starter/infrastructure/cache"
	"github.com/prasetyowira/starter/infrastructure/db"
	appLogger "github.com/prasetyowira/starter/infrastructure/logger"
	"github.com/prasetyowira/starter/infrastructure/qrcode"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

func main() {
	// Load configuration from environment variables
	cfg, loadErr := config.LoadConfig()

	// Initialize logger based on environment
	appLogger.Initialize(cfg.IsProduction())
	defer appLogger.Close()

	if err := multierr.Append(loadErr, cfg.Validate()); err != nil {
		appLogger.Fatal(constant.MsgFailedToLoadConfig, appLogger.LoggerInfo{
			ContextFunction: constant.CtxConfigValidator,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppConfig,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
		})
	}

	appLogger.Info(constant.MsgApplicationStarting, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
		Data: map[string]interface{}{
			constant.DataPort:        cfg.Port,
			constant.DataDBPath:      cfg.DatabaseURL,
			constant.DataEnvironment: cfg.LogLevel,
			constant.DataPoolCore:    cfg.Pool.CoreSize,
			constant.DataPoolMax:     cfg.Pool.MaxSize,
			constant.DataTimeout:     cfg.AsyncTimeout.String(),
		},
	})

	database, err := db.Open(cfg.DatabaseURL, &bookmark.Bookmark{})
	if err != nil {
		appLogger.Fatal(constant.MsgFailedToInitDB, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppDBInit,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
			Data: map[string]interface{}{
				constant.DataDBPath: cfg.DatabaseURL,
			},
		})
	}

	bookmarks := crud.NewService[uint, bookmark.Bookmark](
		db.NewGormMapper[uint, bookmark.Bookmark](database),
		db.NewTxManager(database),
	).WithCache(cache.NewNamespaceLRU[bookmark.Bookmark](cfg.CacheSize), constant.BookmarkNamespace)

	pool := async.NewPool(cfg.Pool)
	mapper := response.NewMapper(cfg.ExposeDebugMsg)
	handler := handlers.NewBookmarkHandler(
		bookmark.NewService(bookmarks),
		async.NewHelper(pool, cfg.AsyncTimeout),
		qrcode.NewGenerator(),
		mapper,
	)
	router := api.NewRouter(handler, mapper, cfg.AuthUser, cfg.AuthPass)
	router.SetupRoutes()

	// Configure HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info(constant.MsgServerStarting, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Data: map[string]interface{}{
				constant.DataPort: cfg.Port,
			},
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(constant.MsgServerFailedToStart, appLogger.LoggerInfo{
				ContextFunction: constant.CtxMain,
				Error: &appLogger.CustomError{
					Code:    constant.ErrCodeAppServerStart,
					Message: err.Error(),
					Type:    constant.ErrTypeApp,
				},
				Data: map[string]interface{}{
					constant.DataPort: cfg.Port,
				},
			})
		}
	}()

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	appLogger.Info(constant.MsgServerShuttingDown, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
	})

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error(constant.MsgServerShutdownError, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppServerShutdown,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
		})
	}

	// In-flight async work may still write to the database
	if err := pool.Shutdown(ctx); err != nil {
		appLogger.Error(constant.MsgPoolShutdownError, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppPoolShutdown,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
		})
	}

	closeDatabase(database)

	appLogger.Info(constant.MsgServerStopped, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
	})
}

func closeDatabase(database *gorm.DB) {
	if err := db.Close(database); err != nil {
		appLogger.Error(constant.MsgDBCloseFailed, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBClose,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Cause: err,
		})
	}
}
