package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-app/src/config"
	"todo-app/src/database"
	"todo-app/src/infrastructure/repository"
	"todo-app/src/interface/handler"
	"todo-app/src/logger"
	"todo-app/src/middleware"
	"todo-app/src/routes"
	"todo-app/src/storage"
	"todo-app/src/usecase"
	"todo-app/src/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	// 設定を読み込み
	cfg := config.LoadConfig()

	// ロガーを初期化
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.Directory); err != nil {
		panic(fmt.Sprintf("ロガーの初期化に失敗: %v", err))
	}
	defer logger.CloseLogger()

	logger.Log.Info("アプリケーションを開始しています")

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// S3アップローダーを初期化（設定が有効な場合）
	var uploader *storage.LogUploader
	if cfg.Log.UploadEnabled {
		var err error
		uploader, err = storage.NewLogUploader(&cfg.S3, logger.Log)
		if err != nil {
			logger.Log.WithError(err).Error("S3アップローダーの初期化に失敗")
		} else {
			uploader.StartPeriodicUpload(cfg.Log.Directory, cfg.Log.UploadInterval, cfg.Log.UploadMaxAge)
		}
	}

	// ドキュメントストアに接続
	db, err := database.NewDB(&cfg.Mongo, logger.Log)
	if err != nil {
		logger.Log.WithError(err).Fatal("データベース接続に失敗")
	}

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	if err := db.EnsureTodoIndexes(indexCtx, cfg.Mongo.Collection); err != nil {
		logger.Log.WithError(err).Warn("インデックスの作成に失敗")
	}
	cancelIndex()

	// 依存関係を組み立て（DI）
	todoRepo := repository.NewTodoRepository(db.Collection(cfg.Mongo.Collection), logger.Log)
	todoUsecase := usecase.NewTodoUsecase(todoRepo)
	cv := validator.NewCustomValidator()
	todoHandler := handler.NewTodoHandler(todoUsecase, cv, logger.Log, cfg.Server.IsProduction())

	// Ginルーターを初期化
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigin))
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RequestsPerMinute))

	// NoRouteハンドラー（404）
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"data":    nil,
			"message": "Route not found",
		})
	})

	// NoMethodハンドラー（405）
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"success": false,
			"data":    nil,
			"message": "Method not allowed",
		})
	})

	// サービスバナー
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Todo API",
			"service": "todo-app",
		})
	})

	// ヘルスチェック用のエンドポイント
	r.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "down",
				"timestamp": time.Now().Format(time.RFC3339),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	routes.SetupRoutes(r, todoHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// サーバーを起動
	go func() {
		logger.Log.WithField("port", cfg.Server.Port).Info("サーバーを開始します")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("サーバーの起動に失敗")
		}
	}()

	// グレースフルシャットダウン
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Log.Info("シャットダウンシグナルを受信しました")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("サーバーのシャットダウンに失敗")
	}

	if err := db.Close(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("データベース切断に失敗")
	}

	// 最後のログアップロードを実行
	if uploader != nil {
		uploader.Stop()
		logger.Log.Info("最後のログアップロードを実行中...")
		if err := uploader.UploadOldLogs(cfg.Log.Directory, 0); err != nil {
			logger.Log.WithError(err).Error("最後のログアップロードに失敗")
		}
	}

	logger.Log.Info("アプリケーションを終了します")
}
