package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/user/moovie-api/internal/config"
	"github.com/user/moovie-api/internal/handler"
	"github.com/user/moovie-api/internal/logger"
	"github.com/user/moovie-api/internal/middleware"
	"github.com/user/moovie-api/internal/repository"
	"github.com/user/moovie-api/internal/router"
	"github.com/user/moovie-api/internal/service"
	"github.com/user/moovie-api/internal/storage/minio"
	"github.com/user/moovie-api/internal/token"
	"github.com/user/moovie-api/internal/utils"
	"go.uber.org/zap"
)

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	zl, err := logger.New(logger.Options{Level: cfg.Log.Level, Dev: cfg.Log.Dev})
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	if cfg.IsProduction() && cfg.UsesDefaultSecrets() {
		zl.Warn("生产环境仍在使用默认 JWT 密钥，请设置 JWT_ACCESS_SECRET 与 JWT_REFRESH_SECRET")
	}

	// 初始化数据库
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("数据库连接失败", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		zl.Fatal("获取连接池失败", zap.Error(err))
	}
	defer sqlDB.Close()

	// 初始化仓库
	repos := repository.NewRepositories(db)

	// 初始化服务
	jwt := token.NewJWT(token.Options{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})
	userSvc := service.NewUserService(repos.User, repos.Role, zl)
	authSvc := service.NewAuthService(userSvc, jwt, zl)
	catalog := service.NewCatalogClient(utils.NewHTTPClient(cfg.Catalog.Timeout), service.CatalogOptions{
		ByTypeAPI: cfg.Catalog.ByTypeAPI,
		DetailAPI: cfg.Catalog.DetailAPI,
		SearchAPI: cfg.Catalog.SearchAPI,
	})
	movieSvc := service.NewMovieService(catalog, repos.Movie, userSvc, cfg.Catalog.ImgBaseAPI, zl)

	// 对象存储可选，未配置时头像上传返回 503
	var storage service.ObjectStorage
	if cfg.StorageEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := minio.Connect(ctx, minio.Options{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
			PublicURL: cfg.Storage.PublicURL,
		})
		cancel()
		if err != nil {
			zl.Fatal("对象存储连接失败", zap.Error(err))
		}
		storage = client
	} else {
		zl.Info("未配置 MINIO_ENDPOINT，头像上传已禁用")
	}
	avatarSvc := service.NewAvatarService(storage, userSvc, zl)

	// 初始化 Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Logger(zl))
	r.Use(middleware.Recovery(zl))

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 前端跨域携带 refresh cookie
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Origin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 初始化 Handler
	h := handler.NewHandler(handler.Services{
		Auth:    authSvc,
		Users:   userSvc,
		Movies:  movieSvc,
		Avatars: avatarSvc,
		DB:      sqlDB,
	}, handler.CookieOptions{
		Secure: cfg.Cookie.Secure,
		Domain: cfg.Cookie.Domain,
		MaxAge: cfg.JWT.RefreshTTL,
	})

	// 注册路由
	router.RegisterRoutes(r, h, router.Guards{
		Access:  middleware.RequireAccess(jwt),
		Refresh: middleware.RequireRefresh(authSvc),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		zl.Info("服务器启动", zap.String("addr", "http://localhost:"+cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("服务器强制关闭", zap.Error(err))
	}

	zl.Info("服务器已退出")
}
