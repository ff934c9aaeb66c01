package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Guyuepp/go-clean-social/internal/repository"
	mysqlRepo "github.com/Guyuepp/go-clean-social/internal/repository/mysql"
	"github.com/Guyuepp/go-clean-social/internal/repository/mysql/model"
	myRedis "github.com/Guyuepp/go-clean-social/internal/repository/redis"
	"github.com/Guyuepp/go-clean-social/internal/rest"
	"github.com/Guyuepp/go-clean-social/internal/rest/middleware"
	"github.com/Guyuepp/go-clean-social/internal/usecase/bookmark"
	"github.com/Guyuepp/go-clean-social/internal/usecase/comment"
	"github.com/Guyuepp/go-clean-social/internal/usecase/engagement"
	"github.com/Guyuepp/go-clean-social/internal/usecase/follow"
	"github.com/Guyuepp/go-clean-social/internal/usecase/like"
	"github.com/Guyuepp/go-clean-social/internal/usecase/post"
	"github.com/Guyuepp/go-clean-social/internal/workers"
)

const (
	defaultTimeout           = 30
	defaultAddress           = ":9090"
	defaultCacheDB           = 0
	defaultBloomBitSize      = 10000000
	defaultBloomRebuildEvery = 3600
	dbMaxRetry               = 10
	dbRetryIntervalSec       = 2
)

func init() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file found, reading configuration from the environment")
	}

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{})
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		logrus.Infof("failed to parse %s, using default %d", key, def)
		return def
	}
	return v
}

// dialector picks the GORM driver from DATABASE_DRIVER (mysql by default).
func dialector() gorm.Dialector {
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")

	if os.Getenv("DATABASE_DRIVER") == "postgres" {
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			dbHost, dbPort, dbUser, dbPass, dbName)
		return postgres.Open(dsn)
	}

	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "UTC")
	val.Add("charset", "utf8mb4")
	return mysql.Open(fmt.Sprintf("%s?%s", connection, val.Encode()))
}

func openDB() (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	for i := range dbMaxRetry {
		db, err = gorm.Open(dialector(), &gorm.Config{TranslateError: true})
		if err != nil {
			logrus.Warnf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, dbErr := db.DB()
			if dbErr != nil {
				err = dbErr
				logrus.Warnf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			} else if err = sqlDB.Ping(); err == nil {
				return db, nil
			} else {
				logrus.Warnf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				_ = sqlDB.Close()
			}
		}
		time.Sleep(dbRetryIntervalSec * time.Second)
	}
	return nil, err
}

// requireEnv returns the value of key, failing when it is unset or blank.
func requireEnv(key string) (string, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return v, nil
}

func main() {
	jwtSecret, err := requireEnv("JWT_SECRET")
	if err != nil {
		logrus.Fatal("refusing to start: ", err)
	}

	// prepare database
	db, err := openDB()
	if err != nil {
		logrus.Fatal("could not connect to database after retries: ", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			logrus.Error("got error when getting sql.DB from gorm.DB: ", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			logrus.Error("got error when closing the DB connection: ", err)
		}
	}()

	if os.Getenv("AUTO_MIGRATE") == "true" {
		if err := db.AutoMigrate(model.All()...); err != nil {
			logrus.Fatal("failed to migrate schema: ", err)
		}
	}

	// prepare cache
	client := redis.NewClient(&redis.Options{
		Addr:     os.Getenv("CACHE_HOST") + ":" + os.Getenv("CACHE_PORT"),
		Password: os.Getenv("CACHE_PASS"),
		DB:       envInt("CACHE_DB", defaultCacheDB),
	})
	defer func() {
		if err := client.Close(); err != nil {
			logrus.Error("got error when closing the cache connection: ", err)
		}
	}()

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		logrus.Fatal("failed to open connection to cache: ", err)
	}

	if err := middleware.RegisterValidators(); err != nil {
		logrus.Fatal("failed to register validators: ", err)
	}

	// prepare gin
	route := gin.New()
	route.Use(gin.Recovery())
	route.Use(middleware.RequestID())
	route.Use(middleware.Metrics())
	route.Use(middleware.CORS())
	timeoutContext := time.Duration(envInt("CONTEXT_TIMEOUT", defaultTimeout)) * time.Second
	route.Use(middleware.SetRequestContextWithTimeout(timeoutContext))

	// Prepare Repository
	userRepo := mysqlRepo.NewUserRepository(db)
	commentRepo := mysqlRepo.NewCommentRepository(db)
	likeRepo := mysqlRepo.NewLikeRepository(db)
	bookmarkRepo := mysqlRepo.NewBookmarkRepository(db)
	followRepo := mysqlRepo.NewFollowRepository(db)

	bloomBitSize, err := strconv.ParseUint(os.Getenv("BLOOM_FILTER_SIZE"), 10, 64)
	if err != nil {
		logrus.Info("failed to parse bloom bit size, using default size")
		bloomBitSize = defaultBloomBitSize
	}
	bloomRepo := myRedis.NewRedisBloomRepo(client, bloomBitSize)

	// post reads go through the bloom filter and singleflight
	postRepo := repository.NewPostRepository(mysqlRepo.NewPostDBRepository(db), bloomRepo)

	// Build service Layer
	engagementSvc := engagement.NewService(likeRepo, bookmarkRepo)
	postSvc := post.NewService(postRepo, commentRepo, likeRepo, bookmarkRepo, userRepo, engagementSvc, bloomRepo)
	commentSvc := comment.NewService(commentRepo, postRepo, userRepo, likeRepo, engagementSvc, bloomRepo)
	likeSvc := like.NewService(likeRepo, postRepo, commentRepo)
	bookmarkSvc := bookmark.NewService(bookmarkRepo, postRepo)
	followSvc := follow.NewService(followRepo, userRepo)

	postHandler := rest.NewPostHandler(postSvc)
	commentHandler := rest.NewCommentHandler(commentSvc)
	likeHandler := rest.NewLikeHandler(likeSvc)
	bookmarkHandler := rest.NewBookmarkHandler(bookmarkSvc, postSvc)
	followHandler := rest.NewFollowHandler(followSvc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Prepare bloom filter
	if err := postSvc.InitBloomFilter(ctx); err != nil {
		logrus.Fatal("failed to init bloom filter: ", err)
	}
	rebuildEvery := time.Duration(envInt("BLOOM_REBUILD_INTERVAL", defaultBloomRebuildEvery)) * time.Second
	go workers.NewRebuildBloomWorker(postSvc, rebuildEvery).Start(ctx)

	authMiddleware := middleware.AuthMiddleware(jwtSecret)
	optionalAuth := middleware.OptionalAuth(jwtSecret)

	// Register routes
	route.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := route.Group("/")
	public.Use(optionalAuth)
	{
		public.GET("/posts/feed", postHandler.Feed)
		public.GET("/posts/:postId", postHandler.GetByID)
		public.GET("/posts/u/:username", postHandler.FetchByUser)

		public.GET("/comments/post/:postId", commentHandler.ListRoots)
		public.GET("/comments/:commentId/replies", commentHandler.ListReplies)

		public.GET("/follows/users/:username/followers", followHandler.Followers)
		public.GET("/follows/users/:username/followings", followHandler.Followings)
	}

	authorized := route.Group("/")
	authorized.Use(authMiddleware)
	{
		authorized.POST("/posts", postHandler.Store)
		authorized.PATCH("/posts/:postId/update", postHandler.Update)
		authorized.PATCH("/posts/:postId/status", postHandler.TogglePublish)
		authorized.DELETE("/posts/:postId", postHandler.Delete)

		authorized.POST("/comments", commentHandler.Create)
		authorized.PATCH("/comments/:commentId", commentHandler.Update)
		authorized.PATCH("/comments/:commentId/:parentCommentId", commentHandler.UpdateReply)
		authorized.DELETE("/comments/:commentId", commentHandler.Delete)

		authorized.POST("/likes/p/:postId", likeHandler.TogglePost)
		authorized.POST("/likes/c/:commentId", likeHandler.ToggleComment)

		authorized.POST("/bookmarks/p/:postId", bookmarkHandler.Toggle)
		authorized.GET("/bookmarks/me", bookmarkHandler.Mine)

		authorized.POST("/follows/:followingId", followHandler.Toggle)
	}

	// Start Server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		logrus.Infof("Server is running on %s", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("listen: %s", err)
		}
	}()

	// shutdown
	<-ctx.Done()
	logrus.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Error("Server forced to shutdown: ", err)
	}

	logrus.Info("Server exiting")
}
