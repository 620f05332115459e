package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/blogchat/backend/internal/auth/http"
	authservice "github.com/blogchat/backend/internal/auth/service"
	chathttp "github.com/blogchat/backend/internal/chat/http"
	chatservice "github.com/blogchat/backend/internal/chat/service"
	commenthttp "github.com/blogchat/backend/internal/comment/http"
	commentrepo "github.com/blogchat/backend/internal/comment/repository"
	commentservice "github.com/blogchat/backend/internal/comment/service"
	"github.com/blogchat/backend/internal/common/clock"
	"github.com/blogchat/backend/internal/common/config"
	commoncrypto "github.com/blogchat/backend/internal/common/crypto"
	"github.com/blogchat/backend/internal/common/db"
	commonhttp "github.com/blogchat/backend/internal/common/http"
	"github.com/blogchat/backend/internal/common/jwtverify"
	"github.com/blogchat/backend/internal/common/logger"
	srv "github.com/blogchat/backend/internal/common/server"
	posthttp "github.com/blogchat/backend/internal/post/http"
	postrepo "github.com/blogchat/backend/internal/post/repository"
	postservice "github.com/blogchat/backend/internal/post/service"
	"github.com/blogchat/backend/internal/realtime"
	userrepo "github.com/blogchat/backend/internal/user/repository"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "blogchat", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	userRepo := userrepo.NewPgRepository(pool)
	postRepo := postrepo.NewPgRepository(pool)
	commentRepo := commentrepo.NewPgRepository(pool)

	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := commoncrypto.NewUUIDGenerator()
	clk := clock.NewRealClock()

	tokens := authservice.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL, clk)
	authService := authservice.NewAuthService(authservice.AuthServiceDeps{
		Repo:        userRepo,
		Hasher:      hasher,
		IDGenerator: idGenerator,
		Tokens:      tokens,
		Log:         log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := realtime.NewHub(log)
	go hub.Run(ctx)

	postService := postservice.NewPostService(postRepo, idGenerator, hub, log)
	commentService := commentservice.NewCommentService(commentRepo, idGenerator, hub, log)

	messageLog := chatservice.NewMessageLog(cfg.ChatHistorySize)
	chatService := chatservice.NewChatService(messageLog, hub, clk, log)

	authHandler := authhttp.NewHandler(authService, cfg.TokenTTL, cfg.RequestTimeout, log)
	postHandler := posthttp.NewHandler(postService, cfg.RequestTimeout, log)
	commentHandler := commenthttp.NewHandler(commentService, cfg.RequestTimeout, log)
	chatHandler := chathttp.NewHandler(chatService, cfg.RequestTimeout, log)

	wsHandler := realtime.NewHandler(hub, cfg.JWTSecret, realtime.ClientConfig{
		WriteWait:   cfg.WebSocketWriteWait,
		PongWait:    cfg.WebSocketPongWait,
		PingPeriod:  cfg.WebSocketPingPeriod,
		MaxMsgSize:  cfg.WebSocketMaxMsgSize,
		SendBufSize: cfg.WebSocketSendBufSize,
	}, log)

	authRequired := jwtverify.Middleware(cfg.JWTSecret, userRepo, log)

	// Post reads stay open; every other domain route needs a verified user.
	postRoutes := func(next http.Handler) http.Handler {
		protected := authRequired(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			protected.ServeHTTP(w, r)
		})
	}

	mux := http.NewServeMux()
	mux.Handle("/api/auth/", authHandler)
	mux.Handle("/api/posts", postRoutes(postHandler))
	mux.Handle("/api/posts/", postRoutes(postHandler))
	mux.Handle("/api/comments", authRequired(commentHandler))
	mux.Handle("/api/chat", authRequired(chatHandler))
	mux.Handle("/ws", wsHandler)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	baseHandler := commonhttp.BuildBaseHandler(log, mux)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, baseHandler)

	shutdownHooks := []srv.ShutdownHook{
		func(shutdownCtx context.Context) error {
			log.Infof("blogchat service: stopping realtime hub")
			cancel()
			return hub.Shutdown(shutdownCtx)
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, log, "blogchat", shutdownHooks)
}
