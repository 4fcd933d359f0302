package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hobbies-go/internal/config"
	"hobbies-go/internal/handlers/apiserver"
	appKafka "hobbies-go/internal/kafka"
	kafkaHandlers "hobbies-go/internal/kafka/handlers"
	"hobbies-go/internal/middleware"
	"hobbies-go/internal/services"
	"hobbies-go/internal/storage"
	ws "hobbies-go/internal/websocket"

	appRedis "hobbies-go/internal/redis"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	redisDriver "github.com/redis/go-redis/v9"
)

func main() {
	// 1. 加载配置
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}
	log.Println("API 服务器配置加载成功。")

	// 2. 初始化数据库连接
	db, err := storage.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("无法初始化数据库: %v", err)
	}
	log.Println("API 服务器数据库连接成功。")

	// (可选) 表结构迁移
	if err := storage.AutoMigrateTables(db); err != nil {
		log.Printf("警告：API 服务器数据库表迁移可能失败: %v", err)
	} else {
		log.Println("API 服务器数据库表迁移成功 (如果执行)。")
	}

	// 3. 初始化 Redis Client
	redisClient := redisDriver.NewClient(&redisDriver.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		log.Fatalf("无法连接到 Redis: %v", err)
	}
	log.Println("成功连接到 Redis")

	// 4. 初始化 TokenBlacklist 服务
	tokenBlacklistService := appRedis.NewRedisTokenBlacklist(redisClient)

	// 5. 初始化 Repositories
	userRepo := storage.NewGormUserRepository(db)
	hobbyRepo := storage.NewGormHobbyRepository(db)
	friendReqRepo := storage.NewGormFriendRequestRepository(db)
	notificationRepo := storage.NewGormNotificationRepository(db)

	// 6. 初始化 Kafka Producer (好友事件 -> 通知)
	kfkProducer, err := appKafka.NewConfluentKafkaProducer(cfg.Kafka)
	if err != nil {
		log.Fatalf("无法创建 Kafka 生产者: %v", err)
	}
	defer kfkProducer.Close()
	log.Println("Kafka 生产者初始化成功 (API Server)。")

	// 7. 初始化 Services
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo, hobbyRepo)
	matchService := services.NewMatchService(userRepo)
	hobbyService := services.NewHobbyService(hobbyRepo)
	friendReqService := services.NewFriendRequestService(userRepo, friendReqRepo, kfkProducer, cfg.Kafka)
	notificationService := services.NewNotificationService(notificationRepo)

	// 7.1 初始化 WebSocket Hub (通知推送)
	hub := ws.NewHub()
	go hub.Run()

	// 8. 初始化 Handlers
	authHandler := apiserver.NewAuthHandler(authService, tokenBlacklistService)
	userHandler := apiserver.NewUserHandler(userService, matchService, friendReqService)
	friendReqHandler := apiserver.NewFriendRequestHandler(friendReqService)
	hobbyHandler := apiserver.NewHobbyHandler(hobbyService)
	notificationHandler := apiserver.NewNotificationHandler(notificationService)
	notificationWSHandler := apiserver.NewNotificationWSHandler(hub, cfg, tokenBlacklistService)

	// 9. 设置 HTTP 路由
	r := mux.NewRouter().StrictSlash(true)

	// 9.1 认证路由 (不需要认证)
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost)
	authRouter.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)

	// 创建 AuthMiddleware 实例
	authMW := middleware.AuthMiddleware(cfg.Auth.JWTSecretKey, tokenBlacklistService)

	// 9.2 API 子路由 (需要认证)
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(authMW)

	// 登出需要认证来获取 JTI
	apiRouter.HandleFunc("/auth/logout", authHandler.LogoutHandler).Methods(http.MethodPost)

	// 用户路由
	apiRouter.HandleFunc("/users/current/", userHandler.GetCurrentUserHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/users/current/friends/", userHandler.ListFriendsHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/users/", userHandler.ListUsersHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/users/{userID:[0-9]+}/", userHandler.GetUserHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/users/{userID:[0-9]+}/", userHandler.UpdateUserHandler).Methods(http.MethodPut)

	// 好友请求路由
	apiRouter.HandleFunc("/friend-requests/", friendReqHandler.ListPendingRequestsHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/friend-requests/", friendReqHandler.SendFriendRequestHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/friend-requests/", friendReqHandler.RespondFriendRequestHandler).Methods(http.MethodPut)

	// 爱好路由
	apiRouter.HandleFunc("/hobbies/", hobbyHandler.ListHobbiesHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/hobbies/", hobbyHandler.CreateHobbyHandler).Methods(http.MethodPost)

	// 通知路由
	apiRouter.HandleFunc("/notifications/", notificationHandler.ListNotificationsHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/notifications/{notificationID:[0-9]+}/read", notificationHandler.MarkNotificationReadHandler).Methods(http.MethodPost)

	// 9.3 WebSocket 路由 (令牌通过查询参数认证，不走中间件)
	r.HandleFunc("/ws/notifications", notificationWSHandler.ServeWS).Methods(http.MethodGet)

	// 10. 初始化并启动 Kafka 消费者 (好友事件 -> 通知落库 + WebSocket 推送)
	friendEventConsumer, err := appKafka.NewConfluentKafkaConsumer(cfg.Kafka)
	if err != nil {
		log.Fatalf("无法创建好友事件 Kafka 消费者: %v", err)
	}
	defer friendEventConsumer.Close()

	friendEventHandler := kafkaHandlers.NewFriendEventHandler(userRepo, notificationRepo, hub)

	consumerCtx, cancelConsumers := context.WithCancel(context.Background())
	defer cancelConsumers()

	go func() {
		topics := []string{cfg.Kafka.FriendEventTopic}
		log.Printf("Kafka 好友事件消费者启动，监听 topic: %s, GroupID: %s", cfg.Kafka.FriendEventTopic, cfg.Kafka.ConsumerGroup)
		err := friendEventConsumer.Consume(consumerCtx, topics, cfg.Kafka.ConsumerGroup, friendEventHandler.Handle)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Kafka 好友事件消费者错误: %v", err)
		}
		log.Println("Kafka 好友事件消费者 goroutine 已停止。")
	}()

	// 11. 启动 HTTP 服务器并实现优雅关闭
	serverAddr := fmt.Sprintf("%s:%s", cfg.APIServer.Host, cfg.APIServer.Port)

	// 定义 CORS 选项，从配置中读取
	corsOptions := []handlers.CORSOption{
		handlers.AllowedOrigins(cfg.APIServer.CORS.AllowedOrigins),
		handlers.AllowedMethods(cfg.APIServer.CORS.AllowedMethods),
		handlers.AllowedHeaders(cfg.APIServer.CORS.AllowedHeaders),
		handlers.ExposedHeaders(cfg.APIServer.CORS.ExposedHeaders),
		handlers.MaxAge(cfg.APIServer.CORS.MaxAge),
	}
	if cfg.APIServer.CORS.AllowCredentials {
		corsOptions = append(corsOptions, handlers.AllowCredentials())
	}

	// 将主路由器 r 包装在 CORS 中间件中
	corsHandler := handlers.CORS(corsOptions...)(r)

	srv := &http.Server{
		Addr:           serverAddr,
		Handler:        corsHandler,
		ReadTimeout:    cfg.APIServer.ReadTimeout,
		WriteTimeout:   cfg.APIServer.WriteTimeout,
		MaxHeaderBytes: cfg.APIServer.MaxHeaderBytes,
		IdleTimeout:    time.Second * 60,
	}

	go func() {
		log.Printf("API 服务器启动于 %s", serverAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API 服务器启动失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("收到关闭信号，正在关闭 API 服务器...")

	cancelConsumers() // Signal Kafka consumer to stop

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("API 服务器强制关闭: %v", err)
	}

	log.Println("API 服务器已成功关闭")
}
