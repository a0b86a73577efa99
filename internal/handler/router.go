package handler

import (
	"log/slog"

	"github.com/AncientiCe/user-mgmt-api/internal/config"
	"github.com/AncientiCe/user-mgmt-api/internal/service"
	"github.com/gin-gonic/gin"
)

func NewRouter(authService *service.AuthService, cors config.CORSConfig, log *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestLogger(log),
		CORSMiddleware(cors.AllowedOrigins, cors.AllowCredentials),
	)

	authHandler := NewAuthHandler(authService, log)

	router.GET("/ping", Ping)
	router.GET("/openapi.json", OpenAPIDoc)

	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)

	protected := router.Group("/")
	protected.Use(AuthMiddleware(authService, log))
	protected.GET("/me", authHandler.Me)
	protected.GET("/users/:id", authHandler.GetUser)
	protected.PATCH("/users/:id", authHandler.UpdateUser)

	return router
}
