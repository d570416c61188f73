package handler

import (
	"net/http"
	"time"

	"github.com/Miraines/MoonyAndStarry/task-service/internal/adapters/transport/http/middleware"
	authsvc "github.com/Miraines/MoonyAndStarry/task-service/internal/app/auth/service"
	projectsvc "github.com/Miraines/MoonyAndStarry/task-service/internal/app/project/service"
	tasksvc "github.com/Miraines/MoonyAndStarry/task-service/internal/app/task/service"
	"github.com/Miraines/MoonyAndStarry/task-service/internal/infra/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Deps struct {
	Auth     authsvc.Service
	Projects projectsvc.Service
	Tasks    tasksvc.Service
	Config   *config.Config
	Log      *zap.Logger
	Metrics  *middleware.Metrics
}

func NewRouter(d Deps) *gin.Engine {
	if d.Metrics == nil {
		d.Metrics = middleware.NewMetrics()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(d.Log))
	router.Use(d.Metrics.Instrument())
	router.Use(cors.New(cors.Config{
		AllowOrigins: d.Config.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
			middleware.RequestIDHeader,
		},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: d.Config.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	auth := &authHandler{svc: d.Auth, cfg: d.Config, log: d.Log}
	projects := &projectHandler{svc: d.Projects}
	tasks := &taskHandler{svc: d.Tasks}

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", auth.signup)
	authGroup.POST("/login", auth.login)
	authGroup.POST("/refresh", auth.refresh)
	authGroup.POST("/logout", auth.logout)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(d.Auth))

	protected.GET("/projects", projects.list)
	protected.POST("/projects", projects.create)
	protected.GET("/projects/:id", projects.get)
	protected.PUT("/projects/:id", projects.update)
	protected.DELETE("/projects/:id", projects.remove)

	protected.GET("/tasks", tasks.search)
	protected.GET("/tasks/dashboard", tasks.dashboard)
	protected.GET("/tasks/project/:projectId", tasks.listByProject)
	protected.POST("/tasks", tasks.create)
	protected.PUT("/tasks/:id", tasks.update)
	protected.DELETE("/tasks/:id", tasks.remove)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
	})
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})

	return router
}
