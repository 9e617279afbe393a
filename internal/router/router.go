package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/proplan-dev/proplan/internal/events"
	"github.com/proplan-dev/proplan/internal/handlers"
	"github.com/proplan-dev/proplan/internal/middleware"
	"github.com/proplan-dev/proplan/internal/notify"
	"github.com/proplan-dev/proplan/internal/services"
	"github.com/proplan-dev/proplan/internal/types"
	"gorm.io/gorm"
)

// NewRouter wires services, handlers and the route table.
func NewRouter(database *gorm.DB, mailer *notify.Mailer, hub *events.Hub) *gin.Engine {
	userService := services.NewUserService(database)
	projectService := services.NewProjectService(database, mailer, hub)
	taskService := services.NewTaskService(database, mailer, hub)
	dayOffService := services.NewDayOffService(database, mailer)
	reportService := services.NewReportService(database)

	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	dayOffHandler := handlers.NewDayOffHandler(dayOffService)
	reportHandler := handlers.NewReportHandler(reportService)
	eventsHandler := handlers.NewEventsHandler(hub)

	r := gin.Default()

	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthCheck)
	r.POST("/auth/token", authHandler.Token)
	r.GET("/auth/me", middleware.AuthMiddleware(), authHandler.Me)
	r.GET("/ws", middleware.AuthMiddleware(), eventsHandler.Stream)

	users := r.Group("/users", middleware.AuthMiddleware())
	{
		users.POST("", userHandler.Create)
		users.GET("", userHandler.List)
		users.GET("/:user_id", userHandler.Get)
		users.PATCH("/:user_id", userHandler.Update)
		users.DELETE("/:user_id", userHandler.Delete)
	}

	projects := r.Group("/projects", middleware.AuthMiddleware())
	{
		projects.POST("", projectHandler.Create)
		projects.GET("", projectHandler.List)
		projects.GET("/:project_id", projectHandler.Get)
		projects.PATCH("/:project_id", projectHandler.Update)
		projects.DELETE("/:project_id", projectHandler.Delete)

		projects.POST("/:project_id/manager/:user_id", projectHandler.AssignManager)
		projects.DELETE("/:project_id/manager", projectHandler.RemoveManager)
		projects.POST("/:project_id/workers/:user_id", projectHandler.AddWorker)
		projects.DELETE("/:project_id/workers/:user_id", projectHandler.RemoveWorker)
	}

	tasks := r.Group("/tasks", middleware.AuthMiddleware())
	{
		tasks.POST("", taskHandler.Create)
		tasks.GET("", taskHandler.List)
		tasks.GET("/:task_id", taskHandler.Get)
		tasks.PATCH("/:task_id", taskHandler.Update)
		tasks.DELETE("/:task_id", taskHandler.Delete)

		tasks.POST("/:task_id/workers/:user_id", taskHandler.AssignWorker)
		tasks.DELETE("/:task_id/workers/:user_id", taskHandler.RemoveWorker)
		tasks.POST("/:task_id/reassign", taskHandler.ReassignWorker)
	}

	daysOff := r.Group("/days-off", middleware.AuthMiddleware())
	{
		daysOff.POST("", dayOffHandler.Create)
		daysOff.GET("/me", dayOffHandler.ListMine)
		daysOff.GET("/user/:user_id", dayOffHandler.ListForUser)
		daysOff.GET("/project/:project_id", dayOffHandler.ListForProject)
		daysOff.DELETE("/:entry_id", dayOffHandler.Delete)
	}

	reports := r.Group("/reports", middleware.AuthMiddleware())
	{
		reports.GET("/projects/:project_id/:year/:month", reportHandler.Monthly)
		reports.GET("/projects/:project_id/:year/:month/csv", reportHandler.MonthlyCSV)
	}

	return r
}
