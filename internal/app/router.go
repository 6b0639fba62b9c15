package app

import (
	"strconv"
	"time"

	"iaprender_backend/docs"
	"iaprender_backend/internal/middleware"
	"iaprender_backend/internal/model"
	"iaprender_backend/internal/util"
	"iaprender_backend/pkg/monitoring"
	"iaprender_backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, s *services) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(s.auth), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/logout", c.auth.Logout)
	group.GET("/profile", c.auth.Profile)

	group.GET("/games", c.catalog.ListGames)
	group.GET("/games/:id", c.catalog.GetGame)
	group.POST("/games/:id/attempts", c.catalog.SubmitGameAttempt)
	group.GET("/modules", c.catalog.ListModules)
	group.POST("/modules/:id/attempts", c.catalog.SubmitModuleAttempt)
	group.GET("/progress", c.catalog.GetProgress)

	chat := group.Group("/chat")
	{
		chat.POST("/messages", security.RateLimiterBy(a.Config.AI.RequestsPerMinute, time.Minute, userKey), c.chat.SendMessage)
		chat.GET("/messages", c.chat.History)
	}

	support := group.Group("/support")
	{
		support.GET("/moods", c.support.Moods)
		support.GET("/session", c.support.Session)
		support.POST("/session/mood", c.support.SelectMood)
		support.POST("/session/back", c.support.Back)
		support.POST("/session/submit", c.support.Submit)
		support.POST("/session/restart", c.support.Restart)
	}

	group.GET("/tasks", c.task.MyTasks)
	group.POST("/tasks/:id/submissions", c.task.Submit)
}

func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/students", c.user.ListStudents)
		teacher.GET("/students/:id", c.user.StudentDetail)
		teacher.GET("/overview", c.user.Overview)

		teacher.POST("/tasks", c.task.CreateTask)
		teacher.GET("/tasks", c.task.ListTeacherTasks)
		teacher.PUT("/tasks/:id", c.task.UpdateTask)
		teacher.DELETE("/tasks/:id", c.task.DeleteTask)
		teacher.GET("/tasks/:id/submissions", c.task.ListSubmissions)
		teacher.POST("/submissions/:id/grade", c.task.GradeSubmission)
	}
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.PUT("/users/:id/role", c.user.UpdateRole)
	}
}

// userKey buckets authenticated requests per user id.
func userKey(c *gin.Context) string {
	if claims := util.GetUserFromContext(c); claims != nil {
		return "user:" + strconv.FormatUint(uint64(claims.UserID), 10)
	}
	return ""
}
