package app

import (
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/docs"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/config"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/middleware"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/internal/model"
	"github.com/ishimweeli/homeSchoolingExamSystem-sub001/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Check)

	public := router.Group("/api")
	{
		public.GET("/health", c.health.Check)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// browsable by guests, personalized when a token is present
		public.GET("/catalog", middleware.TryAuthMiddleware(cfg), c.session.Catalog)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.POST("/user/avatar/upload", c.user.UploadAvatar)

	rg.GET("/dashboard/overview", c.dashboard.Overview)
	rg.GET("/dashboard/leaderboard", c.dashboard.Leaderboard)

	study := rg.Group("/study")
	study.Use(middleware.RoleMiddleware(model.Student))
	{
		study.GET("/assigned", c.session.Assigned)
		study.POST("/:id/start", c.session.Start)
		study.POST("/:id/submit", c.session.Submit)
		study.POST("/:id/restart-lesson", c.session.RestartLesson)
		study.GET("/:id/lessons", c.session.LessonStates)
	}

	exams := rg.Group("/exams")
	{
		student := exams.Group("")
		student.Use(middleware.RoleMiddleware(model.Student))
		{
			student.GET("/assigned", c.exam.Assigned)
			student.GET("/my-results", c.exam.MyResults)
			student.GET("/:id/take", c.exam.Take)
			student.POST("/:id/submit", c.exam.Submit)
		}
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacherOnly := middleware.RoleMiddleware(model.Teacher, model.Parent)

	rg.GET("/users/students", teacherOnly, c.user.ListStudents)

	modules := rg.Group("/study-modules")
	modules.Use(teacherOnly)
	{
		modules.POST("", c.module.Create)
		modules.GET("", c.module.ListMine)
		modules.GET("/:id", c.module.Get)
		modules.PUT("/:id", c.module.Update)
		modules.POST("/:id/publish", c.module.Publish)
		modules.POST("/:id/assign", c.module.Assign)
	}

	exams := rg.Group("/exams")
	exams.Use(teacherOnly)
	{
		exams.POST("", c.exam.Create)
		exams.GET("", c.exam.ListMine)
		exams.POST("/:id/publish", c.exam.Publish)
		exams.POST("/:id/assign", c.exam.Assign)
		exams.GET("/:id/results", c.exam.Results)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/leaderboard/rebuild", c.dashboard.RebuildLeaderboard)
	}
}
