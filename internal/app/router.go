package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		// 学生/通用 授权接口
		a.registerStudentRoutes(authGroup, c)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup, c)

		// 管理员相关接口
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", c.course.GetCourse)

		public.GET("/articles", c.article.ListArticles)
		public.GET("/articles/:slug", c.article.GetArticle)
	}
}

func (a *App) registerStudentRoutes(r *gin.RouterGroup, c *controllers) {
	r.GET("/profile", c.auth.GetProfile)
	r.PUT("/profile", c.auth.UpdateProfile)

	r.POST("/uploads", c.upload.Upload)

	r.GET("/modules/:id", c.course.GetModule)

	r.POST("/courses/:id/enroll", c.enrollment.Enroll)

	enrollments := r.Group("/enrollments")
	{
		enrollments.GET("", c.enrollment.ListMine)
		enrollments.GET("/:id", c.enrollment.Get)
		enrollments.DELETE("/:id", c.enrollment.Unenroll)
		enrollments.POST("/:id/modules/:moduleId/complete", c.enrollment.CompleteModule)
		enrollments.POST("/:id/quiz/:moduleId", c.grade.SubmitQuiz)
		enrollments.POST("/:id/submissions", c.grade.SubmitAssignment)
		enrollments.GET("/:id/grades", c.grade.GetGrades)
	}
}

func (a *App) registerTeacherRoutes(r *gin.RouterGroup, c *controllers) {
	teacher := r.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		courses := teacher.Group("/courses")
		{
			courses.GET("", c.course.ListMyCourses)
			courses.POST("", c.course.CreateCourse)
			courses.GET("/:id", c.course.GetManagedCourse)
			courses.PUT("/:id", c.course.UpdateCourse)
			courses.DELETE("/:id", c.course.DeleteCourse)

			courses.GET("/:id/modules", c.course.ListModules)
			courses.POST("/:id/modules", c.course.CreateModule)

			courses.GET("/:id/enrollments", c.enrollment.Roster)
			courses.GET("/:id/submissions", c.grade.ListSubmissions)
			courses.GET("/:id/gradebook.xlsx", c.grade.ExportGradebook)
		}

		modules := teacher.Group("/modules")
		{
			modules.GET("/:id", c.course.GetModule)
			modules.PUT("/:id", c.course.UpdateModule)
			modules.DELETE("/:id", c.course.DeleteModule)
		}

		teacher.POST("/enrollments/:id/submissions/:index/grade", c.grade.GradeSubmission)

		articles := teacher.Group("/articles")
		{
			articles.GET("", c.article.ListMyArticles)
			articles.POST("", c.article.CreateArticle)
			articles.PUT("/:id", c.article.UpdateArticle)
			articles.DELETE("/:id", c.article.DeleteArticle)
		}
	}
}

func (a *App) registerAdminRoutes(r *gin.RouterGroup, c *controllers) {
	admin := r.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/students", c.user.ListStudents)
		admin.GET("/students/:id", c.user.GetStudent)
		admin.DELETE("/students/:id", c.user.DeleteStudent)

		admin.PATCH("/enrollments/:id/payment", c.user.UpdatePayment)

		admin.POST("/maintenance/reconcile", c.user.Reconcile)
	}
}
