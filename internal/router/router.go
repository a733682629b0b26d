package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bukhari-academy/academy-api/internal/authz"
	"github.com/bukhari-academy/academy-api/internal/handler"
	"github.com/bukhari-academy/academy-api/internal/middleware"
	"github.com/bukhari-academy/academy-api/internal/service"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	Teacher *handler.TeacherHandler
	Group   *handler.GroupHandler
	Student *handler.StudentHandler
	User    *handler.UserHandler
	Grade   *handler.GradeHandler
	Bonus   *handler.BonusHandler
	News    *handler.NewsHandler
	Profile *handler.ProfileHandler
	Report  *handler.ReportHandler
	Export  *handler.ExportHandler
}

// Register mounts the API route table under the given prefix. Route-level
// gates stop flat denials early; scoped reads pass through and are narrowed
// in the services.
func Register(r *gin.Engine, prefix string, auth *service.AuthService, h Handlers) {
	api := r.Group(prefix)

	// Public surface.
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/news", h.News.List)

	authed := api.Group("")
	authed.Use(middleware.JWT(auth))

	authed.GET("/auth/me", h.Auth.Me)

	authed.GET("/groups", middleware.Authorize(authz.ResourceGroup, authz.ActionRead), h.Group.List)
	authed.GET("/groups/:groupId/students", middleware.Authorize(authz.ResourceStudent, authz.ActionRead), h.Student.ListByGroup)
	authed.GET("/students", middleware.Authorize(authz.ResourceStudent, authz.ActionRead), h.Student.List)
	authed.GET("/students/:studentId", middleware.Authorize(authz.ResourceStudent, authz.ActionRead), h.Student.Get)

	authed.GET("/students/:studentId/grades", middleware.Authorize(authz.ResourceGrade, authz.ActionRead), h.Grade.List)
	authed.POST("/students/:studentId/grades", middleware.Authorize(authz.ResourceGrade, authz.ActionCreate), h.Grade.Add)
	authed.GET("/students/:studentId/bonuses", middleware.Authorize(authz.ResourceBonus, authz.ActionRead), h.Bonus.Summary)
	authed.POST("/students/:studentId/bonuses", middleware.Authorize(authz.ResourceBonus, authz.ActionCreate), h.Bonus.Add)

	authed.GET("/me/profile", h.Profile.Get)
	authed.PUT("/me/profile", h.Profile.Update)

	admin := authed.Group("/admin")
	admin.GET("/teachers", middleware.Authorize(authz.ResourceTeacher, authz.ActionRead), h.Teacher.List)
	admin.POST("/teachers", middleware.Authorize(authz.ResourceTeacher, authz.ActionCreate), h.Teacher.Create)
	admin.GET("/groups", middleware.Authorize(authz.ResourceGroup, authz.ActionRead), h.Group.List)
	admin.POST("/groups", middleware.Authorize(authz.ResourceGroup, authz.ActionCreate), h.Group.Create)
	admin.GET("/students", middleware.Authorize(authz.ResourceStudent, authz.ActionRead), h.Student.List)
	admin.POST("/students", middleware.Authorize(authz.ResourceStudent, authz.ActionCreate), h.Student.Create)
	admin.PUT("/students/:studentId", middleware.Authorize(authz.ResourceStudent, authz.ActionUpdate), h.Student.Update)
	admin.GET("/logins", middleware.Authorize(authz.ResourceCredential, authz.ActionRead), h.User.ListLogins)
	admin.PUT("/users/:userId/password", middleware.Authorize(authz.ResourceCredential, authz.ActionUpdate), h.User.SetPassword)
	admin.POST("/news", middleware.Authorize(authz.ResourceNews, authz.ActionCreate), h.News.Create)
	admin.DELETE("/news/:newsId", middleware.Authorize(authz.ResourceNews, authz.ActionDelete), h.News.Delete)
	admin.GET("/students/export.csv", middleware.Authorize(authz.ResourceStudent, authz.ActionRead), h.Export.RosterCSV)
	admin.GET("/reports/monthly/:studentId", middleware.Authorize(authz.ResourceReport, authz.ActionCreate), h.Export.MonthlyPDF)

	reports := authed.Group("/email")
	reports.Use(middleware.Authorize(authz.ResourceReport, authz.ActionCreate))
	reports.POST("/send-monthly-report/:studentId", h.Report.SendOne)
	reports.POST("/send-monthly-reports", h.Report.SendAll)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "route not found"}})
	})
}
