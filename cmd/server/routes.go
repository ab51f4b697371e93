package main

import (
	"github.com/gin-gonic/gin"

	"crew-directory.backend/internal/interfaces/http/handlers"
	"crew-directory.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	freelancerHandler *handlers.FreelancerHandler
	profileHandler    *handlers.ProfileHandler
	authHandler       *handlers.AuthHandler
	newsHandler       *handlers.NewsHandler
	submissionHandler *handlers.SubmissionHandler
	adminHandler      *handlers.AdminHandler
	authMiddleware    gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Public directory
		v1.GET("/directory", d.freelancerHandler.GetDirectory)
		v1.GET("/freelancers", d.freelancerHandler.ListFreelancers)
		v1.GET("/freelancers/:slug", d.freelancerHandler.GetFreelancer)
		v1.GET("/departments/:department/skills/:skill", d.freelancerHandler.GetSkill)

		v1.GET("/news", d.newsHandler.ListPublished)
		v1.GET("/news/:slug", d.newsHandler.GetPublished)

		// Public forms
		v1.POST("/contact", middleware.IdempotencyMiddleware(), d.submissionHandler.SubmitContact)
		v1.POST("/jobs", middleware.IdempotencyMiddleware(), d.submissionHandler.SubmitJob)

		auth := v1.Group("/auth")
		{
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.RefreshToken)
			auth.POST("/logout", d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
			auth.POST("/change-password", d.authMiddleware, d.authHandler.ChangePassword)
		}

		// Member profile editing
		me := v1.Group("/me")
		me.Use(d.authMiddleware, middleware.RequireMember())
		{
			me.GET("/profile", d.profileHandler.GetProfile)
			me.PUT("/profile", d.profileHandler.UpdateProfile)
			me.PUT("/links", d.profileHandler.UpdateLinks)
			me.POST("/assets/:kind", d.profileHandler.UploadAsset)
			me.DELETE("/assets/:kind", d.profileHandler.DeleteAsset)
		}

		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/news", d.newsHandler.ListAdmin)
			admin.POST("/news", d.newsHandler.Create)
			admin.PUT("/news/:id", d.newsHandler.Update)
			admin.DELETE("/news/:id", d.newsHandler.Delete)
			admin.POST("/news/:id/pdf", d.newsHandler.AttachPDF)

			admin.GET("/submissions", d.submissionHandler.List)
			admin.PUT("/submissions/:id/handled", d.submissionHandler.MarkHandled)

			admin.GET("/diagnostics/link-gaps", d.adminHandler.LinkGaps)
			admin.POST("/cache/invalidate", d.adminHandler.InvalidateCache)
		}
	}
}
