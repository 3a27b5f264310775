package main

import (
	"github.com/gin-gonic/gin"

	"librarylite/internal/shared/middleware"
	"librarylite/internal/web"
	"librarylite/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		c.Metrics.Middleware(),
	)

	router.SetHTMLTemplate(web.MustTemplates())
	router.StaticFS("/static", web.Static())

	// Health + metrics
	router.GET("/health", c.HealthHandler.Live)
	router.GET("/health/ready", c.HealthHandler.Ready)
	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	setupBookRoutes(router, c)
	setupViewRoutes(router, c)

	return router
}

// ========================================
// BOOK ROUTES (JSON)
// ========================================
func setupBookRoutes(router *gin.Engine, c *container.Container) {
	books := router.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.POST("", c.BookHandler.CreateBook)
		books.GET("/:id", c.BookHandler.GetBook)
		books.PUT("/:id", c.BookHandler.UpdateBook)
		books.DELETE("/:id", c.BookHandler.DeleteBook)
	}
}

// ========================================
// VIEW ROUTES (HTML)
// ========================================
func setupViewRoutes(router *gin.Engine, c *container.Container) {
	router.GET("/", c.ViewHandler.Home)

	ui := router.Group("/ui/books")
	{
		ui.GET("", c.ViewHandler.List)
		ui.POST("", c.ViewHandler.Create)
		ui.GET("/new", c.ViewHandler.New)
		ui.GET("/:id", c.ViewHandler.Detail)
		ui.GET("/:id/edit", c.ViewHandler.Edit)
		ui.POST("/:id/edit", c.ViewHandler.Update)
		ui.POST("/:id/delete", c.ViewHandler.Delete)
	}
}
