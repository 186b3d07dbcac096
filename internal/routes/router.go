package routes

import (
	"tugasku/internal/controller"
	"tugasku/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Router wires the record façade: every /api route runs behind the
// device identity middleware.
func Router(ctrl *controller.Controller) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	router.GET("/", controller.Index)
	router.GET("/health", controller.Health)
	router.GET("/ready", controller.Ready)

	api := router.Group("/api")
	api.Use(middleware.DeviceAuth())
	{
		api.GET("/tasks", ctrl.ListTasks)
		api.POST("/tasks", ctrl.CreateTask)
		api.GET("/tasks/:id", ctrl.GetTask)
		api.PUT("/tasks/:id", ctrl.UpdateTask)
		api.DELETE("/tasks/:id", ctrl.DeleteTask)

		api.GET("/courses", ctrl.ListCourses)
		api.POST("/courses", ctrl.CreateCourse)
		api.GET("/courses/:id", ctrl.GetCourse)
		api.PUT("/courses/:id", ctrl.UpdateCourse)
		api.DELETE("/courses/:id", ctrl.DeleteCourse)

		api.GET("/profiles", ctrl.GetProfile)
		api.POST("/profiles", ctrl.SaveProfile)
		api.PUT("/profiles", ctrl.SaveProfile)
		api.GET("/profiles/:id", ctrl.GetProfileByID)

		api.GET("/activity", ctrl.ListActivity)
	}

	return router
}
