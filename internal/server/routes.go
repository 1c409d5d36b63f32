// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"github.com/shivpratapmithapalli/jobassist/internal/auth"
	"github.com/shivpratapmithapalli/jobassist/internal/controller/job"
	"github.com/shivpratapmithapalli/jobassist/internal/controller/user"
	"github.com/shivpratapmithapalli/jobassist/internal/middleware"

	// Init swagger doc
	_ "github.com/shivpratapmithapalli/jobassist/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOrginsStr := os.Getenv("ALLOW_ORIGIN")
	if allowOrginsStr == "" {
		allowOrginsStr = "http://localhost:5173,http://localhost:3000"
	}
	allowOrgins := strings.Split(allowOrginsStr, ",")

	lAuth := auth.NewLocalAuthHandler(s.DB, s.Tokens)
	userController := user.NewUserController(s.DB)
	jobController := job.NewJobController(s.DB)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrgins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// Public routes: no bearer token required
		userRoute := v1.Group("/user")
		{
			userRoute.POST("register", lAuth.RegisterHandler)
			userRoute.POST("login", lAuth.LoginHandler)
			userRoute.GET("check-email", userController.CheckEmail)
			userRoute.GET("health", userController.Health)
		}

		// Any routes below require a valid bearer token
		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB, s.Tokens))

			profileRoute := needAuth.Group("/user")
			{
				profileRoute.GET("profile", userController.GetProfile)
				profileRoute.PUT("profile", userController.UpdateProfile)
			}

			jobRoute := needAuth.Group("/jobs")
			{
				jobRoute.POST("", jobController.CreateJob)
				jobRoute.GET("", jobController.GetJobs)
				jobRoute.GET("count", jobController.CountJobs)
				jobRoute.GET(":id", jobController.GetJobByID)
				jobRoute.PUT(":id", jobController.UpdateJob)
				jobRoute.DELETE(":id", jobController.DeleteJob)
			}
		}
	}

	return r
}
