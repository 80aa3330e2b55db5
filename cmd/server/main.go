package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EjMackSPD/careshare-sub001/internal/auth"
	"github.com/EjMackSPD/careshare-sub001/internal/authz"
	"github.com/EjMackSPD/careshare-sub001/internal/config"
	"github.com/EjMackSPD/careshare-sub001/internal/database"
	"github.com/EjMackSPD/careshare-sub001/internal/handlers"
	"github.com/EjMackSPD/careshare-sub001/internal/middleware"
	"github.com/EjMackSPD/careshare-sub001/internal/repository"
	"github.com/EjMackSPD/careshare-sub001/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var Version = "dev"

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)

	// Repositories
	userRepo := repository.NewUserRepository(db.Pool)
	familyRepo := repository.NewFamilyRepository(db.Pool)
	memberRepo := repository.NewMembershipRepository(db.Pool)
	recordRepo := repository.NewRecordRepository(db.Pool)

	// Access control: admin allow-list + membership lookups, re-derived
	// per request
	az := authz.NewAuthorizer(cfg.AdminEmailList(), memberRepo)

	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize email service")
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtService)
	familyHandler := handlers.NewFamilyHandler(familyRepo, memberRepo)
	taskHandler := handlers.NewTaskHandler(db.Pool, az, recordRepo)
	costHandler := handlers.NewCostHandler(db.Pool, az, recordRepo)
	eventHandler := handlers.NewEventHandler(db.Pool, az, recordRepo)
	docHandler := handlers.NewDocumentHandler(db.Pool, az, recordRepo)
	msgHandler := handlers.NewMessageHandler(db.Pool, az, recordRepo)
	resourceHandler := handlers.NewResourceHandler(db.Pool, az, recordRepo)
	carePlanHandler := handlers.NewCarePlanHandler(db.Pool, az, recordRepo)
	invitationHandler := handlers.NewInvitationHandler(db.Pool, userRepo, familyRepo, emailService, log)
	adminHandler := handlers.NewAdminHandler(familyRepo, memberRepo, userRepo)
	blogHandler := handlers.NewBlogHandler(db.Pool)

	r := gin.Default()

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if err := db.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": Version,
		})
	})

	api := r.Group("/api")

	// Public
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/blog", blogHandler.ListPosts)
	api.GET("/blog/:slug", blogHandler.GetPost)

	// Authenticated
	authed := api.Group("", middleware.RequireAuth(jwtService))
	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/families", familyHandler.CreateFamily)
	authed.GET("/families", familyHandler.ListMyFamilies)

	// Family scope, policy per operation
	fam := authed.Group("/families/:familyId")
	fam.GET("", middleware.RequirePolicy(az, authz.OpFamilyView), familyHandler.GetFamily)
	fam.PUT("", middleware.RequirePolicy(az, authz.OpFamilyUpdate), familyHandler.UpdateFamily)
	fam.GET("/members", middleware.RequirePolicy(az, authz.OpMemberList), familyHandler.ListMembers)

	fam.GET("/tasks", middleware.RequirePolicy(az, authz.OpTasks), taskHandler.ListTasks)
	fam.POST("/tasks", middleware.RequirePolicy(az, authz.OpTasks), taskHandler.CreateTask)
	fam.GET("/costs", middleware.RequirePolicy(az, authz.OpCosts), costHandler.ListCosts)
	fam.POST("/costs", middleware.RequirePolicy(az, authz.OpCosts), costHandler.CreateCost)
	fam.GET("/contributions", middleware.RequirePolicy(az, authz.OpContributions), costHandler.ListContributions)
	fam.PUT("/contributions", middleware.RequirePolicy(az, authz.OpContributions), costHandler.UpsertContribution)
	fam.DELETE("/contributions/:userId", middleware.RequirePolicy(az, authz.OpContributions), costHandler.DeleteContribution)
	fam.GET("/events", middleware.RequirePolicy(az, authz.OpEvents), eventHandler.ListEvents)
	fam.POST("/events", middleware.RequirePolicy(az, authz.OpEvents), eventHandler.CreateEvent)
	fam.GET("/documents", middleware.RequirePolicy(az, authz.OpDocuments), docHandler.ListDocuments)
	fam.POST("/documents", middleware.RequirePolicy(az, authz.OpDocuments), docHandler.CreateDocument)
	fam.GET("/medications", middleware.RequirePolicy(az, authz.OpMedications), docHandler.ListMedications)
	fam.POST("/medications", middleware.RequirePolicy(az, authz.OpMedications), docHandler.CreateMedication)
	fam.GET("/messages", middleware.RequirePolicy(az, authz.OpMessages), msgHandler.ListMessages)
	fam.POST("/messages", middleware.RequirePolicy(az, authz.OpMessages), msgHandler.CreateMessage)
	fam.GET("/notes", middleware.RequirePolicy(az, authz.OpNotes), msgHandler.ListNotes)
	fam.POST("/notes", middleware.RequirePolicy(az, authz.OpNotes), msgHandler.CreateNote)
	fam.GET("/resources", middleware.RequirePolicy(az, authz.OpResources), resourceHandler.ListResources)
	fam.POST("/resources", middleware.RequirePolicy(az, authz.OpResources), resourceHandler.CreateResource)
	fam.GET("/lifestories", middleware.RequirePolicy(az, authz.OpLifeStories), resourceHandler.ListLifeStories)
	fam.POST("/lifestories", middleware.RequirePolicy(az, authz.OpLifeStories), resourceHandler.CreateLifeStory)
	fam.GET("/careplan", middleware.RequirePolicy(az, authz.OpCarePlan), carePlanHandler.GetCarePlan)
	fam.PUT("/careplan", middleware.RequirePolicy(az, authz.OpCarePlan), carePlanHandler.PutCarePlan)
	fam.GET("/scenarios", middleware.RequirePolicy(az, authz.OpCareScenarios), carePlanHandler.ListScenarios)
	fam.POST("/scenarios", middleware.RequirePolicy(az, authz.OpCareScenarios), carePlanHandler.CreateScenario)
	fam.GET("/invitations", middleware.RequirePolicy(az, authz.OpInvitations), invitationHandler.ListInvitations)
	fam.POST("/invitations", middleware.RequirePolicy(az, authz.OpInvitations), invitationHandler.CreateInvitation)

	// Record-by-id routes resolve the record to its family before the
	// membership check, so a missing record is 404 before any 403
	authed.GET("/tasks/:id", taskHandler.GetTask)
	authed.PUT("/tasks/:id", taskHandler.UpdateTask)
	authed.DELETE("/tasks/:id", taskHandler.DeleteTask)
	authed.PUT("/costs/:id", costHandler.UpdateCost)
	authed.DELETE("/costs/:id", costHandler.DeleteCost)
	authed.PUT("/events/:id", eventHandler.UpdateEvent)
	authed.DELETE("/events/:id", eventHandler.DeleteEvent)
	authed.DELETE("/documents/:id", docHandler.DeleteDocument)
	authed.PUT("/medications/:id", docHandler.UpdateMedication)
	authed.DELETE("/medications/:id", docHandler.DeleteMedication)
	authed.DELETE("/messages/:id", msgHandler.DeleteMessage)
	authed.PUT("/notes/:id", msgHandler.UpdateNote)
	authed.DELETE("/notes/:id", msgHandler.DeleteNote)
	authed.DELETE("/resources/:id", resourceHandler.DeleteResource)
	authed.PUT("/lifestories/:id", resourceHandler.UpdateLifeStory)
	authed.DELETE("/lifestories/:id", resourceHandler.DeleteLifeStory)
	authed.PUT("/scenarios/:id", carePlanHandler.UpdateScenario)
	authed.DELETE("/scenarios/:id", carePlanHandler.DeleteScenario)

	// Admin surface: email allow-list only, membership ignored
	admin := authed.Group("/admin")
	admin.GET("/families", middleware.RequirePolicy(az, authz.OpAdminFamilies), adminHandler.ListFamilies)
	admin.POST("/families", middleware.RequirePolicy(az, authz.OpAdminFamilies), adminHandler.CreateFamily)
	admin.DELETE("/families/:familyId", middleware.RequirePolicy(az, authz.OpAdminFamilies), adminHandler.DeleteFamily)
	admin.POST("/families/:familyId/members", middleware.RequirePolicy(az, authz.OpAdminMembers), adminHandler.AddMember)
	admin.DELETE("/families/:familyId/members/:userId", middleware.RequirePolicy(az, authz.OpAdminMembers), adminHandler.RemoveMember)
	admin.GET("/users", middleware.RequirePolicy(az, authz.OpAdminUsers), adminHandler.ListUsers)
	admin.POST("/users", middleware.RequirePolicy(az, authz.OpAdminUsers), adminHandler.CreateUser)
	admin.GET("/blog", middleware.RequirePolicy(az, authz.OpAdminBlog), blogHandler.ListAllPosts)
	admin.POST("/blog", middleware.RequirePolicy(az, authz.OpAdminBlog), blogHandler.CreatePost)
	admin.PUT("/blog/:id", middleware.RequirePolicy(az, authz.OpAdminBlog), blogHandler.UpdatePost)
	admin.DELETE("/blog/:id", middleware.RequirePolicy(az, authz.OpAdminBlog), blogHandler.DeletePost)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.ServerPort).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}
