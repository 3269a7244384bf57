package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/aibek-dev/goaltrack/internal/config"
	"github.com/aibek-dev/goaltrack/internal/database"
	"github.com/aibek-dev/goaltrack/internal/handlers"
	"github.com/aibek-dev/goaltrack/internal/jobs"
	"github.com/aibek-dev/goaltrack/internal/repository"
	cronjobs "github.com/aibek-dev/goaltrack/internal/scheduler"
	"github.com/aibek-dev/goaltrack/internal/services"
	"github.com/aibek-dev/goaltrack/pkg/logger"
	"github.com/aibek-dev/goaltrack/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	milestoneRepo := repository.NewMilestoneRepository(db)
	recurringRepo := repository.NewRecurringActionRepository(db)
	oneTimeRepo := repository.NewOneTimeActionRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo)
	milestoneService := services.NewMilestoneService(milestoneRepo, goalRepo, recurringRepo, oneTimeRepo)
	goalService := services.NewGoalService(goalRepo, milestoneService)
	actionService := services.NewActionService(recurringRepo, oneTimeRepo, milestoneService)
	taskService := services.NewTaskService(goalRepo, milestoneRepo, recurringRepo, oneTimeRepo, milestoneService, actionService)
	calendarService := services.NewCalendarService(goalRepo, milestoneRepo, recurringRepo, oneTimeRepo, goalService)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	goalHandler := handlers.NewGoalHandler(goalService)
	milestoneHandler := handlers.NewMilestoneHandler(milestoneService, goalService)
	actionHandler := handlers.NewActionHandler(actionService)
	taskHandler := handlers.NewTaskHandler(taskService)
	calendarHandler := handlers.NewCalendarHandler(calendarService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Register User routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	// Goal routes (milestones and actions nest under /goals)
	goalRoutes := router.PathPrefix("/goals").Subrouter()
	goalRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	goalRoutes.HandleFunc("", goalHandler.CreateGoalHandler).Methods("POST")
	goalRoutes.HandleFunc("", goalHandler.GetGoalsHandler).Methods("GET")

	goalRoutes.HandleFunc("/milestones/{id}", milestoneHandler.GetMilestoneHandler).Methods("GET")
	goalRoutes.HandleFunc("/milestones/{id}", milestoneHandler.UpdateMilestoneHandler).Methods("PUT")
	goalRoutes.HandleFunc("/milestones/{id}", milestoneHandler.ArchiveMilestoneHandler).Methods("DELETE")
	goalRoutes.HandleFunc("/milestones/{id}/close", milestoneHandler.CloseMilestoneHandler).Methods("POST")
	goalRoutes.HandleFunc("/milestones/{id}/complete", milestoneHandler.ForceCompleteMilestoneHandler).Methods("PUT")
	goalRoutes.HandleFunc("/milestones/{id}/recurring-actions", actionHandler.CreateRecurringActionHandler).Methods("POST")
	goalRoutes.HandleFunc("/milestones/{id}/recurring-actions/target", actionHandler.BulkSetTargetHandler).Methods("PUT")
	goalRoutes.HandleFunc("/milestones/{id}/one-time-actions", actionHandler.CreateOneTimeActionHandler).Methods("POST")

	goalRoutes.HandleFunc("/recurring-actions/{id}", actionHandler.GetRecurringActionHandler).Methods("GET")
	goalRoutes.HandleFunc("/recurring-actions/{id}", actionHandler.UpdateRecurringActionHandler).Methods("PUT")
	goalRoutes.HandleFunc("/recurring-actions/{id}", actionHandler.DeleteRecurringActionHandler).Methods("DELETE")
	goalRoutes.HandleFunc("/recurring-actions/{id}/log", actionHandler.LogCompletionHandler).Methods("POST")
	goalRoutes.HandleFunc("/recurring-actions/{id}/recalculate", actionHandler.RecalculateHandler).Methods("POST")

	goalRoutes.HandleFunc("/one-time-actions/{id}", actionHandler.UpdateOneTimeActionHandler).Methods("PUT")
	goalRoutes.HandleFunc("/one-time-actions/{id}", actionHandler.DeleteOneTimeActionHandler).Methods("DELETE")

	goalRoutes.HandleFunc("/{id}", goalHandler.GetGoalHandler).Methods("GET")
	goalRoutes.HandleFunc("/{id}", goalHandler.UpdateGoalHandler).Methods("PUT")
	goalRoutes.HandleFunc("/{id}", goalHandler.ArchiveGoalHandler).Methods("DELETE")
	goalRoutes.HandleFunc("/{id}/restore", goalHandler.RestoreGoalHandler).Methods("PUT")
	goalRoutes.HandleFunc("/{id}/progress", goalHandler.GetGoalProgressHandler).Methods("GET")
	goalRoutes.HandleFunc("/{id}/milestones", milestoneHandler.CreateMilestoneHandler).Methods("POST")
	goalRoutes.HandleFunc("/{id}/milestones", milestoneHandler.GetMilestonesHandler).Methods("GET")

	// Task routes
	taskRoutes := router.PathPrefix("/tasks").Subrouter()
	taskRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	taskRoutes.HandleFunc("", taskHandler.CreateTaskHandler).Methods("POST")
	taskRoutes.HandleFunc("/range", taskHandler.GetRangeTasksHandler).Methods("GET")
	taskRoutes.HandleFunc("/{id}/complete", taskHandler.CompleteTaskHandler).Methods("PUT")
	taskRoutes.HandleFunc("/{id}/reschedule", taskHandler.RescheduleTaskHandler).Methods("PUT")

	// Calendar routes
	calendarRoutes := router.PathPrefix("/calendar").Subrouter()
	calendarRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	calendarRoutes.HandleFunc("/month", calendarHandler.GetMonthHandler).Methods("GET")
	calendarRoutes.HandleFunc("/day", calendarHandler.GetDayHandler).Methods("GET")
	calendarRoutes.HandleFunc("/timeline", calendarHandler.GetTimelineHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Nightly completion sweep
	sweep := jobs.NewCompletionSweep(goalRepo, milestoneRepo, milestoneService)
	cronjobs.StartCompletionCronJobs(sweep)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
