package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/scit-dev/registrar/internal/handler"
	"github.com/scit-dev/registrar/internal/middleware"
	"github.com/scit-dev/registrar/internal/repository"
	"github.com/scit-dev/registrar/internal/scheduling"
	"github.com/scit-dev/registrar/internal/service"
	"github.com/scit-dev/registrar/pkg/cache"
	"github.com/scit-dev/registrar/pkg/config"
	"github.com/scit-dev/registrar/pkg/database"
	"github.com/scit-dev/registrar/pkg/logger"
	reqidmiddleware "github.com/scit-dev/registrar/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	students := repository.NewStudentRepository(db)
	faculty := repository.NewFacultyRepository(db)
	courses := repository.NewCourseRepository(db)
	classrooms := repository.NewClassroomRepository(db)
	timeslots := repository.NewTimeslotRepository(db)
	schedules := repository.NewScheduleRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, listing cache disabled", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	listingCache := repository.NewCacheRepository(redisClient, logr)

	checker := scheduling.NewValidator(enrollments, schedules, courses)

	enrollmentSvc := service.NewEnrollmentService(enrollments, students, schedules, checker, listingCache, cfg.Cache.TTL, logr)
	assignmentSvc := service.NewAssignmentService(schedules, courses, faculty, classrooms, timeslots, checker, listingCache, logr)
	catalogSvc := service.NewCatalogService(students, faculty, courses, classrooms, timeslots, validator.New(), logr)
	authSvc := service.NewAuthService(students, cfg.Admin, cfg.JWT, logr)
	exportSvc := service.NewExportService(enrollmentSvc, cfg.Export.Dir, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, exportSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/admin/login", authHandler.AdminLogin)
		api.GET("/students/:id/profile", authHandler.StudentLogin)

		api.GET("/students/:id/sections", enrollmentHandler.Sections)
		api.POST("/students/:id/enrollments", enrollmentHandler.Enroll)
		api.DELETE("/students/:id/enrollments/:scheduleId", enrollmentHandler.Drop)
		api.GET("/students/:id/timetable", enrollmentHandler.Timetable)
		api.GET("/students/:id/teachers", enrollmentHandler.Teachers)
		api.GET("/students/:id/classrooms", enrollmentHandler.Classrooms)
		api.POST("/students/:id/timetable/export", enrollmentHandler.ExportTimetable)

		admin := api.Group("/admin", middleware.AdminAuth(authSvc))
		{
			admin.GET("/students", catalogHandler.ListStudents)
			admin.POST("/students", catalogHandler.AddStudent)
			admin.DELETE("/students/:id", catalogHandler.RemoveStudent)

			admin.GET("/faculty", catalogHandler.ListFaculty)
			admin.POST("/faculty", catalogHandler.AddFaculty)
			admin.DELETE("/faculty/:id", catalogHandler.RemoveFaculty)

			admin.GET("/courses", catalogHandler.ListCourses)
			admin.POST("/courses", catalogHandler.AddCourse)
			admin.DELETE("/courses/:code", catalogHandler.RemoveCourse)

			admin.GET("/classrooms", catalogHandler.ListClassrooms)
			admin.POST("/classrooms", catalogHandler.AddClassroom)
			admin.DELETE("/classrooms/:id", catalogHandler.RemoveClassroom)

			admin.GET("/timeslots", catalogHandler.ListTimeslots)
			admin.POST("/timeslots", catalogHandler.AddTimeslot)
			admin.DELETE("/timeslots/:id", catalogHandler.RemoveTimeslot)

			admin.GET("/assignments", assignmentHandler.List)
			admin.POST("/assignments", assignmentHandler.Assign)
			admin.DELETE("/assignments/:id", assignmentHandler.Remove)
			admin.GET("/courses/unscheduled", assignmentHandler.UnscheduledCourses)
			admin.GET("/timeslots/:timeslotId/free-faculty", assignmentHandler.FreeFaculty)
			admin.GET("/timeslots/:timeslotId/free-rooms", assignmentHandler.FreeRooms)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown incomplete", "error", err)
	}
}
