package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/scit-dev/registrar/internal/models"
	"github.com/scit-dev/registrar/internal/repository"
	"github.com/scit-dev/registrar/internal/scheduling"
	"github.com/scit-dev/registrar/internal/service"
	"github.com/scit-dev/registrar/internal/session"
	"github.com/scit-dev/registrar/pkg/cache"
	"github.com/scit-dev/registrar/pkg/config"
	"github.com/scit-dev/registrar/pkg/database"
	"github.com/scit-dev/registrar/pkg/logger"
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

	prompter := session.NewPrompter(os.Stdin, os.Stdout)
	newContext := session.NewContextFactory(context.Background(), cfg.Database.QueryTimeout)

	loop := session.NewLoop(
		authSvc,
		prompter,
		newContext,
		func(student models.Student) *session.StudentSession {
			return session.NewStudentSession(student, enrollmentSvc, exportSvc, prompter, newContext, logr)
		},
		func() *session.AdminSession {
			return session.NewAdminSession(catalogSvc, assignmentSvc, prompter, newContext, logr)
		},
		logr,
	)

	if err := loop.Run(); err != nil {
		logr.Sugar().Fatalw("session ended with error", "error", err)
	}
}
