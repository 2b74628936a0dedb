package service

import (
	"errors"

	"lon-tracker/internal/config"
	"lon-tracker/internal/db"
	"lon-tracker/internal/email"
	"lon-tracker/internal/notification"
	"lon-tracker/internal/repository"
	"lon-tracker/internal/socket"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPayloadTooLarge    = errors.New("payload too large")
	ErrClientInUse        = errors.New("client has projects and cannot be deleted")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth         AuthService
	User         UserService
	Client       ClientService
	Project      ProjectService
	Task         TaskService
	Notification NotificationService
	Broadcaster  *socket.Broadcaster
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	Redis       *db.RedisDB
	NotifSvc    *notification.Service
	EmailSvc    *email.Service
	Broadcaster *socket.Broadcaster
}

func NewServices(deps *ServiceDeps) *Services {
	return &Services{
		Auth: NewAuthService(deps.Config, deps.Repos.UserRepo),
		User: NewUserService(deps.Repos.UserRepo),
		Client: NewClientService(
			deps.Repos.ClientRepo,
			deps.Repos.ProjectRepo,
		),
		Project: NewProjectService(
			deps.Repos.ProjectRepo,
			deps.Repos.ClientRepo,
			deps.Repos.TaskRepo,
			deps.Repos.UserRepo,
			deps.Redis,
			deps.NotifSvc,
			deps.Broadcaster,
		),
		Task: NewTaskService(
			deps.Config,
			deps.Repos.TaskRepo,
			deps.Repos.ProjectRepo,
			deps.Repos.UserRepo,
			deps.Repos.DocumentRepo,
			deps.Redis,
			deps.NotifSvc,
			deps.EmailSvc,
			deps.Broadcaster,
		),
		Notification: NewNotificationService(deps.Repos.NotificationRepo, deps.Broadcaster),
		Broadcaster:  deps.Broadcaster,
	}
}
