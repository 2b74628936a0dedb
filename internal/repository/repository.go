package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrStaleStatus is returned by TaskRepository.UpdateStatus when the guarded
// update matched no row: the task's status changed between read and write and
// the caller must re-read before retrying.
var ErrStaleStatus = errors.New("task status changed concurrently")

// ============================================
// Models / Entities
// ============================================

type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	Phone     *string
	Function  *string
	Company   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RefreshToken struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Client struct {
	ID        string
	Name      string
	Email     *string
	Phone     *string
	Company   *string
	CreatedAt time.Time
}

// Project carries its team member ids as an ordinary loaded collection;
// the workflow core never queries for them lazily.
type Project struct {
	ID            string
	Name          string
	Description   *string
	ClientID      string
	Location      string
	Status        string
	StartDate     time.Time
	EndDate       time.Time
	Budget        decimal.Decimal
	ManagerID     string
	TeamMemberIDs []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Task struct {
	ID          string
	ProjectID   string
	CreatedBy   *string
	AssignedTo  *string
	Title       string
	Description *string
	Status      string
	Priority    string
	StartDate   *time.Time
	EndDate     *time.Time
	TimeSpent   float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TaskDocument struct {
	ID         string
	TaskID     string
	Title      string
	FileName   string
	FilePath   string
	FileSize   int64
	UploadedBy *string
	UploadedAt time.Time
}

type Notification struct {
	ID        string
	UserID    string
	Type      string
	Message   string
	Read      bool
	CreatedAt time.Time
}

// TaskFilters narrows project task listings (project detail screen).
type TaskFilters struct {
	Status   string
	Priority string
	Search   string
}

// ============================================
// Repository Interfaces
// ============================================

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	Search(ctx context.Context, query string) ([]*User, error)
	Update(ctx context.Context, user *User) error
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteUserRefreshTokens(ctx context.Context, userID string) error
}

type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	FindByID(ctx context.Context, id string) (*Client, error)
	FindAll(ctx context.Context) ([]*Client, error)
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	FindByUserID(ctx context.Context, userID string) ([]*Project, error)
	FindManagedBy(ctx context.Context, userID string) ([]*Project, error)
	CountManagedBy(ctx context.Context, userID string) (int, error)
	CountByClientID(ctx context.Context, clientID string) (int, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, projectID, userID string) error
	RemoveMember(ctx context.Context, projectID, userID string) error
}

type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	FindByProjectID(ctx context.Context, projectID string, filters *TaskFilters) ([]*Task, error)
	FindVisibleTo(ctx context.Context, userID string) ([]*Task, error)
	FindOpenEndedBefore(ctx context.Context, date time.Time) ([]*Task, error)
	Update(ctx context.Context, task *Task) error
	UpdateStatus(ctx context.Context, id, from, to string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *TaskDocument) error
	FindByID(ctx context.Context, id string) (*TaskDocument, error)
	FindByTaskID(ctx context.Context, taskID string) ([]*TaskDocument, error)
	Delete(ctx context.Context, id string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	FindByUserID(ctx context.Context, userID string, unreadOnly bool) ([]*Notification, error)
	CountByUserID(ctx context.Context, userID string) (total int, unread int, err error)
	MarkAsRead(ctx context.Context, id, userID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id, userID string) error
}

// ============================================
// Repositories Container
// ============================================

type Repositories struct {
	UserRepo         UserRepository
	ClientRepo       ClientRepository
	ProjectRepo      ProjectRepository
	TaskRepo         TaskRepository
	DocumentRepo     DocumentRepository
	NotificationRepo NotificationRepository
}

// NewRepositories creates in-memory repositories (tests and local fallback).
func NewRepositories() *Repositories {
	projects := newMemProjectRepository()
	tasks := newMemTaskRepository()
	tasks.SetProjectLookup(func(projectID string) *Project {
		p, _ := projects.FindByID(context.Background(), projectID)
		return p
	})
	return &Repositories{
		UserRepo:         newMemUserRepository(),
		ClientRepo:       newMemClientRepository(),
		ProjectRepo:      projects,
		TaskRepo:         tasks,
		DocumentRepo:     newMemDocumentRepository(),
		NotificationRepo: newMemNotificationRepository(),
	}
}

// NewPgRepositories creates PostgreSQL-backed repositories.
func NewPgRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepo:         &pgUserRepository{pool: pool},
		ClientRepo:       &pgClientRepository{pool: pool},
		ProjectRepo:      &pgProjectRepository{pool: pool},
		TaskRepo:         &pgTaskRepository{pool: pool},
		DocumentRepo:     &pgDocumentRepository{pool: pool},
		NotificationRepo: &pgNotificationRepository{pool: pool},
	}
}
