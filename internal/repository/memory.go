package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// In-memory repositories back the test suite and the no-database fallback.
// They mirror the Postgres implementations' contracts, including the guarded
// status update.

// ============================================
// In-Memory User Repository
// ============================================

type memUserRepository struct {
	mu     sync.RWMutex
	users  map[string]*User
	tokens map[string]*RefreshToken
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{
		users:  make(map[string]*User),
		tokens: make(map[string]*RefreshToken),
	}
}

func (r *memUserRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (r *memUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepository) FindAll(_ context.Context) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var users []*User
	for _, user := range r.users {
		cp := *user
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (r *memUserRepository) Search(_ context.Context, query string) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q := strings.ToLower(query)
	var users []*User
	for _, user := range r.users {
		if strings.Contains(strings.ToLower(user.Name), q) ||
			strings.Contains(strings.ToLower(user.Email), q) {
			cp := *user
			users = append(users, &cp)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

func (r *memUserRepository) Update(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.UpdatedAt = time.Now()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepository) SaveRefreshToken(_ context.Context, token *RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = uuid.NewString()
	token.CreatedAt = time.Now()
	cp := *token
	r.tokens[token.Token] = &cp
	return nil
}

func (r *memUserRepository) FindRefreshToken(_ context.Context, token string) (*RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.tokens[token]
	if !ok {
		return nil, nil
	}
	cp := *rt
	return &cp, nil
}

func (r *memUserRepository) DeleteRefreshToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *memUserRepository) DeleteUserRefreshTokens(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, rt := range r.tokens {
		if rt.UserID == userID {
			delete(r.tokens, key)
		}
	}
	return nil
}

// ============================================
// In-Memory Client Repository
// ============================================

type memClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func newMemClientRepository() *memClientRepository {
	return &memClientRepository{clients: make(map[string]*Client)}
}

func (r *memClientRepository) Create(_ context.Context, client *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	client.ID = uuid.NewString()
	client.CreatedAt = time.Now()
	cp := *client
	r.clients[client.ID] = &cp
	return nil
}

func (r *memClientRepository) FindByID(_ context.Context, id string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *client
	return &cp, nil
}

func (r *memClientRepository) FindAll(_ context.Context) ([]*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var clients []*Client
	for _, client := range r.clients {
		cp := *client
		clients = append(clients, &cp)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Name < clients[j].Name })
	return clients, nil
}

func (r *memClientRepository) Update(_ context.Context, client *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *client
	r.clients[client.ID] = &cp
	return nil
}

func (r *memClientRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
	return nil
}

// ============================================
// In-Memory Project Repository
// ============================================

type memProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]*Project
}

func newMemProjectRepository() *memProjectRepository {
	return &memProjectRepository{projects: make(map[string]*Project)}
}

func copyProject(p *Project) *Project {
	cp := *p
	cp.TeamMemberIDs = append([]string{}, p.TeamMemberIDs...)
	return &cp
}

func (r *memProjectRepository) Create(_ context.Context, project *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project.ID = uuid.NewString()
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	r.projects[project.ID] = copyProject(project)
	return nil
}

func (r *memProjectRepository) FindByID(_ context.Context, id string) (*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	project, ok := r.projects[id]
	if !ok {
		return nil, nil
	}
	return copyProject(project), nil
}

func (r *memProjectRepository) FindByUserID(_ context.Context, userID string) ([]*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var projects []*Project
	for _, project := range r.projects {
		if project.ManagerID == userID || containsID(project.TeamMemberIDs, userID) {
			projects = append(projects, copyProject(project))
		}
	}
	sortProjects(projects)
	return projects, nil
}

func (r *memProjectRepository) FindManagedBy(_ context.Context, userID string) ([]*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var projects []*Project
	for _, project := range r.projects {
		if project.ManagerID == userID {
			projects = append(projects, copyProject(project))
		}
	}
	sortProjects(projects)
	return projects, nil
}

func (r *memProjectRepository) CountManagedBy(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, project := range r.projects {
		if project.ManagerID == userID {
			count++
		}
	}
	return count, nil
}

func (r *memProjectRepository) CountByClientID(_ context.Context, clientID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, project := range r.projects {
		if project.ClientID == clientID {
			count++
		}
	}
	return count, nil
}

func (r *memProjectRepository) Update(_ context.Context, project *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.projects[project.ID]
	if !ok {
		return nil
	}
	project.UpdatedAt = time.Now()
	updated := copyProject(project)
	updated.TeamMemberIDs = append([]string{}, existing.TeamMemberIDs...)
	r.projects[project.ID] = updated
	return nil
}

func (r *memProjectRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.projects, id)
	return nil
}

func (r *memProjectRepository) AddMember(_ context.Context, projectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[projectID]
	if !ok {
		return nil
	}
	if !containsID(project.TeamMemberIDs, userID) {
		project.TeamMemberIDs = append(project.TeamMemberIDs, userID)
	}
	return nil
}

func (r *memProjectRepository) RemoveMember(_ context.Context, projectID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[projectID]
	if !ok {
		return nil
	}
	members := project.TeamMemberIDs[:0]
	for _, id := range project.TeamMemberIDs {
		if id != userID {
			members = append(members, id)
		}
	}
	project.TeamMemberIDs = members
	return nil
}

// ============================================
// In-Memory Task Repository
// ============================================

type memTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*Task

	// projectLookup lets FindVisibleTo resolve membership without a join.
	projectLookup func(projectID string) *Project
}

func newMemTaskRepository() *memTaskRepository {
	return &memTaskRepository{tasks: make(map[string]*Task)}
}

// SetProjectLookup wires the visibility query to the project store. The
// in-memory container calls this once at construction.
func (r *memTaskRepository) SetProjectLookup(lookup func(projectID string) *Project) {
	r.projectLookup = lookup
}

func (r *memTaskRepository) Create(_ context.Context, task *Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task.ID = uuid.NewString()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.CreatedAt
	}
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *memTaskRepository) FindByID(_ context.Context, id string) (*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *task
	return &cp, nil
}

func (r *memTaskRepository) FindByProjectID(_ context.Context, projectID string, filters *TaskFilters) ([]*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var tasks []*Task
	for _, task := range r.tasks {
		if task.ProjectID != projectID {
			continue
		}
		if filters != nil {
			if filters.Status != "" && task.Status != filters.Status {
				continue
			}
			if filters.Priority != "" && task.Priority != filters.Priority {
				continue
			}
			if filters.Search != "" && !strings.Contains(strings.ToLower(task.Title), strings.ToLower(filters.Search)) {
				continue
			}
		}
		cp := *task
		tasks = append(tasks, &cp)
	}
	sortTasks(tasks)
	return tasks, nil
}

func (r *memTaskRepository) FindVisibleTo(_ context.Context, userID string) ([]*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var tasks []*Task
	for _, task := range r.tasks {
		visible := task.AssignedTo != nil && *task.AssignedTo == userID
		if !visible && r.projectLookup != nil {
			if project := r.projectLookup(task.ProjectID); project != nil {
				visible = project.ManagerID == userID || containsID(project.TeamMemberIDs, userID)
			}
		}
		if visible {
			cp := *task
			tasks = append(tasks, &cp)
		}
	}
	sortTasks(tasks)
	return tasks, nil
}

func (r *memTaskRepository) FindOpenEndedBefore(_ context.Context, date time.Time) ([]*Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var tasks []*Task
	for _, task := range r.tasks {
		if task.EndDate != nil && task.EndDate.Before(date) && task.Status != "done" {
			cp := *task
			tasks = append(tasks, &cp)
		}
	}
	sortTasks(tasks)
	return tasks, nil
}

func (r *memTaskRepository) Update(_ context.Context, task *Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *memTaskRepository) UpdateStatus(_ context.Context, id, from, to string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok || task.Status != from {
		return ErrStaleStatus
	}
	task.Status = to
	task.UpdatedAt = updatedAt
	return nil
}

func (r *memTaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tasks, id)
	return nil
}

// ============================================
// In-Memory Document Repository
// ============================================

type memDocumentRepository struct {
	mu   sync.RWMutex
	docs map[string]*TaskDocument
}

func newMemDocumentRepository() *memDocumentRepository {
	return &memDocumentRepository{docs: make(map[string]*TaskDocument)}
}

func (r *memDocumentRepository) Create(_ context.Context, doc *TaskDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc.ID = uuid.NewString()
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now()
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *memDocumentRepository) FindByID(_ context.Context, id string) (*TaskDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	cp := *doc
	return &cp, nil
}

func (r *memDocumentRepository) FindByTaskID(_ context.Context, taskID string) ([]*TaskDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var docs []*TaskDocument
	for _, doc := range r.docs {
		if doc.TaskID == taskID {
			cp := *doc
			docs = append(docs, &cp)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].UploadedAt.After(docs[j].UploadedAt) })
	return docs, nil
}

func (r *memDocumentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

// ============================================
// In-Memory Notification Repository
// ============================================

type memNotificationRepository struct {
	mu            sync.RWMutex
	notifications map[string]*Notification
}

func newMemNotificationRepository() *memNotificationRepository {
	return &memNotificationRepository{notifications: make(map[string]*Notification)}
}

func (r *memNotificationRepository) Create(_ context.Context, notification *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = uuid.NewString()
	notification.CreatedAt = time.Now()
	cp := *notification
	r.notifications[notification.ID] = &cp
	return nil
}

func (r *memNotificationRepository) FindByUserID(_ context.Context, userID string, unreadOnly bool) ([]*Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var notifications []*Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		cp := *n
		notifications = append(notifications, &cp)
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

func (r *memNotificationRepository) CountByUserID(_ context.Context, userID string) (int, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total, unread := 0, 0
	for _, n := range r.notifications {
		if n.UserID == userID {
			total++
			if !n.Read {
				unread++
			}
		}
	}
	return total, unread, nil
}

func (r *memNotificationRepository) MarkAsRead(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notifications[id]; ok && n.UserID == userID {
		n.Read = true
	}
	return nil
}

func (r *memNotificationRepository) MarkAllAsRead(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (r *memNotificationRepository) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n, ok := r.notifications[id]; ok && n.UserID == userID {
		delete(r.notifications, id)
	}
	return nil
}

// ============================================
// Helpers
// ============================================

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func sortProjects(projects []*Project) {
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
}

func sortTasks(tasks []*Task) {
	sort.Slice(tasks, func(i, j int) bool {
		ti, tj := tasks[i], tasks[j]
		switch {
		case ti.EndDate == nil && tj.EndDate == nil:
			return ti.CreatedAt.After(tj.CreatedAt)
		case ti.EndDate == nil:
			return false
		case tj.EndDate == nil:
			return true
		case !ti.EndDate.Equal(*tj.EndDate):
			return ti.EndDate.Before(*tj.EndDate)
		default:
			return ti.CreatedAt.After(tj.CreatedAt)
		}
	})
}
