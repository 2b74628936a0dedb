package notification

import (
	"context"
	"fmt"

	"lon-tracker/internal/repository"
	"lon-tracker/internal/socket"
)

// Notification types
const (
	TypeTaskAssigned      = "TASK_ASSIGNED"
	TypeTaskCreated       = "TASK_CREATED"
	TypeTaskUpdated       = "TASK_UPDATED"
	TypeTaskStatusChanged = "TASK_STATUS_CHANGED"
	TypeTaskOverdue       = "TASK_OVERDUE"
	TypeProjectMember     = "PROJECT_MEMBER_ADDED"
	TypeDocumentAdded     = "DOCUMENT_ADDED"
)

// Service creates notifications and pushes them over WebSocket
type Service struct {
	notificationRepo repository.NotificationRepository
	broadcaster      *socket.Broadcaster
}

func NewService(notificationRepo repository.NotificationRepository) *Service {
	return &Service{notificationRepo: notificationRepo}
}

// SetBroadcaster wires the WebSocket broadcaster. Without one, notifications
// are persisted but not pushed in real time.
func (s *Service) SetBroadcaster(b *socket.Broadcaster) {
	s.broadcaster = b
}

func (s *Service) send(ctx context.Context, userID, notifType, message string) error {
	if userID == "" {
		return nil
	}

	n := &repository.Notification{
		UserID:  userID,
		Type:    notifType,
		Message: message,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}

	if s.broadcaster != nil {
		s.broadcaster.SendNotification(userID, map[string]interface{}{
			"id":        n.ID,
			"type":      n.Type,
			"message":   n.Message,
			"read":      n.Read,
			"createdAt": n.CreatedAt,
		})
	}
	return nil
}

func (s *Service) sendToUsers(ctx context.Context, userIDs []string, excludeUserID, notifType, message string) error {
	var errs []error
	seen := make(map[string]bool)

	for _, userID := range userIDs {
		if userID == "" || userID == excludeUserID || seen[userID] {
			continue
		}
		seen[userID] = true

		if err := s.send(ctx, userID, notifType, message); err != nil {
			errs = append(errs, fmt.Errorf("failed to notify user %s: %w", userID, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors sending notifications: %v", errs)
	}
	return nil
}

// ============================================
// Task Notifications
// ============================================

// SendTaskAssigned notifies a user they have been assigned a task
func (s *Service) SendTaskAssigned(ctx context.Context, userID, taskTitle string) error {
	return s.send(ctx, userID, TypeTaskAssigned,
		fmt.Sprintf("You have been assigned to task: %s", taskTitle))
}

// SendTaskCreated notifies project members about a new task
func (s *Service) SendTaskCreated(ctx context.Context, userIDs []string, creatorID, taskTitle string) error {
	return s.sendToUsers(ctx, userIDs, creatorID, TypeTaskCreated,
		fmt.Sprintf("New task created: %s", taskTitle))
}

// SendTaskUpdated notifies a user a task they care about changed
func (s *Service) SendTaskUpdated(ctx context.Context, userID, taskTitle string) error {
	return s.send(ctx, userID, TypeTaskUpdated,
		fmt.Sprintf("Task updated: %s", taskTitle))
}

// SendTaskStatusChanged notifies users about a status transition
func (s *Service) SendTaskStatusChanged(ctx context.Context, userIDs []string, excludeUserID, taskTitle, oldStatus, newStatus string) error {
	return s.sendToUsers(ctx, userIDs, excludeUserID, TypeTaskStatusChanged,
		fmt.Sprintf("Task '%s' moved from %s to %s", taskTitle, formatStatus(oldStatus), formatStatus(newStatus)))
}

// SendTaskOverdue reminds a user about an overdue task
func (s *Service) SendTaskOverdue(ctx context.Context, userID, taskTitle string, daysOverdue int) error {
	message := fmt.Sprintf("Task '%s' is %d days overdue", taskTitle, daysOverdue)
	if daysOverdue == 1 {
		message = fmt.Sprintf("Task '%s' is 1 day overdue", taskTitle)
	}
	return s.send(ctx, userID, TypeTaskOverdue, message)
}

// SendDocumentAdded notifies the task assignee about a new document
func (s *Service) SendDocumentAdded(ctx context.Context, userID, uploaderName, taskTitle string) error {
	return s.send(ctx, userID, TypeDocumentAdded,
		fmt.Sprintf("%s added a document to task: %s", uploaderName, taskTitle))
}

// ============================================
// Project Notifications
// ============================================

// SendProjectMemberAdded notifies a user they were added to a project team
func (s *Service) SendProjectMemberAdded(ctx context.Context, userID, projectName, adderName string) error {
	message := fmt.Sprintf("You have been added to project: %s", projectName)
	if adderName != "" {
		message = fmt.Sprintf("%s added you to project: %s", adderName, projectName)
	}
	return s.send(ctx, userID, TypeProjectMember, message)
}

// ============================================
// Helper Functions
// ============================================

func formatStatus(status string) string {
	statusMap := map[string]string{
		"todo":        "To Do",
		"in_progress": "In Progress",
		"review":      "Review",
		"done":        "Done",
	}
	if formatted, ok := statusMap[status]; ok {
		return formatted
	}
	return status
}
