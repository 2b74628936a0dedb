package socket

import "fmt"

// Broadcaster provides high-level methods for broadcasting events
type Broadcaster struct {
	hub *Hub
}

func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

// ============================================
// Notification Broadcasting
// ============================================

// SendNotification sends a notification to a specific user
func (b *Broadcaster) SendNotification(userID string, notification map[string]interface{}) {
	b.hub.SendToUser(userID, MessageNotification, notification)
}

// SendNotificationCount updates notification counts for a user
func (b *Broadcaster) SendNotificationCount(userID string, total, unread int) {
	b.hub.SendToUser(userID, MessageNotificationCount, map[string]interface{}{
		"total":  total,
		"unread": unread,
	})
}

// ============================================
// Task Broadcasting
// ============================================

// BroadcastTaskCreated broadcasts task creation to project members
func (b *Broadcaster) BroadcastTaskCreated(projectID string, task map[string]interface{}, excludeUserID string) {
	room := fmt.Sprintf("project:%s", projectID)
	b.hub.SendToRoom(room, MessageTaskCreated, task, excludeUserID)
}

// BroadcastTaskUpdated broadcasts task updates to project members
func (b *Broadcaster) BroadcastTaskUpdated(projectID string, task map[string]interface{}, excludeUserID string) {
	room := fmt.Sprintf("project:%s", projectID)
	b.hub.SendToRoom(room, MessageTaskUpdated, map[string]interface{}{
		"task":          task,
		"changedByUser": excludeUserID,
		"projectId":     projectID,
	}, excludeUserID)
}

// BroadcastTaskDeleted broadcasts task deletion to project members
func (b *Broadcaster) BroadcastTaskDeleted(projectID, taskID string, excludeUserID string) {
	room := fmt.Sprintf("project:%s", projectID)
	b.hub.SendToRoom(room, MessageTaskDeleted, map[string]interface{}{
		"taskId": taskID,
	}, excludeUserID)
}

// BroadcastTaskStatusChanged broadcasts a task status change to project members
func (b *Broadcaster) BroadcastTaskStatusChanged(projectID string, task map[string]interface{}, oldStatus, newStatus string, excludeUserID string) {
	room := fmt.Sprintf("project:%s", projectID)
	b.hub.SendToRoom(room, MessageTaskStatusChanged, map[string]interface{}{
		"task":          task,
		"oldStatus":     oldStatus,
		"newStatus":     newStatus,
		"changedByUser": excludeUserID,
	}, excludeUserID)
}

// BroadcastTaskAssigned notifies the assigned user
func (b *Broadcaster) BroadcastTaskAssigned(assigneeID string, task map[string]interface{}, assignedBy string) {
	b.hub.SendToUser(assigneeID, MessageTaskAssigned, map[string]interface{}{
		"task":       task,
		"assignedBy": assignedBy,
	})
}

// ============================================
// Project Broadcasting
// ============================================

// BroadcastProjectUpdated broadcasts project updates to project members
func (b *Broadcaster) BroadcastProjectUpdated(projectID string, project map[string]interface{}, excludeUserID string) {
	room := fmt.Sprintf("project:%s", projectID)
	b.hub.SendToRoom(room, MessageProjectUpdated, project, excludeUserID)
}

// BroadcastMemberAdded broadcasts team member addition to project members
func (b *Broadcaster) BroadcastMemberAdded(projectID string, member map[string]interface{}, excludeUserID string) {
	room := fmt.Sprintf("project:%s", projectID)
	b.hub.SendToRoom(room, MessageMemberAdded, map[string]interface{}{
		"projectId": projectID,
		"member":    member,
	}, excludeUserID)
}

// BroadcastMemberRemoved broadcasts team member removal to project members
func (b *Broadcaster) BroadcastMemberRemoved(projectID, userID string, excludeUserID string) {
	room := fmt.Sprintf("project:%s", projectID)
	b.hub.SendToRoom(room, MessageMemberRemoved, map[string]interface{}{
		"projectId": projectID,
		"userId":    userID,
	}, excludeUserID)
}

// ============================================
// Direct User Messaging
// ============================================

// SendToUsers sends a message to multiple specific users
func (b *Broadcaster) SendToUsers(userIDs []string, msgType MessageType, payload map[string]interface{}) {
	for _, userID := range userIDs {
		b.hub.SendToUser(userID, msgType, payload)
	}
}
