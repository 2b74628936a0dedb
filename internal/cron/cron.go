package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"lon-tracker/internal/config"
	"lon-tracker/internal/email"
	"lon-tracker/internal/notification"
	"lon-tracker/internal/repository"
	"lon-tracker/internal/workflow"
)

// Scheduler runs the daily overdue task sweep
type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.Config
	notifSvc *notification.Service
	emailSvc *email.Service
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewScheduler creates a new scheduler. emailSvc may be nil when SMTP is not
// configured; overdue reminders are then notification-only.
func NewScheduler(cfg *config.Config, notifSvc *notification.Service, emailSvc *email.Service, taskRepo repository.TaskRepository, userRepo repository.UserRepository) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		cfg:      cfg,
		notifSvc: notifSvc,
		emailSvc: emailSvc,
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run every day at 9 AM - Overdue task check
	s.cron.AddFunc("0 9 * * *", func() {
		log.Println("[Cron] Running overdue task check...")
		s.checkOverdueTasks()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

// checkOverdueTasks finds unfinished tasks past their end date and reminds
// the assignees, one notification per task and one digest email per user.
func (s *Scheduler) checkOverdueTasks() {
	ctx := context.Background()
	now := time.Now()

	tasks, err := s.taskRepo.FindOpenEndedBefore(ctx, now)
	if err != nil {
		log.Printf("[Cron] Error finding overdue tasks: %v", err)
		return
	}

	perUser := make(map[string][]email.OverdueTask)

	for _, task := range tasks {
		if task.AssignedTo == nil || !workflow.IsOverdue(task, now) {
			continue
		}

		daysOverdue := workflow.DelayDays(task, now)
		if daysOverdue < 1 {
			continue
		}

		if err := s.notifSvc.SendTaskOverdue(ctx, *task.AssignedTo, task.Title, daysOverdue); err != nil {
			log.Printf("[Cron] Error sending overdue reminder for task %s: %v", task.ID, err)
			continue
		}

		perUser[*task.AssignedTo] = append(perUser[*task.AssignedTo], email.OverdueTask{
			TaskTitle:   task.Title,
			DaysOverdue: daysOverdue,
		})
	}

	if s.emailSvc == nil {
		return
	}

	for userID, overdue := range perUser {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil || user == nil {
			continue
		}

		data := email.OverdueReminderData{
			UserName:     user.Name,
			Tasks:        overdue,
			DashboardURL: s.cfg.FrontendURL + "/tasks",
		}
		if err := s.emailSvc.SendOverdueReminder(user.Email, data); err != nil {
			log.Printf("[Cron] Error sending overdue email to %s: %v", user.Email, err)
		}
	}

	log.Printf("[Cron] Overdue check done: %d tasks, %d users notified", len(tasks), len(perUser))
}

// ManualTrigger allows manual triggering of the sweep (for testing)
func (s *Scheduler) ManualTrigger() {
	s.checkOverdueTasks()
}
