// Package email provides email sending functionality
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
)

// Config holds email configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	UseTLS   bool
}

// Service handles email sending
type Service struct {
	config    *Config
	templates map[string]*template.Template
}

func NewService(config *Config) *Service {
	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
	}
	s.loadTemplates()
	return s
}

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

func (s *Service) loadTemplates() {
	// Task Assigned Template
	s.templates["task_assigned"] = template.Must(template.New("task_assigned").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2563eb; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .task-card { background: white; border-radius: 8px; padding: 20px; margin: 20px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .btn { display: inline-block; background: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 15px; }
        .footer { text-align: center; color: #6b7280; font-size: 12px; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>📋 New Task Assigned</h1>
        </div>
        <div class="content">
            <p>Hi {{.AssigneeName}},</p>
            <p>You have been assigned a new task.</p>

            <div class="task-card">
                <h2>{{.TaskTitle}}</h2>
                <p><strong>Project:</strong> {{.ProjectName}}</p>
                <p><strong>Priority:</strong> {{.Priority}}</p>
                {{if .DueDate}}<p><strong>Due Date:</strong> {{.DueDate}}</p>{{end}}
            </div>

            <a href="{{.TaskURL}}" class="btn">View Task</a>
        </div>
        <div class="footer">
            <p>This email was sent from Lon Tracker</p>
        </div>
    </div>
</body>
</html>
`))

	// Overdue Task Reminder Template
	s.templates["task_overdue"] = template.Must(template.New("task_overdue").Parse(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #ef4444; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .task-list { background: white; border-radius: 8px; padding: 20px; margin: 20px 0; }
        .task-item { padding: 12px 0; border-bottom: 1px solid #e5e7eb; }
        .task-item:last-child { border-bottom: none; }
        .overdue { color: #ef4444; font-weight: bold; }
        .btn { display: inline-block; background: #ef4444; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin-top: 15px; }
        .footer { text-align: center; color: #6b7280; font-size: 12px; margin-top: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>⏰ Overdue Tasks</h1>
        </div>
        <div class="content">
            <p>Hi {{.UserName}},</p>
            <p>The following tasks are past their end date:</p>

            <div class="task-list">
                {{range .Tasks}}
                <div class="task-item">
                    <strong>{{.TaskTitle}}</strong><br/>
                    <span class="overdue">{{if eq .DaysOverdue 1}}1 day overdue{{else}}{{.DaysOverdue}} days overdue{{end}}</span>
                </div>
                {{end}}
            </div>

            <a href="{{.DashboardURL}}" class="btn">View My Tasks</a>
        </div>
        <div class="footer">
            <p>This email was sent from Lon Tracker</p>
        </div>
    </div>
</body>
</html>
`))
}

// Send sends an email
func (s *Service) Send(email *Email) error {
	if s.config.Host == "" {
		log.Println("Email not configured, skipping send")
		return nil
	}

	var msg bytes.Buffer

	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody != "" {
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.HTMLBody)
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.Body)
	}

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if s.config.UseTLS {
		tlsConfig := &tls.Config{
			ServerName: s.config.Host,
		}

		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("TLS dial error: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, s.config.Host)
		if err != nil {
			return fmt.Errorf("SMTP client error: %w", err)
		}
		defer client.Close()

		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("auth error: %w", err)
		}

		if err = client.Mail(s.config.From); err != nil {
			return fmt.Errorf("mail error: %w", err)
		}

		for _, rcpt := range email.To {
			if err = client.Rcpt(rcpt); err != nil {
				return fmt.Errorf("rcpt error: %w", err)
			}
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("data error: %w", err)
		}

		if _, err = w.Write(msg.Bytes()); err != nil {
			return fmt.Errorf("write error: %w", err)
		}

		if err = w.Close(); err != nil {
			return fmt.Errorf("close error: %w", err)
		}

		return client.Quit()
	}

	return smtp.SendMail(addr, auth, s.config.From, email.To, msg.Bytes())
}

// SendWithTemplate sends an email using a template
func (s *Service) SendWithTemplate(to []string, subject, templateName string, data interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	return s.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: body.String(),
	})
}

// ============================================
// Convenience Methods
// ============================================

// TaskAssignedData holds data for task assigned email
type TaskAssignedData struct {
	AssigneeName string
	TaskTitle    string
	ProjectName  string
	Priority     string
	DueDate      string
	TaskURL      string
}

// SendTaskAssigned sends a task assigned email
func (s *Service) SendTaskAssigned(to string, data TaskAssignedData) error {
	return s.SendWithTemplate(
		[]string{to},
		fmt.Sprintf("[Lon Tracker] Task Assigned: %s", data.TaskTitle),
		"task_assigned",
		data,
	)
}

// OverdueTask holds task info for the overdue reminder
type OverdueTask struct {
	TaskTitle   string
	DaysOverdue int
}

// OverdueReminderData holds data for the overdue reminder email
type OverdueReminderData struct {
	UserName     string
	Tasks        []OverdueTask
	DashboardURL string
}

// SendOverdueReminder sends an overdue tasks reminder email
func (s *Service) SendOverdueReminder(to string, data OverdueReminderData) error {
	return s.SendWithTemplate(
		[]string{to},
		"[Lon Tracker] Overdue Task Reminder",
		"task_overdue",
		data,
	)
}
