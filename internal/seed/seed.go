package seed

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"lon-tracker/internal/repository"
	"lon-tracker/internal/types"
)

// SeedData creates a small development dataset: three users, one client and
// two projects with tasks in every status column. Safe to skip when users
// already exist.
func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	existing, _ := repos.UserRepo.FindAll(ctx)
	if len(existing) > 0 {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] 🌱 Creating development data...")

	// ============================================
	// USERS
	// ============================================
	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	alice := &repository.User{
		Email:    "alice@lon-tracker.local",
		Password: string(password),
		Name:     "Alice Moreau",
		Function: stringPtr("Project Manager"),
	}
	repos.UserRepo.Create(ctx, alice)

	bruno := &repository.User{
		Email:    "bruno@lon-tracker.local",
		Password: string(password),
		Name:     "Bruno Keller",
		Function: stringPtr("Engineer"),
	}
	repos.UserRepo.Create(ctx, bruno)

	chloe := &repository.User{
		Email:    "chloe@lon-tracker.local",
		Password: string(password),
		Name:     "Chloé Perrin",
		Function: stringPtr("Designer"),
	}
	repos.UserRepo.Create(ctx, chloe)

	log.Println("[Seed] ✅ Created 3 users (password: password123)")

	// ============================================
	// CLIENT
	// ============================================
	client := &repository.Client{
		Name:    "Atelier Lumière",
		Email:   stringPtr("contact@atelier-lumiere.example"),
		Company: stringPtr("Atelier Lumière SARL"),
	}
	repos.ClientRepo.Create(ctx, client)

	// ============================================
	// PROJECTS
	// Alice manages both; Bruno and Chloé are team members on the first,
	// Bruno alone on the second.
	// ============================================
	now := time.Now()

	showroom := &repository.Project{
		Name:          "Showroom Renovation",
		Description:   stringPtr("Full renovation of the downtown showroom"),
		ClientID:      client.ID,
		Location:      "Lyon",
		Status:        types.ProjectInProgress,
		StartDate:     now.AddDate(0, -1, 0),
		EndDate:       now.AddDate(0, 2, 0),
		Budget:        decimal.NewFromInt(42000),
		ManagerID:     alice.ID,
		TeamMemberIDs: []string{bruno.ID, chloe.ID},
	}
	repos.ProjectRepo.Create(ctx, showroom)

	warehouse := &repository.Project{
		Name:          "Warehouse Extension",
		Description:   stringPtr("Extension study for the north warehouse"),
		ClientID:      client.ID,
		Location:      "Villeurbanne",
		Status:        types.ProjectSigned,
		StartDate:     now,
		EndDate:       now.AddDate(0, 6, 0),
		Budget:        decimal.NewFromInt(118500),
		ManagerID:     alice.ID,
		TeamMemberIDs: []string{bruno.ID},
	}
	repos.ProjectRepo.Create(ctx, warehouse)

	log.Println("[Seed] ✅ Created client and 2 projects")

	// ============================================
	// TASKS
	// ============================================
	pastEnd := now.AddDate(0, 0, -3)
	nearEnd := now.AddDate(0, 0, 7)
	farEnd := now.AddDate(0, 1, 0)

	tasks := []*repository.Task{
		{
			ProjectID:  showroom.ID,
			CreatedBy:  &alice.ID,
			AssignedTo: &bruno.ID,
			Title:      "Survey existing electrical wiring",
			Status:     types.StatusDone,
			Priority:   types.PriorityHigh,
			StartDate:  timePtr(now.AddDate(0, -1, 0)),
			EndDate:    &pastEnd,
		},
		{
			ProjectID:  showroom.ID,
			CreatedBy:  &alice.ID,
			AssignedTo: &chloe.ID,
			Title:      "Draft lighting concept",
			Status:     types.StatusReview,
			Priority:   types.PriorityMedium,
			EndDate:    &nearEnd,
		},
		{
			ProjectID:  showroom.ID,
			CreatedBy:  &alice.ID,
			AssignedTo: &bruno.ID,
			Title:      "Order display fixtures",
			Status:     types.StatusInProgress,
			Priority:   types.PriorityUrgent,
			EndDate:    &nearEnd,
		},
		{
			ProjectID: showroom.ID,
			CreatedBy: &alice.ID,
			Title:     "Plan opening event",
			Status:    types.StatusTodo,
			Priority:  types.PriorityLow,
			EndDate:   &farEnd,
		},
		{
			ProjectID:  warehouse.ID,
			CreatedBy:  &alice.ID,
			AssignedTo: &bruno.ID,
			Title:      "Soil analysis report",
			Status:     types.StatusTodo,
			Priority:   types.PriorityHigh,
			EndDate:    &farEnd,
		},
	}
	for _, t := range tasks {
		repos.TaskRepo.Create(ctx, t)
	}

	log.Printf("[Seed] ✅ Created %d tasks", len(tasks))
	log.Println("[Seed] 🎉 Seed complete")
}

func stringPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}
