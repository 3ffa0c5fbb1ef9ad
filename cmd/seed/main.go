package main

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tempus/internal/config"
	"tempus/internal/db"
	"tempus/internal/model"
	"tempus/internal/repository"
)

const (
	demoEmail    = "demo@tempus.local"
	demoPassword = "demo1234"
	demoName     = "Demo"
)

// Seeds a demo user with two projects, a few finished sessions, one
// running session and a couple of notes. Safe to re-run: it exits if
// the demo user already exists.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.TimeSession{},
		&model.Note{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)

	if _, err := userRepo.FindByEmail(ctx, demoEmail); err == nil {
		log.Printf("Demo user %s already exists, nothing to do", demoEmail)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check demo user: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &model.User{
		Email:        demoEmail,
		PasswordHash: string(hash),
		Name:         demoName,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	projectRepo := repository.NewProjectRepository(gormDB)
	book := &model.Project{UserID: user.ID, Name: "Book", Description: "Writing sessions, chapter by chapter"}
	website := &model.Project{UserID: user.ID, Name: "Website", Description: "Portfolio redesign"}
	for _, project := range []*model.Project{book, website} {
		if err := projectRepo.Create(ctx, project); err != nil {
			log.Fatalf("Failed to create project %q: %v", project.Name, err)
		}
	}

	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	twoDaysAgo := now.Add(-48 * time.Hour)

	sessions := []model.TimeSession{
		{
			ProjectID: book.ID,
			UserID:    user.ID,
			StartTime: twoDaysAgo,
			EndTime:   timePtr(twoDaysAgo.Add(90 * time.Minute)),
			Comment:   "chapter 1",
		},
		{
			ProjectID: book.ID,
			UserID:    user.ID,
			StartTime: yesterday,
			EndTime:   timePtr(yesterday.Add(2 * time.Hour)),
			Comment:   "chapter 2",
		},
		{
			ProjectID: website.ID,
			UserID:    user.ID,
			StartTime: now.Add(-30 * time.Minute),
			// Still running
		},
	}
	for i := range sessions {
		if err := gormDB.WithContext(ctx).Create(&sessions[i]).Error; err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
	}

	noteRepo := repository.NewNoteRepository(gormDB)
	notes := []string{
		"Remember to review chapter 1 before writing chapter 3",
		"Check hosting options for the portfolio",
	}
	for _, content := range notes {
		if err := noteRepo.Create(ctx, &model.Note{UserID: user.ID, Content: content}); err != nil {
			log.Fatalf("Failed to create note: %v", err)
		}
	}

	log.Println("Seed completed successfully!")
	log.Printf("  - Demo user: %s / %s", demoEmail, demoPassword)
	log.Printf("  - Projects: %d, sessions: %d, notes: %d", 2, len(sessions), len(notes))
}

func timePtr(t time.Time) *time.Time {
	return &t
}
