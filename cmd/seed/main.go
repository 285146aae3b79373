package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/model"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/sqlite"
)

// Seeds a development database with an admin, a supervisor, one intern,
// a project, and two weeks of logbook entries.
func main() {
	repo, err := sqlite.NewSQLiteStorage("file:interns.db?cache=shared&mode=rwc&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	ctx := context.Background()

	err = repo.WithTx(ctx, func(tx store.Repository) error {
		admin := &model.User{
			Name:         "System Admin",
			Email:        "admin@example.com",
			PasswordHash: mustHash("admin123"),
			Role:         model.RoleAdmin,
		}
		if err := tx.Users().Create(ctx, admin); err != nil {
			return err
		}

		supervisor := &model.User{
			Name:         "Dilini Perera",
			Email:        "supervisor@example.com",
			PasswordHash: mustHash("super123"),
			Role:         model.RoleSupervisor,
		}
		if err := tx.Users().Create(ctx, supervisor); err != nil {
			return err
		}

		intern := &model.User{
			Name:         "Kasun Silva",
			Email:        "intern@example.com",
			PasswordHash: mustHash("intern123"),
			Role:         model.RoleIntern,
		}
		if err := tx.Users().Create(ctx, intern); err != nil {
			return err
		}

		project := &model.Project{
			Name:        "Telemetry Dashboard",
			Description: "Internal dashboard for network telemetry visualisation",
			Status:      model.ProjectOngoing,
			CreatedBy:   supervisor.ID,
		}
		if err := tx.Projects().Create(ctx, project); err != nil {
			return err
		}

		if err := tx.Projects().Assign(ctx, project.ID, intern.ID); err != nil {
			return err
		}

		day := time.Now().UTC().AddDate(0, 0, -14)
		for i := 0; i < 14; i++ {
			entry := &model.LogbookEntry{
				UserID:      intern.ID,
				ProjectID:   project.ID,
				EntryDate:   day.AddDate(0, 0, i),
				Description: fmt.Sprintf("Worked on dashboard widget %d and reviewed API responses", i+1),
				HoursWorked: 7.5,
			}
			if i%5 == 4 {
				entry.Blockers = "Waiting on access to the staging environment"
			}
			if err := tx.Logbook().Create(ctx, entry); err != nil {
				return err
			}
		}

		fmt.Printf("Seeded users: admin=%d supervisor=%d intern=%d project=%d\n",
			admin.ID, supervisor.ID, intern.ID, project.ID)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	return string(hash)
}
