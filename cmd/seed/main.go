// Command seed creates the default admin accounts and plan catalogue.
// Running it twice is safe: existing users are kept and plans are refreshed.
package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/joho/godotenv"
	"go-simpler.org/env"

	"github.com/01moynul/strongx-golang/internal/database"
	"github.com/01moynul/strongx-golang/internal/logging"
	"github.com/01moynul/strongx-golang/internal/models"
)

type seedConfig struct {
	DatabaseDSN   string `env:"DB_DSN" default:"root:root@tcp(127.0.0.1:3306)/strongx?parseTime=true&multiStatements=true"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD" default:"admin123"`
	StaffPassword string `env:"SEED_STAFF_PASSWORD" default:"staff123"`
}

type seedUser struct {
	Email    string
	Name     string
	Role     string
	Password string
}

type seedPlan struct {
	Name        string
	Description string
	Price       float64
	Duration    int
	Features    models.StringList
}

var basicFeatures = []string{"Access to Gym Equipment", "Locker Room Access", "Free WiFi"}

func with(base []string, extra ...string) models.StringList {
	out := append([]string{}, base...)
	return append(out, extra...)
}

var plans = []seedPlan{
	{"Basic", "Perfect for beginners starting their fitness journey", 29, 30,
		with(basicFeatures)},
	{"Premium", "Most popular choice for dedicated fitness enthusiasts", 79, 30,
		with(basicFeatures, "All Group Classes", "2 PT Sessions/Month", "Swimming Pool")},
	{"Elite", "Ultimate experience with unlimited access to everything", 149, 30,
		with(basicFeatures, "All Group Classes", "Unlimited PT Sessions", "Swimming Pool", "Sauna & Spa")},
	{"Annual Basic", "One year of basic membership at a discounted rate", 290, 365,
		with(basicFeatures, "2 Free Months")},
	{"Annual Premium", "One year of premium membership at a discounted rate", 790, 365,
		with(basicFeatures, "All Group Classes", "2 PT Sessions/Month", "Swimming Pool", "2 Free Months")},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	logging.InitLogger("info", "text")

	var cfg seedConfig
	if err := env.Load(&cfg, nil); err != nil {
		log.Fatalf("Failed to load environment variables: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	users := []seedUser{
		{"admin@strongx.com", "Super Admin", models.RoleSuperAdmin, cfg.AdminPassword},
		{"staff@strongx.com", "Staff Member", models.RoleStaff, cfg.StaffPassword},
	}
	for _, u := range users {
		if err := seedUserRow(ctx, db, u); err != nil {
			slog.Error("Failed to seed user", "email", u.Email, "error", err)
			os.Exit(1)
		}
		slog.Info("Seeded user", "email", u.Email, "role", u.Role)
	}

	for _, p := range plans {
		if err := seedPlanRow(ctx, db, p); err != nil {
			slog.Error("Failed to seed plan", "name", p.Name, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("Seeded membership plans", "count", len(plans))
}

// seedUserRow inserts the user unless the email is already taken.
func seedUserRow(ctx context.Context, db *sql.DB, u seedUser) error {
	var password models.Password
	if err := password.Set(u.Password); err != nil {
		return err
	}
	now := time.Now()
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, TRUE, ?, ?)
		ON DUPLICATE KEY UPDATE id = id`,
		uuid.NewString(), u.Email, password.Hash, u.Name, u.Role, now, now)
	return err
}

// seedPlanRow upserts on the slug.
func seedPlanRow(ctx context.Context, db *sql.DB, p seedPlan) error {
	now := time.Now()
	_, err := db.ExecContext(ctx, `
		INSERT INTO membership_plans (id, name, slug, description, price, duration_days, features, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, TRUE, ?, ?)
		ON DUPLICATE KEY UPDATE
		  description = VALUES(description), price = VALUES(price),
		  duration_days = VALUES(duration_days), features = VALUES(features), updated_at = VALUES(updated_at)`,
		uuid.NewString(), p.Name, slug.Make(p.Name), p.Description, p.Price, p.Duration, p.Features, now, now)
	return err
}
