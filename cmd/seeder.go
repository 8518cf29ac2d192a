package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/contractor-management/internal/workflow"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"notifications", "salary_payment_requests", "quotations", "rfqs", "employees", "users", "sequences"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		users := []struct {
			Email string
			Name  string
			Role  workflow.Role
		}{
			{"owner@contractor.test", "Wim", workflow.RoleContractor},
			{"senior@contractor.test", "Sanne", workflow.RoleSeniorManager},
			{"junior@contractor.test", "Joris", workflow.RoleJuniorManager},
			{"artisan@contractor.test", "Ahmed", workflow.RoleArtisan},
		}

		for _, u := range users {
			var exists int
			if err := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row().Scan(&exists); err == nil {
				fmt.Println("user already exists, skipping:", u.Email)
				continue
			}
			if err := db.Exec(
				"INSERT INTO users (email, name, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
				u.Email, u.Name, string(hash), string(u.Role)).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email, "role:", u.Role)
		}

		employees := []struct {
			Name          string
			Email         string
			MonthlySalary int64
			PaymentDay    int
		}{
			{"Ahmed", "artisan@contractor.test", 320000, 25},
			{"Bram", "bram@contractor.test", 298000, 31},
			{"Carla", "carla@contractor.test", 275000, 1},
		}

		for _, e := range employees {
			var exists int
			if err := db.Raw("SELECT 1 FROM employees WHERE email = ?", e.Email).Row().Scan(&exists); err == nil {
				fmt.Println("employee already exists, skipping:", e.Email)
				continue
			}
			if err := db.Exec(
				"INSERT INTO employees (name, email, monthly_salary, monthly_payment_day, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
				e.Name, e.Email, e.MonthlySalary, e.PaymentDay).Error; err != nil {
				log.Fatalf("failed to insert employee %s: %v", e.Email, err)
			}
			fmt.Println("Seeded employee:", e.Email, "payment day:", e.PaymentDay)
		}

		fmt.Println("Seeding complete")
	},
}
