package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
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

		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			// Expenses first; users and categories are referenced by FK
			for _, table := range []string{"expenses", "users", "expense_categories", "roles"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		seedRoles(db)
		seedStatuses(db)
		seedCategories(db)
		seedUsers(db)

		fmt.Println("Database seeded successfully")
	},
}

func seedRoles(db *gorm.DB) {
	roles := []struct {
		Name string
		Desc string
	}{
		{"Employee", "Can create and submit expense claims"},
		{"Manager", "Can review submitted expense claims"},
	}

	for _, r := range roles {
		var exists int
		row := db.Raw("SELECT 1 FROM roles WHERE name = ?", r.Name).Row()
		if err := row.Scan(&exists); err != nil {
			if err := db.Exec("INSERT INTO roles (name, description) VALUES (?, ?)", r.Name, r.Desc).Error; err != nil {
				log.Fatalf("failed to insert role %s: %v", r.Name, err)
			}
			fmt.Printf("Seeded role: %s\n", r.Name)
		}
	}
}

func seedStatuses(db *gorm.DB) {
	statuses := []string{"Draft", "Submitted", "Approved", "Rejected"}

	for _, name := range statuses {
		var exists int
		row := db.Raw("SELECT 1 FROM expense_statuses WHERE name = ?", name).Row()
		if err := row.Scan(&exists); err != nil {
			if err := db.Exec("INSERT INTO expense_statuses (name) VALUES (?)", name).Error; err != nil {
				log.Fatalf("failed to insert status %s: %v", name, err)
			}
			fmt.Printf("Seeded status: %s\n", name)
		}
	}
}

func seedCategories(db *gorm.DB) {
	categories := []string{"Travel", "Meals", "Supplies", "Accommodation", "Other"}

	for _, name := range categories {
		var exists int
		row := db.Raw("SELECT 1 FROM expense_categories WHERE name = ?", name).Row()
		if err := row.Scan(&exists); err != nil {
			if err := db.Exec("INSERT INTO expense_categories (name, is_active) VALUES (?, true)", name).Error; err != nil {
				log.Fatalf("failed to insert expense category %s: %v", name, err)
			}
			fmt.Printf("Seeded expense category: %s\n", name)
		}
	}
}

func seedUsers(db *gorm.DB) {
	var managerRoleID, employeeRoleID int64
	if err := db.Raw("SELECT id FROM roles WHERE name = ?", "Manager").Row().Scan(&managerRoleID); err != nil {
		log.Fatalf("manager role not found: %v", err)
	}
	if err := db.Raw("SELECT id FROM roles WHERE name = ?", "Employee").Row().Scan(&employeeRoleID); err != nil {
		log.Fatalf("employee role not found: %v", err)
	}

	managerEmail := "dana.whitfield@example.com"
	var exists int
	if err := db.Raw("SELECT 1 FROM users WHERE email = ?", managerEmail).Row().Scan(&exists); err != nil {
		if err := db.Exec(
			"INSERT INTO users (name, email, role_id, manager_id, is_active, created_at) VALUES (?, ?, ?, NULL, true, now())",
			"Dana Whitfield", managerEmail, managerRoleID,
		).Error; err != nil {
			log.Fatalf("failed to insert manager user: %v", err)
		}
		fmt.Println("Seeded manager user:", managerEmail)
	}

	var managerID int64
	if err := db.Raw("SELECT id FROM users WHERE email = ?", managerEmail).Row().Scan(&managerID); err != nil {
		log.Fatalf("failed to lookup manager id: %v", err)
	}

	employeeEmail := "sam.okafor@example.com"
	if err := db.Raw("SELECT 1 FROM users WHERE email = ?", employeeEmail).Row().Scan(&exists); err != nil {
		if err := db.Exec(
			"INSERT INTO users (name, email, role_id, manager_id, is_active, created_at) VALUES (?, ?, ?, ?, true, now())",
			"Sam Okafor", employeeEmail, employeeRoleID, managerID,
		).Error; err != nil {
			log.Fatalf("failed to insert employee user: %v", err)
		}
		fmt.Println("Seeded employee user:", employeeEmail)
	}
}
