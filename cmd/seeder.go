package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pagecraft/pagecraft/internal/core/datamodel"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with baseline data",
	Long:  `Seed permissions, configs, email templates and an administrator account.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := initGorm(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{
				"user_permissions", "group_permissions", "group_users",
				"company_invited_users", "template_categories_assoc",
			} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared association tables")
		}

		seedPermissions(db)
		seedConfigs(db)
		seedEmailTemplates(db)
		seedAdminUser(db)

		fmt.Println("Seeding complete")
	},
}

func seedPermissions(db *gorm.DB) {
	permissions := []struct {
		Codename string
		Name     string
	}{
		{"storages.add_storage", "Can add storage"},
		{"storages.change_storage", "Can change storage"},
		{"storages.delete_storage", "Can delete storage"},
		{"templates.add_template", "Can add template"},
		{"templates.change_template", "Can change template"},
		{"templates.delete_template", "Can delete template"},
		{"companies.change_company", "Can change company"},
		{"companies.delete_company", "Can delete company"},
		{"groups.add_group", "Can add group"},
		{"groups.change_group", "Can change group"},
		{"groups.delete_group", "Can delete group"},
	}

	for _, p := range permissions {
		var existing datamodel.Permission
		err := db.First(&existing, "codename = ? AND company_id IS NULL", p.Codename).Error
		if err == nil {
			continue
		}
		if err := db.Create(&datamodel.Permission{Codename: p.Codename, Name: p.Name}).Error; err != nil {
			log.Fatalf("failed to seed permission %s: %v", p.Codename, err)
		}
		fmt.Println("Seeded permission:", p.Codename)
	}
}

func seedConfigs(db *gorm.DB) {
	configs := []datamodel.Config{
		{KeyName: "SENDER_EMAIL", Title: "Sender Email", Value: "noreply@pagecraft.io"},
		{KeyName: "SENDER_NAME", Title: "Sender Name", Value: "PageCraft"},
	}

	for _, c := range configs {
		var existing datamodel.Config
		if err := db.First(&existing, "key_name = ?", c.KeyName).Error; err == nil {
			continue
		}
		if err := db.Create(&c).Error; err != nil {
			log.Fatalf("failed to seed config %s: %v", c.KeyName, err)
		}
		fmt.Println("Seeded config:", c.KeyName)
	}
}

func seedEmailTemplates(db *gorm.DB) {
	templates := []datamodel.EmailTemplate{
		{
			KeyName:  "send_activation_email",
			Title:    "Activate your account",
			Template: `<p>Welcome! Activate your account here: {activation_link}</p>`,
		},
		{
			KeyName:  "reset_password_email",
			Title:    "Reset your password",
			Template: `<p>Reset your password here: {reset_link}</p>`,
		},
		{
			KeyName:  "old_user_invite_email",
			Title:    "You have been invited to {company_name}",
			Template: `<p>You have been added to {company_name}.</p>`,
		},
		{
			KeyName:  "new_user_invite_email",
			Title:    "You have been invited to {company_name}",
			Template: `<p>You have been invited to {company_name}. Set up your account here: {invite_link}</p>`,
		},
	}

	for _, t := range templates {
		var existing datamodel.EmailTemplate
		if err := db.First(&existing, "key_name = ?", t.KeyName).Error; err == nil {
			continue
		}
		if err := db.Create(&t).Error; err != nil {
			log.Fatalf("failed to seed email template %s: %v", t.KeyName, err)
		}
		fmt.Println("Seeded email template:", t.KeyName)
	}
}

func seedAdminUser(db *gorm.DB) {
	adminEmail := "admin@pagecraft.io"

	var existing datamodel.User
	if err := db.First(&existing, "email = ?", adminEmail).Error; err == nil {
		fmt.Println("Admin user already exists:", adminEmail)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	admin := &datamodel.User{
		Email:           adminEmail,
		Username:        adminEmail,
		FirstName:       "Platform",
		LastName:        "Admin",
		PasswordHash:    string(hash),
		IsActive:        true,
		IsAdministrator: true,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}
	fmt.Println("Seeded admin user:", adminEmail)
}
