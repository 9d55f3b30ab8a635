package seeders

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/app/repositories"
	"github.com/shashiranjanraj/stockpile/config"
	"github.com/shashiranjanraj/stockpile/pkg/auth"
)

func init() {
	Register("admin-users", SeedAdminUsers)
}

// SeedAdminUsers upserts the admin credentials configured through the
// ADMIN_*/ADMIN2_* environment pairs. Passwords are bcrypt-hashed
// before they touch the database; re-running the seeder rotates the
// stored hash to the current env value.
func SeedAdminUsers(db *gorm.DB) error {
	creds := config.SeedCredentials()
	if len(creds) == 0 {
		fmt.Print("(no admin credentials configured) ")
		return nil
	}

	users := repositories.NewUserRepository(db)
	for _, c := range creds {
		hash, err := auth.HashPassword(c.Password)
		if err != nil {
			return fmt.Errorf("hash password for %q: %w", c.Username, err)
		}
		if err := users.SetPassword(c.Username, hash); err != nil {
			return fmt.Errorf("seed user %q: %w", c.Username, err)
		}
	}
	return nil
}
