// internal/models/account.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Account is an authenticated principal of the request layer. Its Address is
// the opaque external identity the engine checks participants against; the
// engine itself never reads usernames or emails.
type Account struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Address      string     `json:"address" gorm:"uniqueIndex;size:128;not null"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

func (a *Account) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hashedPassword)
	return nil
}

func (a *Account) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
}
