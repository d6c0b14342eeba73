package domain

import "time"

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                         // Primary key
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"` // Unique, lower-cased username
	Email     string    `gorm:"size:191;uniqueIndex;not null" json:"email"`   // Unique, lower-cased email
	Password  string    `gorm:"not null" json:"-"`                            // Hashed password
	Fullname  string    `gorm:"size:128" json:"fullname"`                     // Display name
	Avatar    string    `gorm:"size:512" json:"avatar"`                       // Avatar URL
	Role      string    `gorm:"size:16;default:user" json:"role"`             // Role: user or admin
	Accounts  []Account `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile is the public view of a user returned by auth and profile endpoints
type Profile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

// Profile returns the public view of the user
func (u User) Profile() Profile {
	return Profile{
		ID:       u.ID,
		Username: u.Username,
		Fullname: u.Fullname,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Role:     u.Role,
	}
}
