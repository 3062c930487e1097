package model

import (
	"time"

	"task-manager.com/task-manager/internal/constants"
)

type User struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Email           string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password        string         `gorm:"not null" json:"-"`
	ProfileImageURL *string        `json:"profileImageUrl"`
	Role            constants.Role `gorm:"type:varchar(10);not null" json:"role"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role.Normalize() == constants.RoleAdmin
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
	}
}

type UserSummary struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// UserWithTaskCounts is a user plus the status breakdown of tasks assigned to them.
type UserWithTaskCounts struct {
	User
	PendingTasks    int `json:"pendingTasks"`
	InProgressTasks int `json:"inProgressTasks"`
	CompletedTasks  int `json:"completedTasks"`
}
