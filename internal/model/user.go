package model

import (
	"time"

	"gorm.io/gorm"
)

// DefaultBio is stored when a user is created without a bio.
const DefaultBio = "error 404: bio not found :)"

// User represents one account. The password field always holds a bcrypt
// hash, never plaintext, and is excluded from JSON.
type User struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	Name               string         `json:"name" gorm:"size:255;not null"`
	Email              string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password           string         `json:"-" gorm:"size:255;not null"`
	Bio                string         `json:"bio" gorm:"size:1024"`
	RefreshToken       *string        `json:"-" gorm:"size:512"`
	PasswordResetToken *string        `json:"-" gorm:"size:512"`
	RoleID             uint           `json:"role_id"`
	Role               *Role          `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	ExtraPermissions   PermissionList `json:"extra_permissions" gorm:"type:json"`
	RemovedPermissions PermissionList `json:"removed_permissions" gorm:"type:json"`
	DateJoined         time.Time      `json:"date_joined" gorm:"autoCreateTime;<-:create"`
	Show               bool           `json:"show" gorm:"default:false"`
	TeamRole           TeamRole       `json:"team_role" gorm:"default:0"`
}

// BeforeCreate fills the bio placeholder. DateJoined is stamped by GORM
// and never updated afterwards.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Bio == "" {
		u.Bio = DefaultBio
	}
	return nil
}

// EffectivePermissions resolves role defaults plus extra permissions
// minus removed ones. Requires the Role relation to be loaded.
func (u *User) EffectivePermissions() PermissionList {
	var base PermissionList
	if u.Role != nil {
		base = u.Role.Permissions
	}
	out := make(PermissionList, 0, len(base)+len(u.ExtraPermissions))
	for _, p := range base {
		if !u.RemovedPermissions.Contains(p) {
			out = append(out, p)
		}
	}
	for _, p := range u.ExtraPermissions {
		if !out.Contains(p) && !u.RemovedPermissions.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}
