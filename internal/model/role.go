package model

// Role supplies the baseline permission set for its users. Roles are
// managed elsewhere; this module only reads them.
type Role struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Permissions PermissionList `json:"permissions" gorm:"type:json"`
}
