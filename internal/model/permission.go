package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Permission is a numeric capability code. The set is closed: values
// outside the declared constants are rejected on write.
type Permission int

const (
	CreateProfile Permission = iota
	ReadProfile
	UpdateProfile
	DeleteProfile
	CreateBlog
	ReadBlog
	UpdateBlog
	DeleteBlog
	PublishBlog
	AccessLogs
)

// Valid reports whether p is one of the declared permission codes.
func (p Permission) Valid() bool {
	return p >= CreateProfile && p <= AccessLogs
}

// PermissionList is stored as a JSON column.
type PermissionList []Permission

// Value implements driver.Valuer so the list round-trips through both
// struct writes and column-map updates.
func (l PermissionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *PermissionList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into PermissionList", src)
	}
}

// Valid reports whether every element is a declared permission code.
func (l PermissionList) Valid() bool {
	for _, p := range l {
		if !p.Valid() {
			return false
		}
	}
	return true
}

// Contains reports whether the list holds the given permission.
func (l PermissionList) Contains(p Permission) bool {
	for _, v := range l {
		if v == p {
			return true
		}
	}
	return false
}
