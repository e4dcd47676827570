package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionList_Valid(t *testing.T) {
	assert.True(t, PermissionList{UpdateProfile, ReadBlog}.Valid())
	assert.False(t, PermissionList{UpdateProfile, Permission(99)}.Valid())
	assert.True(t, PermissionList{}.Valid())
}

func TestUser_EffectivePermissions(t *testing.T) {
	u := User{
		Role:               &Role{Permissions: PermissionList{ReadProfile, ReadBlog, CreateBlog}},
		ExtraPermissions:   PermissionList{UpdateProfile, ReadBlog},
		RemovedPermissions: PermissionList{CreateBlog},
	}

	effective := u.EffectivePermissions()
	assert.ElementsMatch(t, PermissionList{ReadProfile, ReadBlog, UpdateProfile}, effective)
}

func TestPermissionList_ValueScan(t *testing.T) {
	v, err := PermissionList{UpdateProfile, AccessLogs}.Value()
	assert.NoError(t, err)

	var got PermissionList
	assert.NoError(t, got.Scan(v))
	assert.Equal(t, PermissionList{UpdateProfile, AccessLogs}, got)

	var empty PermissionList
	assert.NoError(t, empty.Scan([]byte("[]")))
	assert.Empty(t, empty)
}
