package model

// TeamRole is the display role shown on the team page. The zero value
// hides the member from the page.
type TeamRole int

const (
	TeamRoleDoNotDisplay TeamRole = iota
	TeamRoleLead
	TeamRoleCoLead
	TeamRoleMentor
	TeamRoleDeveloper
	TeamRoleDesigner
	TeamRoleWriter
)

// Valid reports whether t is one of the declared display roles.
func (t TeamRole) Valid() bool {
	return t >= TeamRoleDoNotDisplay && t <= TeamRoleWriter
}
