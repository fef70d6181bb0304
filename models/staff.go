package models

// StaffRole is carried in the session token; only staff roles pass the access guard.
type StaffRole string

const (
	StaffRoleAdmin StaffRole = "admin"
	StaffRoleStaff StaffRole = "staff"
)

func (r StaffRole) Valid() bool {
	return r == StaffRoleAdmin || r == StaffRoleStaff
}
