package domain

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// User is the canonical identity record consumed by login and attribution.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is the editable denormalized copy living in settings. The sync
// guard pushes it onto the admin User row, never the other way around.
type Profile struct {
	Name   string `json:"name" bson:"name"`
	Email  string `json:"email" bson:"email"`
	Avatar string `json:"avatar" bson:"avatar"`
}

func (u *User) Profile() Profile {
	return Profile{Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}

// Equal is the loop-breaker check used by the profile sync guard: a write
// that would produce no change never happens.
func (p Profile) Equal(other Profile) bool {
	return p.Name == other.Name && p.Email == other.Email && p.Avatar == other.Avatar
}
