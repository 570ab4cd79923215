package user

const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleRep     = "Rep"
)

// Profile is the public projection of a user. It is what the session holds
// and what the API returns; the password hash never appears here.
type Profile struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Role       string `json:"role"`
	IsActive   bool   `json:"is_active"`
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
