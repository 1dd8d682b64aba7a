package admins

import "time"

// Admin is an account allowed into the content editor. Accounts come from
// two places: the bootstrap credentials in configuration, and SSO logins
// mapped from OIDC claims.
type Admin struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Sub          string    `bson:"sub,omitempty" json:"sub,omitempty"` // OIDC subject, empty for password accounts
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
