package models

// User represents an author of the publishing service.
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password string `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Name     string `json:"name" gorm:"type:varchar(255)"`
	Location string `json:"location" gorm:"type:varchar(255)"`
	Active   bool   `json:"active" gorm:"not null;default:true"`
}

// AuthorSummary is the public projection of a User embedded in a PostView.
type AuthorSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// UserPatch carries the user fields to change. Nil fields are left untouched.
type UserPatch struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Active   *bool   `json:"active"`
}

// Columns returns the present fields keyed by column name.
func (p UserPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.Active != nil {
		cols["active"] = *p.Active
	}
	return cols
}

// UserProfile is a user together with the posts they authored.
type UserProfile struct {
	ID       uint       `json:"id"`
	Username string     `json:"username"`
	Name     string     `json:"name"`
	Location string     `json:"location"`
	Active   bool       `json:"active"`
	Posts    []PostView `json:"posts"`
}
