package models

// Post is a single article owned by exactly one author. Its tag set is
// derived from PostTag rows and is not stored on the post itself.
type Post struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	AuthorID uint   `json:"authorId" gorm:"not null;index"`
	Author   *User  `json:"-" gorm:"foreignKey:AuthorID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Title    string `json:"title" gorm:"type:varchar(255);not null"`
	Content  string `json:"content" gorm:"type:text;not null"`
	Active   bool   `json:"active" gorm:"not null;default:true"`
}

// PostView is the assembled, redacted representation of a post returned to
// callers. It never carries the author's foreign key or credentials.
type PostView struct {
	ID      uint          `json:"id"`
	Title   string        `json:"title"`
	Content string        `json:"content"`
	Active  bool          `json:"active"`
	Author  AuthorSummary `json:"author"`
	Tags    []Tag         `json:"tags"`
}

// HasTag reports whether the view carries a tag with the given name.
func (v PostView) HasTag(name string) bool {
	for _, t := range v.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// PostPatch is a field mask for partial post updates. A nil field is absent.
// Tags distinguishes "omitted" (nil) from "clear all" (pointer to empty slice).
type PostPatch struct {
	Title   *string
	Content *string
	Active  *bool
	Tags    *[]string
}

// Columns returns the present non-tag fields keyed by column name.
func (p PostPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Content != nil {
		cols["content"] = *p.Content
	}
	if p.Active != nil {
		cols["active"] = *p.Active
	}
	return cols
}

// ApplyTo copies the present non-tag fields onto post.
func (p PostPatch) ApplyTo(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Active != nil {
		post.Active = *p.Active
	}
}

// IsEmpty reports whether the patch changes nothing at all.
func (p PostPatch) IsEmpty() bool {
	return len(p.Columns()) == 0 && p.Tags == nil
}
