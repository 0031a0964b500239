package models

// Tag is a shared label. Names are globally unique.
type Tag struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(255);not null"`
}

// PostTag associates a post with a tag. The composite primary key keeps each
// (post, tag) pair unique.
type PostTag struct {
	PostID uint  `gorm:"primaryKey;autoIncrement:false"`
	TagID  uint  `gorm:"primaryKey;autoIncrement:false"`
	Post   *Post `gorm:"foreignKey:PostID;constraint:OnDelete:RESTRICT"`
	Tag    *Tag  `gorm:"foreignKey:TagID;constraint:OnDelete:RESTRICT"`
}

// TableName pins the join table name.
func (PostTag) TableName() string {
	return "post_tags"
}

// All lists every relation in migration order.
func All() []interface{} {
	return []interface{}{&User{}, &Tag{}, &Post{}, &PostTag{}}
}
