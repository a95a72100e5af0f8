package models

// ForumPost is a doctor-authored discussion post. Posts are immutable once
// created; there is no moderation or ranking.
type ForumPost struct {
	BaseModel
	AuthorID string `gorm:"size:36;index;not null" json:"authorId"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`

	Author  User         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Replies []ForumReply `gorm:"foreignKey:PostID" json:"replies,omitempty"`
}

// ForumReply is a doctor's reply to a forum post. Immutable once created.
type ForumReply struct {
	BaseModel
	PostID   string `gorm:"size:36;index;not null" json:"postId"`
	AuthorID string `gorm:"size:36;index;not null" json:"authorId"`
	Content  string `gorm:"type:text;not null" json:"content"`

	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
