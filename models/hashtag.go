package models

// Hashtag is a free-form tag attached to posts. Names are not unique.
type Hashtag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;index" json:"name"`
}
