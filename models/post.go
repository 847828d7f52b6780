package models

import "time"

// Post represents content published by a user.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Photo     string    `gorm:"size:1024" json:"photo"` // storage path of the attached image, empty when none
	CreatedAt time.Time `gorm:"index" json:"date_posted"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Hashtags  []Hashtag `gorm:"many2many:post_hashtags;constraint:OnDelete:CASCADE;" json:"hashtags"`
}
