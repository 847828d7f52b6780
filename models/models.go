package models

// All lists every persisted model in dependency order for auto migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Hashtag{},
		&Post{},
		&Comment{},
		&Like{},
		&Dislike{},
		&Subscription{},
	}
}
