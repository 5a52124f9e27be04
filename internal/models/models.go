package models

// All lists every persisted entity, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Comment{},
		&Like{},
		&Follow{},
		&Notification{},
	}
}
