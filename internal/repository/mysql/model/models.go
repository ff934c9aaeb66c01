package model

// All lists every table owned by this service, for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Post{},
		&Comment{},
		&Like{},
		&Bookmark{},
		&Follow{},
	}
}
