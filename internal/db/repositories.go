package db

// Repositories provides access to all database repositories
type Repositories struct {
	Catalog  *CatalogRepository
	Settings *SettingsRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Catalog:  NewCatalogRepository(db),
		Settings: NewSettingsRepository(db),
	}
}
