package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store aggregates the repositories over one database handle.
type Store struct {
	Clients   *ClientRepo
	Channels  *ChannelRepo
	Providers *ProviderRepo
	Receivers *ReceiverRepo
	Templates *TemplateRepo
	Requests  *RequestRepo
}

func New(db *gorm.DB) *Store {
	return &Store{
		Clients:   &ClientRepo{db: db},
		Channels:  &ChannelRepo{db: db},
		Providers: &ProviderRepo{db: db},
		Receivers: &ReceiverRepo{db: db},
		Templates: &TemplateRepo{db: db},
		Requests:  &RequestRepo{db: db},
	}
}

// OpenPostgres connects to Postgres. Schema management is done separately
// with the migrations under migrations/.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// AutoMigrate creates the schema from the models. Used by tests; production
// deployments run the SQL migrations instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Client{},
		&Channel{},
		&Provider{},
		&Receiver{},
		&Template{},
		&Request{},
	)
}
