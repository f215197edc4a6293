package linkstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type linkRecord struct {
	Code      string    `gorm:"primaryKey;size:16"`
	Units     string    `gorm:"type:text;not null"`
	Formation string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (linkRecord) TableName() string { return "share_links" }

// Postgres stores links through gorm on a PostgreSQL database.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&linkRecord{}); err != nil {
		return nil, fmt.Errorf("migrate links: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Save(ctx context.Context, link Link) error {
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	rec := linkRecord{
		Code:      link.Code,
		Units:     link.Units,
		Formation: link.Formation,
		CreatedAt: link.CreatedAt,
	}
	if err := p.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrCodeTaken
		}
		return fmt.Errorf("insert link: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, code string) (Link, error) {
	var rec linkRecord
	err := p.db.WithContext(ctx).First(&rec, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Link{}, ErrLinkNotFound
	}
	if err != nil {
		return Link{}, fmt.Errorf("select link: %w", err)
	}
	return Link{
		Code:      rec.Code,
		Units:     rec.Units,
		Formation: rec.Formation,
		CreatedAt: rec.CreatedAt.UTC(),
	}, nil
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
