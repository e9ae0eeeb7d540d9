package sqldb

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Inkle_Social/internal/model"
)

type Options struct {
	MaxIdleConns int
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

// Open 根据 URL 前缀选择驱动：sqlite:// postgres:// postgresql:// mysql://
func Open(url string, opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(url)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Silent
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(opts.LogLevel),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	// sqlite 单写者；:memory: 每个连接是独立的库
	if strings.HasPrefix(url, "sqlite://") {
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func dialectorFor(url string) (gorm.Dialector, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), nil
	case strings.HasPrefix(url, "mysql://"):
		return mysql.Open(strings.TrimPrefix(url, "mysql://")), nil
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite://")), nil
	default:
		return nil, fmt.Errorf("unsupported database url %q: must start with sqlite://, postgres:// or mysql://", url)
	}
}

// AutoMigrate 自动建表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(model.Models()...)
}

// IsDuplicate 唯一索引冲突
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}
