package database

import (
	"context"
	"errors"
	"time"

	applogger "github.com/harshnandal981/Advermo-sub000/pkg/logger"

	"gorm.io/gorm"
)

const (
	queryStartKey      = "advermo:query_start"
	slowQueryThreshold = 200 * time.Millisecond
)

// registerQueryLogging reports failed and slow statements through the application logger.
func registerQueryLogging(db *gorm.DB) error {
	log := applogger.GetDefault()

	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(tx *gorm.DB) {
		value, ok := tx.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := value.(time.Time)
		if !ok {
			return
		}
		duration := time.Since(start)

		ctx := tx.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		query := tx.Statement.SQL.String()

		switch {
		case tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound):
			log.LogDBQuery(ctx, query, duration, tx.Error)
		case duration >= slowQueryThreshold:
			log.LogSlowQuery(ctx, query, duration)
		}
	}

	callbacks := db.Callback()
	errs := []error{
		callbacks.Create().Before("gorm:create").Register("advermo:before_create", before),
		callbacks.Create().After("gorm:create").Register("advermo:after_create", after),
		callbacks.Query().Before("gorm:query").Register("advermo:before_query", before),
		callbacks.Query().After("gorm:query").Register("advermo:after_query", after),
		callbacks.Update().Before("gorm:update").Register("advermo:before_update", before),
		callbacks.Update().After("gorm:update").Register("advermo:after_update", after),
		callbacks.Delete().Before("gorm:delete").Register("advermo:before_delete", before),
		callbacks.Delete().After("gorm:delete").Register("advermo:after_delete", after),
		callbacks.Raw().Before("gorm:raw").Register("advermo:before_raw", before),
		callbacks.Raw().After("gorm:raw").Register("advermo:after_raw", after),
		callbacks.Row().Before("gorm:row").Register("advermo:before_row", before),
		callbacks.Row().After("gorm:row").Register("advermo:after_row", after),
	}
	return errors.Join(errs...)
}
