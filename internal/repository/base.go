// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"devconnector/internal/models"
	"devconnector/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxMutateAttempts bounds the optimistic retry loop. With N concurrent
// writers on one document each loses at most N-1 times.
const maxMutateAttempts = 10

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// internal wraps a driver error unless it is already an application error.
func internal(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}

// mutateVersioned runs load, apply and a compare-and-swap update until the
// update wins or attempts run out. version points at the document's counter.
// omit lists columns that never change after insert.
func mutateVersioned[T any](
	ctx context.Context,
	db *gorm.DB,
	collection string,
	load func(tx *gorm.DB) (*T, error),
	version func(*T) *int,
	apply func(*T) error,
	omit ...string,
) (*T, error) {
	defer observability.TrackQuery("mutate", collection)()

	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		doc, err := load(db.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		if err := apply(doc); err != nil {
			return nil, err
		}

		v := version(doc)
		prev := *v
		*v = prev + 1

		res := db.WithContext(ctx).
			Model(doc).
			Where("version = ?", prev).
			Select("*").
			Omit(append(omit, clause.Associations)...).
			Updates(doc)
		if res.Error != nil {
			return nil, models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 1 {
			return doc, nil
		}

		observability.WriteConflicts.WithLabelValues(collection).Inc()
	}
	return nil, models.ErrWriteConflict
}
