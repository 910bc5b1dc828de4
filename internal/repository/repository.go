package repository

import (
	"errors"

	"regulariza/pkg/apperror"

	"gorm.io/gorm"
)

// translateNotFound turns gorm's record-not-found into the typed domain
// error so callers can distinguish a stale reference from an I/O failure.
func translateNotFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFoundf(format, args...)
	}
	return apperror.Wrap(apperror.Storage, err, format, args...)
}
