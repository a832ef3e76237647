package database

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/voicemention/errors"
)

var busyMarkers = []string{"database is locked", "database table is locked", "sqlite_busy"}

// IsBusyError reports SQLite lock contention, which a retry can clear.
func IsBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range busyMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func IsNotFoundError(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// FromDatabase maps a GORM or SQLite error on resource to an AppError.
func FromDatabase(err error, resource string) *apperrors.AppError {
	switch {
	case err == nil:
		return nil
	case IsNotFoundError(err):
		return apperrors.NotFound(resource, "")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.New(apperrors.ErrCodeAlreadyExists,
			fmt.Sprintf("A %s with these details already exists.", resource), http.StatusConflict).WithCause(err)
	case IsBusyError(err):
		return apperrors.New(apperrors.ErrCodeDatabaseError,
			"Database is busy. Please try again.", http.StatusServiceUnavailable).WithCause(err)
	}
	return apperrors.DatabaseError(err)
}
