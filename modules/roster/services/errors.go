package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rosterhq/roster/modules/roster/domain/aggregates/personnel"
	"github.com/rosterhq/roster/modules/roster/domain/entities/blacklist"
	"github.com/rosterhq/roster/modules/roster/domain/entities/catalog"
)

type ServiceError struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func newServiceError(status int, code, message string, cause error) *ServiceError {
	return &ServiceError{Status: status, Code: code, Message: message, Cause: cause}
}

// Error codes surfaced to callers.
const (
	CodeInvalidBody      = "ROSTER_INVALID_BODY"
	CodeInvalidRef       = "ROSTER_INVALID_REF"
	CodeConflict         = "ROSTER_CONFLICT"
	CodeNotFound         = "ROSTER_NOT_FOUND"
	CodePolicyFailed     = "ROSTER_POLICY_FAILED"
	CodeStoreUnavailable = "ROSTER_STORE_UNAVAILABLE"
	CodeInternal         = "ROSTER_INTERNAL"
)

// IsServiceCode reports whether err carries the given service error code.
func IsServiceCode(err error, code string) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Code == code
}

func validationError(message string, cause error) *ServiceError {
	return newServiceError(http.StatusBadRequest, CodeInvalidBody, message, cause)
}

func invalidRefError(message string, cause error) *ServiceError {
	return newServiceError(http.StatusUnprocessableEntity, CodeInvalidRef, message, cause)
}

func conflictError(message string, cause error) *ServiceError {
	return newServiceError(http.StatusConflict, CodeConflict, message, cause)
}

func notFoundError(message string, cause error) *ServiceError {
	return newServiceError(http.StatusNotFound, CodeNotFound, message, cause)
}

// mapStoreError folds repository and driver errors into the service taxonomy.
// Errors that already carry a ServiceError pass through untouched.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}

	switch {
	case errors.Is(err, personnel.ErrNotFound):
		return notFoundError("personnel not found", err)
	case errors.Is(err, personnel.ErrEmployeeNotFound):
		return notFoundError("no active employee", err)
	case errors.Is(err, personnel.ErrStaleWrite):
		recordWriteConflict("stale")
		return conflictError("record changed concurrently", err)
	case errors.Is(err, blacklist.ErrNotFound):
		return notFoundError("blacklist entry not found", err)
	case errors.Is(err, catalog.ErrRankNotFound):
		return invalidRefError("unknown rank", err)
	case errors.Is(err, catalog.ErrSubdivisionNotFound):
		return invalidRefError("unknown subdivision", err)
	case errors.Is(err, catalog.ErrPositionNotFound):
		return invalidRefError("unknown position", err)
	case errors.Is(err, catalog.ErrPairingNotFound):
		return invalidRefError("position is not registered for subdivision", err)
	case errors.Is(err, pgx.ErrNoRows):
		return notFoundError("not found", err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		recordWriteConflict("unique")
		if strings.Contains(pgErr.ConstraintName, "employees_personnel_id") {
			return conflictError("an active employee already exists", err)
		}
		if strings.Contains(pgErr.ConstraintName, "blacklist_active") {
			return conflictError("an active blacklist entry already exists", err)
		}
		return conflictError("unique constraint violated", err)
	case "23503": // foreign_key_violation
		return invalidRefError("unknown reference", err)
	default:
		if isTransientPgCode(pgErr.Code) {
			return newServiceError(http.StatusServiceUnavailable, CodeStoreUnavailable,
				fmt.Sprintf("store unavailable (%s)", pgErr.Code), err)
		}
		return newServiceError(http.StatusInternalServerError, CodeInternal,
			fmt.Sprintf("database error (%s)", pgErr.Code), err)
	}
}

// isTransientPgCode covers serialization failures, deadlocks and the
// connection-exception class, all safe to retry.
func isTransientPgCode(code string) bool {
	if code == "40001" || code == "40P01" {
		return true
	}
	return strings.HasPrefix(code, "08")
}

// isRetryable reports whether the whole operation may be re-run against
// the store after backoff.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientPgCode(pgErr.Code)
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code == CodeStoreUnavailable
	}
	return false
}
