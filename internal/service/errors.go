package service

import (
	"errors"

	"gyandeep/internal/domain"
)

// wrapRepoError keeps domain errors from the repositories and wraps everything else.
func wrapRepoError(err error, message string) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return domain.NewInternalError(message, err)
}
