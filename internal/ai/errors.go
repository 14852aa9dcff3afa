package ai

import (
	"errors"

	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

var (
	ErrNoProvider    = errors.New("ai provider not configured")
	ErrEmptyResponse = models.ErrEmptyResponse
)

// ProviderError is the typed failure every provider returns for rejected calls.
type ProviderError = models.ProviderError
