package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var allErrors = map[string]error{
	"not found":                     ErrNotFound,
	"invalid input":                 ErrInvalidInput,
	"empty query":                   ErrEmptyQuery,
	"embedding service unavailable": ErrEmbeddingUnavailable,
	"vector index unavailable":      ErrVectorIndexUnavailable,
	"embedding dimension mismatch":  ErrDimensionMismatch,
	"vector index closed":           ErrIndexClosed,
}

func TestErrors_Messages(t *testing.T) {
	for msg, err := range allErrors {
		t.Run(msg, func(t *testing.T) {
			assert.EqualError(t, err, msg)
		})
	}
}

func TestErrors_SurviveWrapping(t *testing.T) {
	for msg, err := range allErrors {
		t.Run(msg, func(t *testing.T) {
			wrapped := fmt.Errorf("importing standup.txt: %w", err)
			assert.ErrorIs(t, wrapped, err)
			assert.Contains(t, wrapped.Error(), msg)
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	for nameA, a := range allErrors {
		for nameB, b := range allErrors {
			if nameA != nameB {
				assert.False(t, errors.Is(a, b), "%q should not match %q", nameA, nameB)
			}
		}
	}
}
