package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitError_Messages(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	assert.Equal(t, "EPUB generation failed: boom", EpubGenerationFailed(cause).Error())
	assert.Equal(t, "Email failed: boom", DeliveryFailed(cause).Error())
	assert.Equal(t, "Unexpected error: boom", UnexpectedFailure(cause).Error())
	assert.ErrorIs(t, DeliveryFailed(cause), cause)
}

func TestAsUnitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("smtp 535")

	wrapped := fmt.Errorf("attempt: %w", DeliveryFailed(cause))
	got := AsUnitError(wrapped, FailureEpubGeneration)
	assert.Equal(t, FailureDelivery, got.Kind)
	assert.ErrorIs(t, got, cause)

	plain := AsUnitError(cause, FailureUnexpected)
	assert.Equal(t, FailureUnexpected, plain.Kind)
	assert.Equal(t, "Unexpected error: smtp 535", plain.Error())
}

func TestRunStats_Add(t *testing.T) {
	t.Parallel()

	var stats RunStats
	stats.Add(UnitDelivered)
	stats.Add(UnitDelivered)
	stats.Add(UnitFailed)
	stats.Add(UnitLocked)

	assert.Equal(t, 2, stats.Delivered)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Locked)
}

func TestHistoryRecords(t *testing.T) {
	t.Parallel()

	ok := SuccessRecord("user-1", 3, 7)
	assert.Equal(t, SendSuccess, ok.Status)
	assert.Equal(t, 7, *ok.IssueNumber)
	assert.Nil(t, ok.ErrorMessage)

	failed := FailedRecord("user-1", 3, "Email failed: timeout")
	assert.Equal(t, SendFailed, failed.Status)
	assert.Nil(t, failed.IssueNumber)
	assert.Equal(t, "Email failed: timeout", *failed.ErrorMessage)
	assert.Equal(t, 3, failed.ArticleCount)
}
