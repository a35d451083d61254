package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/printhub/reporthub/models"
)

func TestDeriveStepsCompletionAndCurrent(t *testing.T) {
	for _, current := range statusSequence {
		curOrd, ok := Ordinal(current)
		assert.True(t, ok)

		steps := DeriveSteps(current)
		assert.Len(t, steps, 5)

		currentCount := 0
		for i, step := range steps {
			assert.Equal(t, i <= curOrd, step.Completed,
				"status=%s step=%s", current, step.Status)
			if step.Current {
				currentCount++
				assert.Equal(t, current, step.Status)
			}
		}
		assert.Equal(t, 1, currentCount, "status=%s", current)
	}
}

func TestDeriveStepsCancelled(t *testing.T) {
	// Cancelled has no ordinal on the forward path: the timeline renders with
	// no completed and no current step.
	steps := DeriveSteps(models.DeliveryStatusCancelled)
	assert.Len(t, steps, 5)
	for _, step := range steps {
		assert.False(t, step.Completed)
		assert.False(t, step.Current)
	}
}

func TestAdvanceForwardOnly(t *testing.T) {
	for i, from := range statusSequence {
		for j, to := range statusSequence {
			got, applied := Advance(from, to)
			if from == models.DeliveryStatusDelivered {
				assert.False(t, applied, "from=%s to=%s", from, to)
				assert.Equal(t, from, got)
				continue
			}
			if j > i {
				assert.True(t, applied, "from=%s to=%s", from, to)
				assert.Equal(t, to, got)
			} else {
				assert.False(t, applied, "from=%s to=%s", from, to)
				assert.Equal(t, from, got)
			}
		}
	}
}

func TestAdvanceSkippingStagesAllowedForward(t *testing.T) {
	got, applied := Advance(models.DeliveryStatusPending, models.DeliveryStatusOutForDelivery)
	assert.True(t, applied)
	assert.Equal(t, models.DeliveryStatusOutForDelivery, got)
}

func TestAdvanceCancellation(t *testing.T) {
	for _, from := range statusSequence {
		got, applied := Advance(from, models.DeliveryStatusCancelled)
		if from == models.DeliveryStatusDelivered {
			assert.False(t, applied, "from=%s", from)
			assert.Equal(t, from, got)
		} else {
			assert.True(t, applied, "from=%s", from)
			assert.Equal(t, models.DeliveryStatusCancelled, got)
		}
	}

	// Cancelled is terminal.
	got, applied := Advance(models.DeliveryStatusCancelled, models.DeliveryStatusDelivered)
	assert.False(t, applied)
	assert.Equal(t, models.DeliveryStatusCancelled, got)
}

func TestNextWalksTheFullPath(t *testing.T) {
	current := models.DeliveryStatusPending
	var visited []models.DeliveryStatus

	for {
		visited = append(visited, current)
		next, ok := Next(current)
		if !ok {
			break
		}
		current = next
	}

	assert.Equal(t, statusSequence, visited)

	_, ok := Next(models.DeliveryStatusCancelled)
	assert.False(t, ok)
}

func TestLegacyNamesPreserveOrdinals(t *testing.T) {
	want := []string{"pending", "printing", "printed", "shipped", "delivered"}
	for i, status := range statusSequence {
		assert.Equal(t, want[i], LegacyName(status))
	}
	assert.Equal(t, "cancelled", LegacyName(models.DeliveryStatusCancelled))
	assert.Equal(t, "unknown", LegacyName(models.DeliveryStatus("bogus")))
}

func TestBadgeLabels(t *testing.T) {
	assert.Equal(t, "Processing", BadgeLabel(models.DeliveryStatusPending))
	assert.Equal(t, "Out for Delivery", BadgeLabel(models.DeliveryStatusOutForDelivery))
	assert.Equal(t, "Unknown", BadgeLabel(models.DeliveryStatus("bogus")))
}
