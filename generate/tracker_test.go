package generate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDTrackerObserve(t *testing.T) {
	tr := NewIDTracker(0)

	assert.False(t, tr.Observe("users", "U001"))
	assert.True(t, tr.Observe("users", "U001"))
	// namespaces are independent
	assert.False(t, tr.Observe("products", "U001"))
	assert.Equal(t, 2, tr.Len())
}

func TestIDTrackerCapacity(t *testing.T) {
	tr := NewIDTracker(2)

	tr.Observe("users", "U001")
	tr.Observe("users", "U002")
	tr.Observe("users", "U003")

	assert.Equal(t, 2, tr.Len())
	// the oldest entry was evicted
	assert.False(t, tr.Observe("users", "U001"))
}
