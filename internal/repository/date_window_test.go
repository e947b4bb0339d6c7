package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// The rollup key and the summary window must agree on which calendar day an
// instant belongs to, regardless of the server's location.
func TestDateWindowingIsUTCConsistent(t *testing.T) {
	jakarta := time.FixedZone("UTC+7", 7*3600)

	// 02:30 local on March 1st is still Feb 28th in UTC.
	local := time.Date(2026, 3, 1, 2, 30, 0, 0, jakarta)

	day := truncateToDate(local)
	start, end := dayBounds(local)

	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), day)
	assert.Equal(t, day, start)
	assert.Equal(t, day.AddDate(0, 0, 1), end)

	// A UTC instant in the same UTC day maps to the same key and window.
	utc := time.Date(2026, 2, 28, 19, 30, 0, 0, time.UTC)
	assert.Equal(t, day, truncateToDate(utc))
	utcStart, utcEnd := dayBounds(utc)
	assert.Equal(t, start, utcStart)
	assert.Equal(t, end, utcEnd)
}
