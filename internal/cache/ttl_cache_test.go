package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	segmentdomain "github.com/tollgrid/tollgrid/internal/segment/domain"
)

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, 50*time.Millisecond)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok)

	// Non-positive TTL is a no-op.
	c.Set("b", 2, 0)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestSegmentCache(t *testing.T) {
	c := NewSegmentCache()

	_, ok := c.GetSegment(10)
	assert.False(t, ok)

	c.SetSegment(segmentdomain.TollSegment{ID: 10, Name: "A10 Nord", LengthMeters: 50000, SectionType: "motorway"})
	segment, ok := c.GetSegment(10)
	assert.True(t, ok)
	assert.Equal(t, "A10 Nord", segment.Name)

	// Zero-ID rows never enter the cache.
	c.SetSegment(segmentdomain.TollSegment{})
	_, ok = c.GetSegment(0)
	assert.False(t, ok)

	c.SetByType(" Motorway ", []segmentdomain.TollSegment{{ID: 10}})
	listed, ok := c.GetByType("motorway")
	assert.True(t, ok)
	assert.Len(t, listed, 1)
}
