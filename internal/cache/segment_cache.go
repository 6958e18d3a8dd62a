package cache

import (
	"strconv"
	"strings"
	"time"

	segmentdomain "github.com/tollgrid/tollgrid/internal/segment/domain"
)

const (
	defaultSegmentTTL = 10 * time.Minute
	defaultListTTL    = 1 * time.Minute
)

// SegmentCache stores hot-path catalogue lookups. Segments change via
// operator tooling, not per passage, so short TTLs are enough.
type SegmentCache interface {
	GetSegment(id int64) (segmentdomain.TollSegment, bool)
	SetSegment(segment segmentdomain.TollSegment)
	GetByType(sectionType string) ([]segmentdomain.TollSegment, bool)
	SetByType(sectionType string, segments []segmentdomain.TollSegment)
}

type segmentCache struct {
	segments Cache[string, segmentdomain.TollSegment]
	lists    Cache[string, []segmentdomain.TollSegment]

	segmentTTL time.Duration
	listTTL    time.Duration
}

func NewSegmentCache() SegmentCache {
	return &segmentCache{
		segments:   NewTTLCache[string, segmentdomain.TollSegment](),
		lists:      NewTTLCache[string, []segmentdomain.TollSegment](),
		segmentTTL: defaultSegmentTTL,
		listTTL:    defaultListTTL,
	}
}

func (c *segmentCache) GetSegment(id int64) (segmentdomain.TollSegment, bool) {
	return c.segments.Get(strconv.FormatInt(id, 10))
}

func (c *segmentCache) SetSegment(segment segmentdomain.TollSegment) {
	if segment.ID == 0 {
		return
	}
	c.segments.Set(strconv.FormatInt(segment.ID, 10), segment, c.segmentTTL)
}

func (c *segmentCache) GetByType(sectionType string) ([]segmentdomain.TollSegment, bool) {
	return c.lists.Get(cacheKey(sectionType))
}

func (c *segmentCache) SetByType(sectionType string, segments []segmentdomain.TollSegment) {
	c.lists.Set(cacheKey(sectionType), segments, c.listTTL)
}

func cacheKey(parts ...string) string {
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		values = append(values, strings.ToLower(trimmed))
	}
	return strings.Join(values, "|")
}
