// Package cache holds a small in-process TTL cache for room reads on the
// public browse path. Admin writes invalidate entries explicitly.
package cache

import (
	"strconv"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/stayware/booking-service/internal/models"
)

const maxRooms = 1000

type RoomCache struct {
	items *ccache.Cache[*models.Room]
	ttl   time.Duration
}

func NewRoomCache(ttl time.Duration) *RoomCache {
	return &RoomCache{
		items: ccache.New(ccache.Configure[*models.Room]().MaxSize(maxRooms)),
		ttl:   ttl,
	}
}

// Get returns the cached room or nil on miss/expiry.
func (c *RoomCache) Get(id uint) *models.Room {
	item := c.items.Get(key(id))
	if item == nil || item.Expired() {
		return nil
	}
	return item.Value()
}

func (c *RoomCache) Set(room *models.Room) {
	c.items.Set(key(room.ID), room, c.ttl)
}

func (c *RoomCache) Invalidate(id uint) {
	c.items.Delete(key(id))
}

func key(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
