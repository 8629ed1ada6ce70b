package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stayware/booking-service/internal/models"
)

func TestRoomCache_SetGet(t *testing.T) {
	c := NewRoomCache(time.Minute)

	assert.Nil(t, c.Get(1))

	c.Set(&models.Room{ID: 1, Name: "Sea View Suite", Price: 1000})
	room := c.Get(1)
	assert.NotNil(t, room)
	assert.Equal(t, "Sea View Suite", room.Name)
}

func TestRoomCache_Invalidate(t *testing.T) {
	c := NewRoomCache(time.Minute)
	c.Set(&models.Room{ID: 7, Name: "Garden Room"})

	c.Invalidate(7)
	assert.Nil(t, c.Get(7))

	// Invalidating an absent key is a no-op
	c.Invalidate(7)
}

func TestRoomCache_Expiry(t *testing.T) {
	c := NewRoomCache(10 * time.Millisecond)
	c.Set(&models.Room{ID: 3, Name: "Attic Loft"})

	time.Sleep(25 * time.Millisecond)
	assert.Nil(t, c.Get(3))
}
