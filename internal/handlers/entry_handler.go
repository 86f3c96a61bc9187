package handlers

import (
	"encoding/json"
	"net/http"

	"expiring-map-api/internal/cache"
	"expiring-map-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// EntryRequest is the payload for PUT and PATCH /api/entries/:key.
// Value may be any JSON document.
type EntryRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

// EntryResponse is returned for reads and writes of a single entry.
type EntryResponse struct {
	Key      string          `json:"key"`
	Value    json.RawMessage `json:"value"`
	Replaced *bool           `json:"replaced,omitempty"`
	Previous json.RawMessage `json:"previous,omitempty"`
}

// EntryHandler serves the shared expiring cache over HTTP.
type EntryHandler struct {
	Cache cache.Cache[string, json.RawMessage]
	Hub   *realtime.Hub
}

func (h *EntryHandler) publish(ev realtime.Event) {
	if h.Hub != nil {
		h.Hub.Publish(ev)
	}
}

/*
*
PutEntry handles PUT /api/entries/:key
Stores the value with the cache TTL, replacing whatever was there.
Responds 201 when no live value was replaced, 200 with the previous value otherwise.
*/
func (h *EntryHandler) PutEntry(c *gin.Context) {
	key := c.Param("key")
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. A JSON value is required.",
		})
		return
	}

	previous, replaced := h.Cache.Set(key, req.Value)
	h.publish(realtime.Event{Type: realtime.EventInserted, Key: key})

	resp := EntryResponse{Key: key, Value: req.Value, Replaced: &replaced}
	if !replaced {
		c.JSON(http.StatusCreated, resp)
		return
	}
	resp.Previous = previous
	c.JSON(http.StatusOK, resp)
}

/*
*
GetEntry handles GET /api/entries/:key
Missing and expired keys are both reported as 404.
*/
func (h *EntryHandler) GetEntry(c *gin.Context) {
	key := c.Param("key")
	value, ok := h.Cache.Get(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Entry not found",
		})
		return
	}
	c.JSON(http.StatusOK, EntryResponse{Key: key, Value: value})
}

/*
*
UpdateEntry handles PATCH /api/entries/:key
Replaces the value of a live entry in place. The entry keeps its original expiry.
*/
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	key := c.Param("key")
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. A JSON value is required.",
		})
		return
	}

	var previous json.RawMessage
	ok := h.Cache.Update(key, func(v *json.RawMessage) {
		previous = *v
		*v = req.Value
	})
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Entry not found",
		})
		return
	}
	h.publish(realtime.Event{Type: realtime.EventUpdated, Key: key})

	c.JSON(http.StatusOK, EntryResponse{Key: key, Value: req.Value, Previous: previous})
}

/*
*
DeleteEntry handles DELETE /api/entries/:key
Removal is unconditional and idempotent.
*/
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	key := c.Param("key")
	h.Cache.Delete(key)
	h.publish(realtime.Event{Type: realtime.EventRemoved, Key: key})
	c.Status(http.StatusNoContent)
}

/*
*
SweepEntries handles POST /api/entries/sweep
Reclaims memory held by expired entries.
*/
func (h *EntryHandler) SweepEntries(c *gin.Context) {
	removed := h.Cache.PurgeExpired()
	if removed > 0 {
		h.publish(realtime.Event{Type: realtime.EventSwept, Removed: removed})
	}
	c.JSON(http.StatusOK, gin.H{
		"removed": removed,
		"stored":  h.Cache.Stored(),
	})
}

// GetStats handles GET /api/stats
func (h *EntryHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"live":        h.Cache.Len(),
		"stored":      h.Cache.Stored(),
		"ttl_seconds": h.Cache.TTL().Seconds(),
	})
}
