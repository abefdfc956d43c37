package services

import (
	"sync"

	"github.com/rosterhq/roster/modules/roster/domain/aggregates/personnel"
)

// summaryCache is the in-process discord-id index over personnel
// summaries. It is bulk-populated once at startup and updated
// write-through after each committed mutation; it never holds
// uncommitted state. Advisory only: correctness-critical reads go to
// the store.
type summaryCache struct {
	mu      sync.RWMutex
	entries map[int64]personnel.Summary
}

func newSummaryCache() *summaryCache {
	return &summaryCache{entries: make(map[int64]personnel.Summary)}
}

func (c *summaryCache) Get(discordID int64) (personnel.Summary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.entries[discordID]
	recordCacheRequest(ok)
	return s, ok
}

// Replace installs the post-commit summary wholesale, used on hire and
// dismiss.
func (c *summaryCache) Replace(s personnel.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[s.DiscordID] = s
}

// Patch updates only the appointment fields of an existing entry, used
// on transfer. A missing entry falls back to a wholesale install.
func (c *summaryCache) Patch(s personnel.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.entries[s.DiscordID]
	if !ok {
		c.entries[s.DiscordID] = s
		return
	}
	cur.Rank = s.Rank
	cur.RankLevel = s.RankLevel
	cur.Subdivision = s.Subdivision
	cur.Position = s.Position
	cur.LastUpdated = s.LastUpdated
	c.entries[s.DiscordID] = cur
}

func (c *summaryCache) Preload(summaries []personnel.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range summaries {
		c.entries[s.DiscordID] = s
	}
}

func (c *summaryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
