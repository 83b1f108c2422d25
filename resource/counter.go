package resource

import (
	"sort"
	"sync"
)

// Counter is an Observer that tracks live resources and releases per kind
type Counter struct {
	live     map[string]int
	released map[string]int
	mu       sync.Mutex
}

// NewCounter creates an empty counter
func NewCounter() *Counter {
	return &Counter{
		live:     make(map[string]int),
		released: make(map[string]int),
	}
}

func (c *Counter) OnResourceEvent(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch e.Type {
	case EventCreated:
		c.live[e.Kind]++
	case EventReplaced:
		c.released[e.Kind]++
	case EventDropped:
		c.live[e.Kind]--
		c.released[e.Kind]++
	}
}

// Live returns the number of live resources of kind
func (c *Counter) Live(kind string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live[kind]
}

// Released returns how many values of kind were replaced or dropped
func (c *Counter) Released(kind string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released[kind]
}

// Total returns the number of live resources across all kinds
func (c *Counter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.live {
		n += v
	}
	return n
}

// Kinds returns the kinds with live resources in name order
func (c *Counter) Kinds() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	kinds := make([]string, 0, len(c.live))
	for k, v := range c.live {
		if v != 0 {
			kinds = append(kinds, k)
		}
	}
	sort.Strings(kinds)
	return kinds
}
