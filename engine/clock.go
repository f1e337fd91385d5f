package engine

import "time"

// searchClock is a cooperative deadline polled every interval nodes.
type searchClock struct {
	start    time.Time
	deadline time.Time
	interval uint64
	ticks    uint64
	expired  bool
}

func newSearchClock(start time.Time, budget time.Duration, interval uint64) searchClock {
	if interval == 0 {
		interval = 1
	}
	c := searchClock{
		start:    start,
		deadline: start.Add(budget),
		interval: interval,
	}
	if budget <= 0 {
		c.expired = true
	}
	return c
}

// tick counts one node and reads the wall clock once per interval.
func (c *searchClock) tick() bool {
	if c.expired {
		return true
	}
	c.ticks++
	if c.ticks%c.interval == 0 && !time.Now().Before(c.deadline) {
		c.expired = true
	}
	return c.expired
}

// check reads the wall clock right away.
func (c *searchClock) check() bool {
	if !c.expired && !time.Now().Before(c.deadline) {
		c.expired = true
	}
	return c.expired
}

func (c *searchClock) elapsed() time.Duration {
	return time.Since(c.start)
}

// sub returns a clock sharing the start time whose deadline is the earlier of
// this clock's and start+budget.
func (c *searchClock) sub(budget time.Duration) searchClock {
	child := newSearchClock(c.start, budget, c.interval)
	if c.deadline.Before(child.deadline) {
		child.deadline = c.deadline
	}
	if c.expired {
		child.expired = true
	}
	return child
}
