package main

// attemptCounter tracks failed logins against a fixed limit
type attemptCounter struct {
	max    int
	failed int
}

func newAttemptCounter(limit int) *attemptCounter {
	return &attemptCounter{max: limit}
}

// Fail records a failed attempt and returns how many remain
func (c *attemptCounter) Fail() int {
	c.failed++
	return c.Remaining()
}

// Remaining is the number of attempts left, never negative
func (c *attemptCounter) Remaining() int {
	if c.failed >= c.max {
		return 0
	}
	return c.max - c.failed
}

// Exhausted reports whether no attempts are left
func (c *attemptCounter) Exhausted() bool {
	return c.failed >= c.max
}

// Reset clears the failure count after a successful login
func (c *attemptCounter) Reset() {
	c.failed = 0
}
