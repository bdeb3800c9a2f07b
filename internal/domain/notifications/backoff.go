package notifications

import "time"

const maxDelay = time.Hour

// NextDelay returns the wait before the given delivery attempt, doubling
// from the base and capping at an hour. Attempt numbering starts at 1.
func NextDelay(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxDelay {
			return maxDelay
		}
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}
