package consumer

import "time"

// SetRetryBackoff swaps the retry delay and returns a restore func.
func SetRetryBackoff(d time.Duration) func() {
	prev := retryBackoff
	retryBackoff = d
	return func() { retryBackoff = prev }
}
