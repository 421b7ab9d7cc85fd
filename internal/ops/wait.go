package ops

import "time"

// Wait sleeps for d or until the token is cancelled, whichever comes
// first, returning the token's cancellation error in the latter case.
func Wait(d time.Duration, token *Token) error {
	if err := token.Err(); err != nil {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return token.Err()
	case <-token.Done():
		return token.Err()
	}
}
