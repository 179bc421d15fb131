package service

import (
	"crypto/rand"
	"fmt"
	"time"
)

// newTokenID returns a random jti in the format CLA-XXXXXXXXXXXXXXXX.
func newTokenID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("CLA-%016X", time.Now().UnixNano())
	}
	return fmt.Sprintf("CLA-%016X", b)
}
