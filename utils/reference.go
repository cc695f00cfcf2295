package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// NewMerchantRef builds a client-side merchant reference for a payment attempt,
// used when the gateway does not assign one. The unix-millisecond timestamp plus
// a random suffix keeps references unique per attempt.
func NewMerchantRef(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixMilli(), rand.Intn(1000))
}
