package services

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const orderNumberTimeLayout = "20060102150405"

// NewOrderNumber formats ORD-<yyyyMMddHHmmss UTC>-<1000..9999>.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%d", now.UTC().Format(orderNumberTimeLayout), 1000+rand.IntN(9000))
}
