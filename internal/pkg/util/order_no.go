package util

import (
	"crypto/rand"
	"fmt"
	"time"
)

const orderNoChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrderNo 產生展示用訂單編號
// 格式: ORD-YYYYMMDD-RANDOM6, 例: ORD-20260212-A3F9K2
// 全域唯一只視為best-effort，不做collision retry
func GenerateOrderNo() string {
	return GenerateOrderNoAt(time.Now())
}

func GenerateOrderNoAt(now time.Time) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand失敗代表系統熵源異常，直接panic
		panic(fmt.Sprintf("order no random source: %v", err))
	}
	for i, b := range buf {
		buf[i] = orderNoChars[int(b)%len(orderNoChars)]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), string(buf))
}
