package utils

import (
	"time"
)

func TimestampMS() int64 {
	return time.Now().UnixNano() / 1e6
}

// NowUTC current time in the ISO-8601 form stored on records
func NowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
