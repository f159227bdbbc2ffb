package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// LowAttendanceReportKey returns the cache key for the low-attendance report
// at a given threshold.
func (r *CacheKeyStruct) LowAttendanceReportKey(threshold float64) string {
	return fmt.Sprintf("report:low_attendance:%.2f", threshold)
}

// UserReportKey returns the cache key for the aggregate user report.
func (r *CacheKeyStruct) UserReportKey() string {
	return "report:users"
}

var CacheKey = NewCacheKeyStruct()
