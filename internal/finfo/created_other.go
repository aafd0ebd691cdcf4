//go:build !linux

package finfo

import (
	"os"
	"time"
)

// createdTime falls back to ModTime on platforms without a cheap ctime stat.
func createdTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
