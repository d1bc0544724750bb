package storage

import (
	"path"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// lastToken is the last timestamp handed out, in Unix milliseconds.
var lastToken atomic.Int64

// nextToken returns the current time in milliseconds, bumped so that no two
// calls in this process return the same value.
func nextToken() int64 {
	for {
		last := lastToken.Load()
		now := time.Now().UnixMilli()
		if now <= last {
			now = last + 1
		}
		if lastToken.CompareAndSwap(last, now) {
			return now
		}
	}
}

// NewFilename builds "<token>_<original>" where original is reduced to its
// base name.
func NewFilename(original string) string {
	return strconv.FormatInt(nextToken(), 10) + "_" + baseName(original)
}

func baseName(original string) string {
	name := path.Base(strings.ReplaceAll(original, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		return "image"
	}
	return name
}

// ValidName reports whether name can address a stored image: a single path
// element with no separators.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}
