package tqutil

import (
	"crypto/md5"
	"fmt"
	"io"
)

// MD5 fingerprints an arbitrary list of values, used to key pooled driver
// connections by their config.
func MD5(params ...interface{}) string {
	h := md5.New()
	for _, p := range params {
		_, _ = io.WriteString(h, fmt.Sprintln(p))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
