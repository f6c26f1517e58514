// Package tqutil holds small helpers shared across Tinqer-Go packages,
// trimmed to what the compiler and execute layer actually use.
package tqutil

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// GetValue walks a dotted key path through a map-of-maps, as produced by
// scanning a driver row into map[string]any.
func GetValue(m map[string]interface{}, keys []string, ignoreCase ...bool) (interface{}, error) {
	if len(keys) == 0 {
		return m, nil
	}

	currentKey := keys[0]
	remainingKeys := keys[1:]
	useIgnoreCase := len(ignoreCase) > 0 && ignoreCase[0]

	var foundValue interface{}
	var keyFound bool

	if useIgnoreCase {
		for k, v := range m {
			if strings.EqualFold(k, currentKey) {
				foundValue = v
				keyFound = true
				break
			}
		}
	} else {
		foundValue, keyFound = m[currentKey]
	}

	if !keyFound {
		return nil, fmt.Errorf("key %q not found", currentKey)
	}
	if len(remainingKeys) == 0 {
		return foundValue, nil
	}

	nextMap, ok := foundValue.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("value for key %q is not a map", currentKey)
	}
	return GetValue(nextMap, remainingKeys, ignoreCase...)
}

func ToStr(value interface{}) string {
	if value == nil {
		return ""
	}
	v, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return v
}

func ToInt(value interface{}) int {
	v, err := cast.ToIntE(value)
	if err != nil {
		return 0
	}
	return v
}

func ToBool(value interface{}) bool {
	v, err := cast.ToBoolE(value)
	if err != nil {
		return false
	}
	return v
}

func ToFloat64(value interface{}) float64 {
	v, err := cast.ToFloat64E(value)
	if err != nil {
		return 0
	}
	return v
}

// GetStr reads a (possibly dotted) key from a scanned row, defaulting to "".
func GetStr(m map[string]interface{}, key string, ignoreCase ...bool) string {
	if m == nil {
		return ""
	}
	v, _ := GetValue(m, strings.Split(key, "."), ignoreCase...)
	return ToStr(v)
}

// GetInt reads a (possibly dotted) key from a scanned row, defaulting to 0.
func GetInt(m map[string]interface{}, key string, ignoreCase ...bool) int {
	if m == nil {
		return 0
	}
	v, _ := GetValue(m, strings.Split(key, "."), ignoreCase...)
	if v == nil {
		return 0
	}
	return ToInt(v)
}

// GetBool reads a (possibly dotted) key from a scanned row, defaulting to false.
func GetBool(m map[string]interface{}, key string, ignoreCase ...bool) bool {
	if m == nil {
		return false
	}
	v, _ := GetValue(m, strings.Split(key, "."), ignoreCase...)
	if v == nil {
		return false
	}
	return ToBool(v)
}

func Ptr[T any](v T) *T {
	return &v
}
