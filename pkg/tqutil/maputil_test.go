package tqutil_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fj1981/tinqer/pkg/tqutil"
)

func TestGetStr_DottedPath(t *testing.T) {
	m := map[string]interface{}{
		"user": map[string]interface{}{"name": "alice"},
	}
	require.Equal(t, "alice", tqutil.GetStr(m, "user.name"))
	require.Equal(t, "", tqutil.GetStr(m, "user.missing"))
}

func TestGetInt_MissingKeyDefaultsToZero(t *testing.T) {
	require.Equal(t, 0, tqutil.GetInt(map[string]interface{}{}, "count"))
	require.Equal(t, 5, tqutil.GetInt(map[string]interface{}{"count": "5"}, "count"))
}

func TestGetBool(t *testing.T) {
	require.True(t, tqutil.GetBool(map[string]interface{}{"active": true}, "active"))
	require.False(t, tqutil.GetBool(map[string]interface{}{}, "active"))
}

func TestGetValue_IgnoreCase(t *testing.T) {
	m := map[string]interface{}{"Name": "alice"}
	v, err := tqutil.GetValue(m, []string{"name"}, true)
	require.NoError(t, err)
	require.Equal(t, "alice", v)

	_, err = tqutil.GetValue(m, []string{"name"}, false)
	require.Error(t, err)
}

func TestPtr(t *testing.T) {
	p := tqutil.Ptr(42)
	require.Equal(t, 42, *p)
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "500ns", tqutil.FormatDuration(500*time.Nanosecond))
	require.Equal(t, "1.50ms", tqutil.FormatDuration(1500*time.Microsecond))
}

func TestMD5_DeterministicForSameInputs(t *testing.T) {
	a := tqutil.MD5("postgres", "localhost", 5432)
	b := tqutil.MD5("postgres", "localhost", 5432)
	c := tqutil.MD5("postgres", "localhost", 5433)
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}
