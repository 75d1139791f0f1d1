package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodesUnique(t *testing.T) {
	codes := []string{ErrConfig, ErrAPI, ErrData, ErrRender, ErrStorage}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code)
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
		excludes []string
	}{
		{
			name:     "message only",
			err:      New(ErrConfig, "Period must be positive", ""),
			contains: []string{"✗ Period must be positive"},
		},
		{
			name:     "with suggestion",
			err:      New(ErrData, "No data found", "Check the host group has ping items"),
			contains: []string{"✗ No data found", "  Check the host group has ping items"},
		},
		{
			name: "with cause",
			err: WrapWithCode(fmt.Errorf("connection refused"), ErrAPI,
				"Cannot reach Zabbix", "Check the server URL"),
			contains: []string{"✗ Cannot reach Zabbix", "connection refused", "Check the server URL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.err.Error()
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestUnwrapAndIsCode(t *testing.T) {
	cause := errors.New("boom")
	err := WrapWithCode(cause, ErrRender, "PDF failed", "")

	require.ErrorIs(t, err, cause)
	assert.True(t, IsCode(err, ErrRender))
	assert.False(t, IsCode(err, ErrAPI))
	assert.False(t, IsCode(nil, ErrRender))
	assert.False(t, IsCode(cause, ErrRender))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsCode(wrapped, ErrRender))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "", Summary(nil))
	assert.Equal(t, "plain", Summary(errors.New("plain")))
	assert.Equal(t, "No data", Summary(New(ErrData, "No data", "hint")))
	assert.Equal(t, "Login failed: bad password",
		Summary(WrapWithCode(errors.New("bad password"), ErrAPI, "Login failed", "hint")))
}
