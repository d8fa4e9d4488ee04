package validate

import (
	"testing"

	"github.com/arthur-debert/hatch/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		value     string
		valid     bool
		wantInMsg string
	}{
		{value: "my_slug2", valid: true},
		{value: "_private", valid: true},
		{value: "Ab", valid: true},
		{value: "1abc", wantInMsg: "start with a letter"},
		{value: "a", wantInMsg: "at least two characters"},
		{value: "my-slug", wantInMsg: "use '_' instead (my_slug)"},
		{value: "", wantInMsg: "empty"},
		{value: "has space", wantInMsg: "only letters"},
		{value: "ünicode", wantInMsg: "only letters"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			res := Identifier(tt.value)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.value, res.Value)
			if tt.valid {
				assert.NoError(t, res.Err())
				return
			}
			assert.Contains(t, res.Message, tt.wantInMsg)
			err := res.Err()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrIdentifierInvalid))
		})
	}
}
