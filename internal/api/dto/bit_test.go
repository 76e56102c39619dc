package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBit_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Bit
	}{
		{in: `1`, want: true},
		{in: `0`, want: false},
		{in: `true`, want: true},
		{in: `false`, want: false},
		{in: `null`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var b Bit
			require.NoError(t, json.Unmarshal([]byte(tt.in), &b))
			assert.Equal(t, tt.want, b)
		})
	}
}

func TestBit_RejectsStrings(t *testing.T) {
	var b Bit
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &b))
}

func TestCapabilities_MarshalAsIntegers(t *testing.T) {
	out, err := json.Marshal(Capabilities{CanEdit: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"can_edit":1,"can_delete":0,"can_manage_editors":0}`, string(out))
}
