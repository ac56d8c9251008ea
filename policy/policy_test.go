package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "default", config: DefaultConfig()},
		{name: "stride upper case", config: Config{Mode: "STRIDE", BigStride: 100, DefaultPriority: 2}},
		{name: "unknown mode", config: Config{Mode: "lottery", BigStride: 100, DefaultPriority: 16}, wantErr: true},
		{name: "zero big stride", config: Config{Mode: ModeFIFO, DefaultPriority: 16}, wantErr: true},
		{name: "priority too small", config: Config{Mode: ModeFIFO, BigStride: 100, DefaultPriority: 1}, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_Pass(t *testing.T) {
	config := DefaultConfig()
	assert.False(t, config.IsStride())
	assert.EqualValues(t, DefaultBigStride/16, config.Pass(16))
	config.Mode = ModeStride
	assert.True(t, config.IsStride())
	assert.True(t, ValidPriority(2))
	assert.False(t, ValidPriority(1))
	assert.False(t, ValidPriority(-5))
}
