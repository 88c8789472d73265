package version

import (
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersion(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	tests := []struct {
		stamped string
		want    string
	}{
		{"1.2.3", "1.2.3"},
		{"v1.2.3", "1.2.3"},
		{"1.2.3-rc.1", "1.2.3-rc.1"},
		{"dev", fallbackVersion},
		{"", fallbackVersion},
	}

	for _, tt := range tests {
		t.Run(tt.stamped, func(t *testing.T) {
			version = tt.stamped
			assert.Equal(t, tt.want, GetVersion())
		})
	}
}

func TestDefaultVersionIsSemver(t *testing.T) {
	_, err := semver.StrictNewVersion(GetVersion())
	require.NoError(t, err)
}

func TestUserAgent(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	version = "v2.0.1"
	assert.Equal(t, "osrsprice/2.0.1", UserAgent())
	assert.NotEmpty(t, GetCommit())
}
