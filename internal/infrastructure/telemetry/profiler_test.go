package telemetry

import (
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{ServerAddress: "http://localhost:4040"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProfilerConfig
		want string
	}{
		{"missing server", ProfilerConfig{Enabled: true, ApplicationName: "lojinha"}, "server address is required"},
		{"missing application", ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, "application name is required"},
		{"unknown type", ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040", ApplicationName: "lojinha", ProfileTypes: []string{"heap"}}, `unknown profile type "heap"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProfiler(tt.cfg, zaptest.NewLogger(t))
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewProfiler_Enabled(t *testing.T) {
	if testing.Short() {
		t.Skip("starts an agent that pushes to a server that is not running")
	}
	p, err := NewProfiler(ProfilerConfig{
		Enabled:         true,
		ServerAddress:   "http://localhost:14040",
		ApplicationName: "lojinha-test",
		ProfileTypes:    []string{"cpu"},
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, p.IsEnabled())
	_ = p.Stop()
	assert.True(t, p.stopped)
}

func TestProfileTypes(t *testing.T) {
	types, err := profileTypes(nil)
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileInuseSpace,
		pyroscope.ProfileGoroutines,
	}, types)

	types, err = profileTypes([]string{"mutex_count", "block_duration"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileMutexCount, pyroscope.ProfileBlockDuration}, types)
}
