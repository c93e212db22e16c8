package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/born-ml/syncmem/backend/emulated"
	"github.com/born-ml/syncmem/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "emulated", cfg.Device)
	assert.Equal(t, uint32(1701), cfg.Seed)
	assert.Equal(t, 10000, cfg.Samples)
	assert.Equal(t, "float32", cfg.DType)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, 1.0, cfg.Sigma)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SYNCMEM_DEVICE", "none")
	t.Setenv("SYNCMEM_SEED", "42")
	t.Setenv("SYNCMEM_DTYPE", "float64")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.Device)
	assert.Equal(t, uint32(42), cfg.Seed)
	assert.Equal(t, "float64", cfg.DType)
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"device", "SYNCMEM_DEVICE", "cuda"},
		{"dtype", "SYNCMEM_DTYPE", "int8"},
		{"samples", "SYNCMEM_SAMPLES", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := loadConfig()
			assert.True(t, errors.Is(err, errInvalidConfig), "got %v", err)
		})
	}

	t.Run("parse", func(t *testing.T) {
		t.Setenv("SYNCMEM_SEED", "not-a-number")
		_, err := loadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env:")
	})
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := loadConfig()
	require.NoError(t, err)
	return cfg
}

func TestRunOnEmulatedDevice(t *testing.T) {
	for _, cmd := range []string{"gaussian", "uniform", "bernoulli", "bits"} {
		for _, dtype := range []string{"float32", "float64"} {
			t.Run(cmd+"/"+dtype, func(t *testing.T) {
				cfg := testConfig(t)
				cfg.DType = dtype
				dev := emulated.New()
				defer dev.Release()

				var out bytes.Buffer
				ok, err := run(&out, cmd, cfg, dev)
				require.NoError(t, err)
				assert.True(t, ok, out.String())
				assert.Contains(t, out.String(), "seed 1701")
				assert.NotContains(t, out.String(), "FAIL")
			})
		}
	}
}

func TestRunOnHost(t *testing.T) {
	for _, cmd := range []string{"gaussian", "uniform", "bernoulli"} {
		t.Run(cmd, func(t *testing.T) {
			var out bytes.Buffer
			ok, err := run(&out, cmd, testConfig(t), nil)
			require.NoError(t, err)
			assert.True(t, ok, out.String())
			assert.Contains(t, out.String(), "on host")
		})
	}
}

func TestRunBitsNeedsDevice(t *testing.T) {
	var out bytes.Buffer
	_, err := run(&out, "bits", testConfig(t), nil)
	assert.True(t, errors.Is(err, device.ErrNoDevice))
}

func TestRunUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	ok, err := run(&out, "poisson", testConfig(t), nil)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, out.String(), "Usage:")
}

func TestReportFailsOutOfBounds(t *testing.T) {
	r, err := summarize([]float64{1, 2, 3, 4})
	require.NoError(t, err)

	r.expectMean(100, 1)
	r.expectRange(0, 3)
	assert.False(t, r.ok())

	var out bytes.Buffer
	r.print(&out)
	assert.Contains(t, out.String(), "FAIL")
}

func TestUsageListsEveryVariable(t *testing.T) {
	var out bytes.Buffer
	usage(&out)
	for _, key := range []string{
		"SYNCMEM_DEVICE", "SYNCMEM_SEED", "SYNCMEM_SAMPLES", "SYNCMEM_DTYPE", "SYNCMEM_WORKERS",
		"SYNCMEM_MU", "SYNCMEM_SIGMA", "SYNCMEM_LOWER", "SYNCMEM_UPPER", "SYNCMEM_P",
	} {
		assert.Contains(t, out.String(), key)
	}
}

func TestRealMainExitCodes(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		want int
	}{
		{"default command", nil, nil, 0},
		{"host bernoulli", map[string]string{"SYNCMEM_DEVICE": "none"}, []string{"bernoulli"}, 0},
		{"unknown command", nil, []string{"poisson"}, 1},
		{"invalid config", map[string]string{"SYNCMEM_DTYPE": "int8"}, []string{"gaussian"}, 1},
		{"run error", map[string]string{"SYNCMEM_DEVICE": "none"}, []string{"bits"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			var out bytes.Buffer
			assert.Equal(t, tt.want, realMain(tt.args, &out), out.String())
		})
	}
}
