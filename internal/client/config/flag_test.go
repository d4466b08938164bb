package config

import (
	"bytes"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected  *Config
		name      string
		args      []string
		expectErr bool
	}{
		{name: "all flags", args: []string{"cmd", "-a", "http://127.0.0.1:8000", "-d", "/tmp/pd.db", "-t", "12", "-i", "10", "-l", "debug"},
			expected: &Config{
				ServerBaseURL:       "http://127.0.0.1:8000",
				DatabasePath:        "/tmp/pd.db",
				RequestTimeout:      12 * time.Second,
				OnlineCheckInterval: 10 * time.Second,
				LogLevel:            "debug",
			}},
		{name: "unknown flags ignored", args: []string{"cmd", "-x", "1", "--i=2", "-verbose"},
			expected: &Config{OnlineCheckInterval: 2 * time.Second}},
		{name: "incorrect check interval", args: []string{"cmd", "-a", "http://127.0.0.1:8000", "-i", "abc"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}
			err := parseFlags(config)

			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}

func TestParseFlags_KeepsDurationsWithoutFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd", "-l", "debug"}

	config := &Config{RequestTimeout: 1500 * time.Millisecond, OnlineCheckInterval: 500 * time.Millisecond}
	require.NoError(t, parseFlags(config))

	assert.Equal(t, 1500*time.Millisecond, config.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, config.OnlineCheckInterval)
}

func TestParseFlags_HelpPrintsUsage(t *testing.T) {
	origArgs, origOut := os.Args, flagOutput
	t.Cleanup(func() {
		os.Args = origArgs
		flagOutput = origOut
	})

	var buf bytes.Buffer
	flagOutput = &buf
	os.Args = []string{"cmd", "-h"}

	err := parseFlags(&Config{})
	require.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, buf.String(), "base URL of the detector API")
	assert.Contains(t, buf.String(), "online check interval")
}
