package flagx

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "separate value",
			args:         []string{"-c", "conf.json", "-a", ":5000"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "equals form",
			args:         []string{"-config=alt.json", "-a", ":5000"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=alt.json"},
		},
		{
			name:         "unknown flags and positionals dropped",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "trailing flag without value",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next flag is not a value",
			args:         []string{"-c", "-config=alt.json"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-c", "-config=alt.json"},
		},
		{
			name:         "order and repeats preserved",
			args:         []string{"-m", "sqlite", "-c", "one.json", "-m", "postgres"},
			allowedFlags: []string{"-m"},
			want:         []string{"-m", "sqlite", "-m", "postgres"},
		},
		{
			name:         "empty",
			args:         nil,
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestParseKnown(t *testing.T) {
	var addr, driver string

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&addr, "a", ":5000", "")
	fs.StringVar(&driver, "m", "memory", "")

	err := ParseKnown(fs, []string{"-c", "conf.json", "-m", "sqlite", "-unknown", "x"})
	require.NoError(t, err)
	assert.Equal(t, ":5000", addr)
	assert.Equal(t, "sqlite", driver)
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"-c", "/etc/corechat.json"}, "/etc/corechat.json"},
		{"long", []string{"-config", "/etc/corechat.json"}, "/etc/corechat.json"},
		{"equals", []string{"-config=/etc/corechat.json", "-a", ":1"}, "/etc/corechat.json"},
		{"absent", []string{"-a", ":1"}, ""},
		{"last wins", []string{"-c", "one.json", "-config", "two.json"}, "two.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigPath(tt.args))
		})
	}
}
