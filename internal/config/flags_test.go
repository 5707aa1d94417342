package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	args := []string{"-v", "-config", "a.yaml", "--other=1", "-c=b.yaml", "x"}
	got := filterArgs(args, []string{"-config", "-c"})
	assert.Equal(t, []string{"-config", "a.yaml", "-c=b.yaml"}, got)
}

func TestParseFlags(t *testing.T) {
	assert.Equal(t, "store.yaml", parseFlags([]string{"-test.v", "-config", "store.yaml"}))
	assert.Equal(t, "short.yaml", parseFlags([]string{"-c=short.yaml"}))
	assert.Equal(t, "", parseFlags([]string{"-unknown"}))
}
