package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, Version)
	assert.NotEmpty(t, BuildTime)
	assert.NotEmpty(t, GitCommit)
}

func TestString(t *testing.T) {
	s := String()
	assert.Contains(t, s, "fluxpress ")
	assert.Contains(t, s, Version)
	assert.Contains(t, s, "commit "+GitCommit)
}
