package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opmodel/release/internal/testutil"
)

func TestNewVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestVersionCmd_Execute(t *testing.T) {
	testutil.Isolate(t)

	// output.Println writes to stdout, not cmd.SetOut()
	assert.NoError(t, execute(t, "version"))
}
