package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandError(t *testing.T) {
	base := errors.New("exit status 1")

	withOutput := &CommandError{
		Command: "npm install left-pad@1.3.0",
		Output:  "npm ERR! code E404\n",
		Err:     base,
	}
	assert.Equal(t, "npm install left-pad@1.3.0: exit status 1: npm ERR! code E404", withOutput.Error())
	assert.True(t, errors.Is(withOutput, base))

	silent := &CommandError{Command: "npm install", Err: base}
	assert.Equal(t, "npm install: exit status 1", silent.Error())
}

func TestNPM_Variant(t *testing.T) {
	n := NewNPM(t.TempDir())
	assert.Equal(t, VariantNPM, n.Variant())
	assert.Equal(t, "npm", n.Bin)
}

func TestNPM_FailedCommandYieldsCommandError(t *testing.T) {
	n := NewNPM(t.TempDir())
	n.Bin = "false"

	err := n.RemovePackage(context.Background(), "left-pad")
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "false uninstall left-pad", cmdErr.Command)
}

func TestNPM_InstallSpec(t *testing.T) {
	n := NewNPM(t.TempDir())
	n.Bin = "false"

	var cmdErr *CommandError
	require.ErrorAs(t, n.InstallPackage(context.Background(), "react", "18.2.0"), &cmdErr)
	assert.Equal(t, "false install react@18.2.0", cmdErr.Command)

	require.ErrorAs(t, n.InstallPackage(context.Background(), "react", ""), &cmdErr)
	assert.Equal(t, "false install react", cmdErr.Command, "an empty version installs the latest")
}
