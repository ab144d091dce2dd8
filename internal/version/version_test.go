package version

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short, Full and UserAgent agree.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
	require.Equal(t, "alarm-ctl/"+Short(), UserAgent("alarm-ctl"))
}

// TestVersionCommand prints the short form on request.
func TestVersionCommand(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "alarm-clock"}
	AttachCobraVersionCommand(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--short"})

	require.NoError(t, root.Execute())
	require.Equal(t, Short()+"\n", out.String())
	require.Equal(t, Short(), root.Version)
}
