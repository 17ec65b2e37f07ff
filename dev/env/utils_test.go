package devenv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	plain, err := ResolvePath("passages.db")
	require.NoError(t, err)
	require.Equal(t, "passages.db", plain)

	root, err := GetWorkspaceRoot()
	if err != nil {
		t.Skip("not running inside the workspace")
	}

	resolved, err := ResolvePath("<dev_state>/passages.db")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "dev", ".state", "passages.db"), resolved)
}
