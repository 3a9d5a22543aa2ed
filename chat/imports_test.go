package chat

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// The handler reaches tools only through the Agent it builds.
func TestHandlerDoesNotImportTools(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)

	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		require.NoError(t, err)
		for _, imp := range f.Imports {
			path, err := strconv.Unquote(imp.Path.Value)
			require.NoError(t, err)
			require.NotContains(t, path, "/search", "%s imports %s", name, path)
			require.NotContains(t, path, "/agent", "%s imports %s", name, path)
			require.NotContains(t, path, "cloudwego", "%s imports %s", name, path)
		}
	}
}
