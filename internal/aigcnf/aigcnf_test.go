package aigcnf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendqbf/modelcert/internal/cnf"
)

// writeScript writes an executable shell script standing in for one of the
// external AIGER tools, so ToCNF can be exercised end to end without a real
// aiger/abc toolchain on the test machine.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestToCNFHappyPath(t *testing.T) {
	dir := t.TempDir()
	aig := filepath.Join(dir, "model.aig")
	require.NoError(t, os.WriteFile(aig, []byte("fake-binary-aiger"), 0o644))

	const cnfOut = "p cnf 2 1\n1 -2 0\n"

	b := &ExternalBridge{
		Tools: ToolPaths{
			// abc is deliberately left pointing at a name that does not
			// exist on PATH, exercising the non-fatal fallback.
			Abc:               filepath.Join(dir, "no-such-abc"),
			DependencyChecker: writeScript(t, dir, "dependencychecker", "exit 0"),
			Aig2CNF:           writeScript(t, dir, "aig2cnf", `cat > "$2" <<'EOF'`+"\n"+cnfOut+"EOF\n"),
		},
	}

	f, err := b.ToCNF(context.Background(), aig, false, map[cnf.Var][]cnf.Var{2: {1}})
	require.NoError(t, err)
	require.Len(t, f, 1)
	assert.Equal(t, cnf.Clause{cnf.Lit(1), cnf.Lit(2).Not()}, f[0])
}

func TestToCNFConvertsASCII(t *testing.T) {
	dir := t.TempDir()
	aag := filepath.Join(dir, "model.aag")
	require.NoError(t, os.WriteFile(aag, []byte("aag 0 0 0 0 0\n"), 0o644))

	const cnfOut = "p cnf 1 1\n1 0\n"

	b := &ExternalBridge{
		Tools: ToolPaths{
			AigToAig:          writeScript(t, dir, "aigtoaig", `cp "$1" "$2"`),
			Abc:               filepath.Join(dir, "no-such-abc"),
			DependencyChecker: writeScript(t, dir, "dependencychecker", "exit 0"),
			Aig2CNF:           writeScript(t, dir, "aig2cnf", `cat > "$2" <<'EOF'`+"\n"+cnfOut+"EOF\n"),
		},
	}

	f, err := b.ToCNF(context.Background(), aag, true, nil)
	require.NoError(t, err)
	require.Len(t, f, 1)
}

func TestToCNFDependencyMismatch(t *testing.T) {
	dir := t.TempDir()
	aig := filepath.Join(dir, "model.aig")
	require.NoError(t, os.WriteFile(aig, []byte("fake-binary-aiger"), 0o644))

	b := &ExternalBridge{
		Tools: ToolPaths{
			Abc:               filepath.Join(dir, "no-such-abc"),
			DependencyChecker: writeScript(t, dir, "dependencychecker", "exit 1"),
			Aig2CNF:           writeScript(t, dir, "aig2cnf", `exit 0`),
		},
	}

	_, err := b.ToCNF(context.Background(), aig, false, nil)
	assert.ErrorIs(t, err, DependencyMismatch{})
}

func TestToCNFUsesSimplifierWhenPresent(t *testing.T) {
	dir := t.TempDir()
	aig := filepath.Join(dir, "model.aig")
	require.NoError(t, os.WriteFile(aig, []byte("fake-binary-aiger"), 0o644))

	const cnfOut = "p cnf 1 1\n1 0\n"

	b := &ExternalBridge{
		Tools: ToolPaths{
			Abc:               writeScript(t, dir, "abc", `touch "$(dirname "$0")/abc-ran"`),
			DependencyChecker: writeScript(t, dir, "dependencychecker", "exit 0"),
			Aig2CNF:           writeScript(t, dir, "aig2cnf", `cat > "$2" <<'EOF'`+"\n"+cnfOut+"EOF\n"),
		},
	}

	_, err := b.ToCNF(context.Background(), aig, false, nil)
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "abc-ran"))
	assert.NoError(t, statErr, "abc simplifier should have run since it was resolvable")
}
