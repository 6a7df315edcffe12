// Package aigcnf wraps the external AIGER tooling behind a narrow Bridge
// interface, per the design's call (section 9) to model subprocess
// coupling behind interfaces so it can be stubbed in tests. The pipeline
// mirrors checkModelAIG from the reference implementation: optionally
// convert ASCII AIGER to binary, optionally simplify with abc, validate
// declared dependencies against the circuit's symbol table, then lower to
// CNF - after which verification proceeds exactly like the DIMACS path,
// with an empty per-variable model partition.
package aigcnf

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	cp "github.com/otiai10/copy"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/opendqbf/modelcert/internal/cnf"
	"github.com/opendqbf/modelcert/internal/dqdimacs"
)

// Bridge converts an AIGER candidate model, together with the DQBF's
// declared dependencies, into an equivalent CNF formula.
type Bridge interface {
	ToCNF(ctx context.Context, aigPath string, ascii bool, dependencies map[cnf.Var][]cnf.Var) (cnf.Formula, error)
}

// ToolPaths configures the external binaries the bridge shells out to.
// Each defaults to a bare name (resolved via PATH) when empty.
type ToolPaths struct {
	AigToAig          string // converts ASCII .aag to binary .aig
	Abc               string // circuit simplifier; absence is non-fatal
	DependencyChecker string // validates the circuit against declared deps
	Aig2CNF           string // lowers the (possibly simplified) circuit to DIMACS CNF
}

func (t ToolPaths) aigToAig() string { return orDefault(t.AigToAig, "aigtoaig") }
func (t ToolPaths) abc() string      { return orDefault(t.Abc, "abc") }
func (t ToolPaths) dependencyChecker() string {
	return orDefault(t.DependencyChecker, "dependencychecker")
}
func (t ToolPaths) aig2cnf() string { return orDefault(t.Aig2CNF, "aig2cnf") }

func orDefault(s, d string) string {
	if s != "" {
		return s
	}
	return d
}

// ExternalBridge shells out to real AIGER tooling in a scoped temporary
// directory that is removed on every exit path.
type ExternalBridge struct {
	Tools ToolPaths
	Log   logrus.FieldLogger
}

func (b *ExternalBridge) logger() logrus.FieldLogger {
	if b.Log != nil {
		return b.Log
	}
	return logrus.StandardLogger()
}

// DependencyMismatch indicates the external dependency checker rejected
// the circuit's declared inputs against the DQBF's dependency map.
type DependencyMismatch struct{}

func (DependencyMismatch) Error() string { return "aig model violates declared dependencies" }

// ToCNF implements Bridge.
func (b *ExternalBridge) ToCNF(ctx context.Context, aigPath string, ascii bool, dependencies map[cnf.Var][]cnf.Var) (cnf.Formula, error) {
	log := b.logger().WithField("component", "aigcnf")

	tmpDir, err := os.MkdirTemp("", "modelcert-aig-*")
	if err != nil {
		return nil, errors.Wrap(err, "creating scoped temp directory")
	}
	defer os.RemoveAll(tmpDir)

	staged := filepath.Join(tmpDir, filepath.Base(aigPath))
	if err := cp.Copy(aigPath, staged); err != nil {
		return nil, errors.Wrap(err, "staging aig input into scoped temp directory")
	}

	binaryAig := staged
	if ascii {
		binaryAig = filepath.Join(tmpDir, "model.aig")
		if err := run(ctx, b.Tools.aigToAig(), staged, binaryAig); err != nil {
			return nil, errors.Wrap(err, "converting ascii aiger to binary")
		}
	}

	modelFile := binaryAig
	if toolExists(b.Tools.abc()) {
		simplified := filepath.Join(tmpDir, "model_simplified.aig")
		script := "read " + binaryAig + "; dc2; dc2; dc2; fraig; write " + simplified
		if err := run(ctx, b.Tools.abc(), "-c", script); err == nil {
			modelFile = simplified
		} else {
			log.WithError(err).Warn("aig simplifier failed, falling back to unsimplified input")
		}
	} else {
		log.Warn("aig simplifier binary not found, falling back to unsimplified input")
	}

	depsFile := filepath.Join(tmpDir, "dependencies")
	if err := writeDependencyFile(depsFile, dependencies); err != nil {
		return nil, errors.Wrap(err, "writing dependency file for dependency checker")
	}
	if err := run(ctx, b.Tools.dependencyChecker(), modelFile, depsFile); err != nil {
		return nil, DependencyMismatch{}
	}
	log.Debug("aig dependencies validated")

	outDimacs := filepath.Join(tmpDir, "model.dimacs")
	if err := run(ctx, b.Tools.aig2cnf(), modelFile, outDimacs); err != nil {
		return nil, errors.Wrap(err, "lowering aig to cnf")
	}

	f, err := os.Open(outDimacs)
	if err != nil {
		return nil, errors.Wrap(err, "opening lowered cnf output")
	}
	defer f.Close()

	inst, err := dqdimacs.Parse(f)
	if err != nil {
		return nil, errors.Wrap(err, "parsing lowered cnf output")
	}
	return inst.Matrix, nil
}

func run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Run()
}

func toolExists(name string) bool {
	if filepath.IsAbs(name) {
		_, err := os.Stat(name)
		return err == nil
	}
	_, err := exec.LookPath(name)
	return err == nil
}

func writeDependencyFile(path string, dependencies map[cnf.Var][]cnf.Var) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for v, deps := range dependencies {
		if _, err := f.WriteString(varString(v)); err != nil {
			return err
		}
		for _, d := range deps {
			if _, err := f.WriteString(" " + varString(d)); err != nil {
				return err
			}
		}
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}
	return nil
}

func varString(v cnf.Var) string {
	return cnf.Lit(v).String()
}
