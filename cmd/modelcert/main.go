// Command modelcert certifies that a candidate model witnesses the truth
// of a DQBF instance, running the dependency-scope, consistency,
// definability and matrix-entailment checks described in section 4 of
// the design against a shared clause database.
package main

import (
	"context"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opendqbf/modelcert/internal/aigcnf"
	"github.com/opendqbf/modelcert/internal/cnf"
	"github.com/opendqbf/modelcert/internal/config"
	"github.com/opendqbf/modelcert/internal/dqdimacs"
	"github.com/opendqbf/modelcert/internal/metrics"
	"github.com/opendqbf/modelcert/internal/modelio"
	"github.com/opendqbf/modelcert/internal/qbfcert"
	"github.com/opendqbf/modelcert/internal/verifier"
	"github.com/opendqbf/modelcert/internal/verrors"
)

// Exit codes: 0 means the model was certified YES, 1 means it was
// certified NO (a diagnosable rejection), -1 means a fatal infrastructure
// failure occurred (a parse error, an oracle crash, bad CLI usage) rather
// than a verdict about the model.
const (
	exitYES   = 0
	exitNO    = 1
	exitFatal = -1
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		checkDef, checkCons, stdDep        bool
		configPath, metricsAddr            string
		qbfBinary, qbfCertFlag             string
		aigToAigPath, abcPath              string
		dependencyCheckerPath, aig2cnfPath string
		debug                              bool
	)

	exitCode := exitFatal

	rootCmd := &cobra.Command{
		Use:   "modelcert <dqbf-file> <model-file>",
		Short: "modelcert",
		Long:  "Certifies that a candidate model witnesses the truth of a DQBF instance.",
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			flagOr := func(name string, flag bool, fallback *bool) bool {
				if cmd.Flags().Changed(name) {
					return flag
				}
				return config.BoolOr(fallback, false)
			}
			opts := verifier.Options{
				CheckDefined:     flagOr("check-def", checkDef, cfg.CheckDefined),
				CheckConsistency: flagOr("check-cons", checkCons, cfg.CheckConsistency),
				StdDep:           flagOr("std-dep", stdDep, cfg.StdDep),
			}

			var collectors *metrics.Collectors
			if m := config.StringOr(metricsAddr, cfg.MetricsAddr); m != "" {
				collectors = metrics.New()
				go serveMetrics(m, collectors)
			}

			v := &verifier.Verifier{
				Log: log.StandardLogger(),
				Oracle: &qbfcert.ExternalOracle{
					Binary:   config.StringOr(qbfBinary, cfg.QBFBinary),
					CertFlag: config.StringOr(qbfCertFlag, cfg.QBFCertFlag),
					Log:      log.StandardLogger(),
					Metrics:  collectors,
				},
				Metrics: collectors,
			}

			inst, err := loadInstance(args[0])
			if err != nil {
				return err
			}

			model, err := loadModel(args[1], inst, cfg, aigToAigPath, abcPath, dependencyCheckerPath, aig2cnfPath)
			if err != nil {
				return err
			}

			ok, verr := v.Verify(cmd.Context(), inst, model, opts)
			if ok {
				cmd.Println("YES")
				exitCode = exitYES
				return nil
			}
			switch verr.(type) {
			case *verrors.ScopeViolation, *verrors.Inconsistent, *verrors.Undefined, *verrors.MatrixFalsified:
			default:
				return verr
			}
			cmd.Println("NO:", verr)
			exitCode = exitNO
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&checkDef, "check-def", false, "check that every existential is uniquely defined by its dependencies")
	rootCmd.Flags().BoolVar(&checkCons, "check-cons", false, "check global consistency via the 2-QBF oracle")
	rootCmd.Flags().BoolVar(&stdDep, "std-dep", false, "use declared dependencies only, disabling extended-dependency closure")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML defaults file")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on (disabled if empty)")
	rootCmd.Flags().StringVar(&qbfBinary, "qbf-binary", "", "path to the 2-QBF oracle binary (default cadet)")
	rootCmd.Flags().StringVar(&qbfCertFlag, "qbf-cert-flag", "", "flag requesting an UNSAT certificate from the oracle")
	rootCmd.Flags().StringVar(&aigToAigPath, "aig-to-aig", "", "path to the aigtoaig converter")
	rootCmd.Flags().StringVar(&abcPath, "abc", "", "path to the abc circuit simplifier")
	rootCmd.Flags().StringVar(&dependencyCheckerPath, "dependency-checker", "", "path to the AIG dependency checker")
	rootCmd.Flags().StringVar(&aig2cnfPath, "aig2cnf", "", "path to the aig2cnf lowering tool")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("modelcert failed")
		return exitFatal
	}
	return exitCode
}

func loadInstance(path string) (*dqdimacs.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dqdimacs.Parse(f)
}

// loadModel parses the candidate model, dispatching to the AIG bridge
// when the model file name ends in .aag or .aig (case-insensitive) and
// parsing it as DIMACS text otherwise; the file's contents are not
// inspected to decide the format. An AIG-derived model has no
// per-existential partition - its declared dependencies were already
// validated by the external dependency checker inside the bridge - so the
// engine's internal scope check passes vacuously for it.
func loadModel(path string, inst *dqdimacs.Instance, cfg *config.Config, aigToAig, abc, depChecker, aig2cnf string) (*modelio.Model, error) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".aag") || strings.HasSuffix(lower, ".aig") {
		bridge := &aigcnf.ExternalBridge{
			Tools: aigcnf.ToolPaths{
				AigToAig:          config.StringOr(aigToAig, cfg.AigToAigPath),
				Abc:               config.StringOr(abc, cfg.AbcPath),
				DependencyChecker: config.StringOr(depChecker, cfg.DependencyCheckerPath),
				Aig2CNF:           config.StringOr(aig2cnf, cfg.Aig2CNFPath),
			},
			Log: log.StandardLogger(),
		}
		formula, err := bridge.ToCNF(context.Background(), path, strings.HasSuffix(lower, ".aag"), inst.Dependencies)
		if err != nil {
			return nil, err
		}
		return &modelio.Model{PerVar: map[cnf.Var]cnf.Formula{}, Union: formula}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return modelio.Parse(f)
}
