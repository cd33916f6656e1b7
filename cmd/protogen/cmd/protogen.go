// Package cmd wires the protogen command line: flag parsing, logger setup,
// model loading and the emitter pipeline.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openinspect/protogen/errors"
	"github.com/openinspect/protogen/gen"
	"github.com/openinspect/protogen/gen/cpp"
	"github.com/openinspect/protogen/gen/js"
	"github.com/openinspect/protogen/gen/objc"
	"github.com/openinspect/protogen/logger"
	"github.com/openinspect/protogen/protocol"
)

var (
	outputDir     string
	configPath    string
	frameworkName string
	backendNames  []string
	jsonLogs      bool
)

var allBackends = []string{"cpp", "objc", "js"}

// RootCmd is the protogen entry point.
var RootCmd = &cobra.Command{
	Use:   "protogen <protocol-model.json>",
	Short: "Generate protocol bindings from a protocol model",
	Long: `Generate strongly-typed bindings for a declarative remote inspection
protocol. The input is the JSON serialization of a loaded protocol model;
the outputs are per-backend source artifacts written to the output directory.

Backends:
  cpp   - protocol object validators, runtime casts and alternate dispatchers
  objc  - protocol object classes, backend dispatchers and configuration
  js    - runtime dispatch table registrations

Examples:
  protogen Inspector.json                         # All backends to cwd
  protogen -o gen/ -b cpp,js Inspector.json       # Selected backends
  protogen --config protocol.toml Inspector.json  # Override allow-lists`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "initializing logger")
		}
		return nil
	},
	RunE: runGenerate,
	// Errors are logged with their full chain; cobra's own echo would
	// duplicate them.
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory for generated artifacts")
	RootCmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML configuration overriding the stock allow-lists")
	RootCmd.Flags().StringVar(&frameworkName, "framework", "", "Override the model's target framework (inspector, platform, test)")
	RootCmd.Flags().StringSliceVarP(&backendNames, "backends", "b", allBackends, "Backends to generate")
	RootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	RootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON instead of human-readable output")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	defer logger.Cleanup()

	inputPath := args[0]
	model, err := loadModel(inputPath)
	if err != nil {
		logger.Errorw("Failed to load protocol model", "input", inputPath, "error", err)
		return err
	}

	cfg := gen.DefaultConfig()
	if configPath != "" {
		cfg, err = gen.LoadConfig(configPath)
		if err != nil {
			logger.Errorw("Failed to load configuration", "config", configPath, "error", err)
			return err
		}
		logger.Debugw("Loaded configuration overrides", "config", configPath)
	}

	// One facts computation backs every emitter so artifacts agree on enum
	// encodings and the shape-assertion set.
	facts := gen.ComputeFacts(model, cfg)
	logger.Debugw("Computed generation facts",
		"domains", len(model.Domains),
		"enumValues", len(facts.AssignedEnumValues()))

	emitters, err := emittersForBackends(model, cfg, facts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating output directory %s", outputDir)
	}

	for _, emitter := range emitters {
		filename := emitter.OutputFilename()
		text, err := emitter.Generate()
		if err != nil {
			logger.Errorw("Generation failed", "artifact", filename, "error", err)
			return errors.Wrapf(err, "generating %s", filename)
		}
		outputPath := filepath.Join(outputDir, filename)
		if err := os.WriteFile(outputPath, []byte(text+"\n"), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", outputPath)
		}
		logger.Infow("Generated artifact", "path", outputPath, "bytes", len(text))
	}

	logger.Infof("Generated %d artifacts from %s", len(emitters), filepath.Base(inputPath))
	return nil
}

func loadModel(path string) (*protocol.Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening protocol model %s", path)
	}
	defer file.Close()

	model, err := protocol.DecodeModel(file, path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading protocol model %s", path)
	}

	if frameworkName != "" {
		framework, err := protocol.FrameworkByName(frameworkName)
		if err != nil {
			return nil, err
		}
		model.Framework = framework
	}
	return model, nil
}

func emittersForBackends(model *protocol.Model, cfg *gen.Config, facts *gen.Facts) ([]gen.Emitter, error) {
	var emitters []gen.Emitter
	for _, name := range backendNames {
		switch name {
		case "cpp":
			emitters = append(emitters,
				cpp.NewProtocolObjectsEmitter(model, cfg, facts),
				cpp.NewAlternateDispatcherHeaderEmitter(model, cfg, facts))
		case "objc":
			emitters = append(emitters,
				objc.NewProtocolTypesEmitter(model, cfg, facts),
				objc.NewBackendDispatchersEmitter(model, cfg, facts),
				objc.NewConfigurationHeaderEmitter(model, cfg, facts),
				objc.NewConfigurationImplementationEmitter(model, cfg, facts),
				objc.NewInternalHeaderEmitter(model, cfg, facts))
		case "js":
			emitters = append(emitters,
				js.NewBackendCommandsEmitter(model, cfg, facts))
		default:
			return nil, errors.Newf("unknown backend %q (available: %v)", name, allBackends)
		}
	}
	return emitters, nil
}
