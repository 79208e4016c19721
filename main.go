package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Aman-s12345/express-openapi-generator/internal/analyzer"
	"github.com/Aman-s12345/express-openapi-generator/internal/config"
	"github.com/Aman-s12345/express-openapi-generator/internal/generator"
	"github.com/Aman-s12345/express-openapi-generator/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	configPath string
	logLevel   string
	outputDir  string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "express-openapi <input-file> [json|yaml]",
		Short: "Generate an OpenAPI 3.0 document from an Express route file",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("missing input file path")
			}
			return cobra.RangeArgs(1, 2)(cmd, args)
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := "json"
			if len(args) > 1 {
				format = strings.ToLower(args[1])
			}
			return run(cmd, opts, args[0], format)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to configuration file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory the document is written to")

	return cmd
}

func run(cmd *cobra.Command, opts options, inputPath, format string) error {
	if !generator.ValidFormat(format) {
		return fmt.Errorf("%w: %s (supported: json, yaml)", generator.ErrUnsupportedFormat, format)
	}
	if _, err := os.Stat(inputPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", inputPath)
		}
		return fmt.Errorf("failed to stat input file: %w", err)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = opts.outputDir
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	routeAnalyzer := analyzer.New(
		analyzer.WithLogger(logger),
		analyzer.WithIntegerIDs(cfg.IntegerIDs),
		analyzer.WithConventions(cfg.DomainConventions()...),
	)
	analysis, err := routeAnalyzer.AnalyzeFile(ctx, inputPath)
	switch {
	case errors.Is(err, analyzer.ErrParse):
		fmt.Fprintf(cmd.ErrOrStderr(), "Error parsing %s: %v\n", inputPath, err)
	case err != nil:
		return fmt.Errorf("failed to read input file: %w", err)
	}

	specGenerator := generator.New(generator.Config{
		Title:       cfg.Title,
		Version:     cfg.Version,
		Description: cfg.Description,
	}, logger)
	spec := specGenerator.Generate(analysis)
	if err := specGenerator.ValidateAndCleanSpec(ctx, spec); err != nil {
		logger.Warn("generated document has validation findings", zap.Error(err))
	}

	outputPath, err := generator.WriteFile(cfg.OutputDir, spec, format)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("document written", zap.String("path", outputPath))

	printSummary(cmd.OutOrStdout(), spec)
	return nil
}

// printSummary lists the operations written to the document with their
// parameter counts. Dropped duplicate registrations are not counted.
func printSummary(w io.Writer, spec *generator.OpenAPISpec) {
	var lines []string
	for _, path := range spec.Paths.Keys() {
		pathItem, _ := spec.Paths.Get(path)
		for _, operation := range pathItem.Operations() {
			line := fmt.Sprintf("  %s (%d params)", operation.Summary, len(operation.Parameters))
			for _, param := range operation.Parameters {
				if param.In == "query" {
					line += " + query"
					break
				}
			}
			lines = append(lines, line)
		}
	}

	fmt.Fprintf(w, "Found %d routes:\n", len(lines))
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
