package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/StinkyLord/msbuild-compdb/internal/cmdline"
	"github.com/StinkyLord/msbuild-compdb/internal/compdb"
	"github.com/StinkyLord/msbuild-compdb/internal/config"
	"github.com/StinkyLord/msbuild-compdb/internal/logging"
	"github.com/StinkyLord/msbuild-compdb/internal/model"
	"github.com/StinkyLord/msbuild-compdb/internal/output"
	"github.com/StinkyLord/msbuild-compdb/internal/recorder"
	"github.com/StinkyLord/msbuild-compdb/internal/sources"
)

const toolVersion = "1.0.0"

var (
	flagConfig        []string
	flagEvents        []string
	flagTlogDirs      []string
	flagCompileOutput string
	flagLinkOutput    string
	flagWorkers       int
	flagWorkDir       string
	flagLogLevel      string
	flagLogFormat     string
	flagVerbose       bool

	flagTask    string
	flagProject string
)

var rootCmd = &cobra.Command{
	Use:   "msbuild-compdb",
	Short: "Compilation database generator for MSBuild C++ builds",
	Long: `msbuild-compdb turns the cl, link and lib command lines observed during an
MSBuild C++ build into machine-readable databases:
  • compile_commands.json : one entry per compiled source file
  • link_commands.json    : one entry per link or archive step

Invocations can be read from:
  • JSON Lines event captures : {"taskName","commandLine","projectFile"} per line
  • MSBuild tracking logs     : CL/link/Lib *.command.*.tlog files`,
	SilenceUsage: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build compile_commands.json and link_commands.json",
	Long: `Read build tool invocations and write the compile and link databases.

Examples:
  msbuild-compdb generate --events build-events.jsonl
  msbuild-compdb generate --tlog-dir x64/Debug --compile-output build/compile_commands.json
  msbuild-compdb generate --events - --link-output "" < events.jsonl`,
	RunE: runGenerate,
}

var parseCmd = &cobra.Command{
	Use:   "parse <command line>",
	Short: "Show how a single command line is classified",
	Long: `Run one command line through the parser and print the executable, tokens,
invocation kind, resolved files and canonical command as JSON.

Example:
  msbuild-compdb parse --task cl '"C:\VC\cl.exe" /I"inc dir" /Tc foo.c /Fofoo.obj'`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&flagConfig, "config", "c", nil, "TOML config file(s); later files override earlier ones")
	rootCmd.PersistentFlags().StringVar(&flagWorkDir, "work-dir", "", "Directory relative executable paths are resolved against (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: console, json")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose output (same as --log-level debug)")

	generateCmd.Flags().StringArrayVarP(&flagEvents, "events", "e", nil, "JSON Lines event file to read (use '-' for stdin); repeatable")
	generateCmd.Flags().StringArrayVar(&flagTlogDirs, "tlog-dir", nil, "Directory to search for MSBuild *.command.*.tlog files; repeatable")
	generateCmd.Flags().StringVarP(&flagCompileOutput, "compile-output", "o", "", "Compile database path (use '-' for stdout)")
	generateCmd.Flags().StringVar(&flagLinkOutput, "link-output", "", "Link database path (use '-' for stdout, empty to skip)")
	generateCmd.Flags().IntVarP(&flagWorkers, "workers", "j", 0, "Concurrent event handlers (1 keeps arrival order)")

	parseCmd.Flags().StringVarP(&flagTask, "task", "t", "cl", "MSBuild task name: cl, link or lib")
	parseCmd.Flags().StringVarP(&flagProject, "project", "p", "", "Project file the command belongs to")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(parseCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig merges config files, the environment and command line flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadFromFiles(flagConfig...)
	if err != nil {
		return nil, err
	}

	if flagWorkDir != "" {
		cfg.Processing.WorkDir = flagWorkDir
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Logging.Format = flagLogFormat
	}
	if flagVerbose {
		cfg.Logging.Level = "debug"
	}
	if cmd.Flags().Changed("compile-output") {
		cfg.Output.CompileCommands = flagCompileOutput
	}
	if cmd.Flags().Changed("link-output") {
		cfg.Output.LinkCommands = flagLinkOutput
	}
	if cmd.Flags().Changed("workers") {
		cfg.Processing.Workers = flagWorkers
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newParser(cfg *config.Config) (*cmdline.Parser, error) {
	canon, err := cmdline.NewCanonicalizer(cfg.Processing.WorkDir, cfg.Processing.PathCacheSize)
	if err != nil {
		return nil, err
	}
	return &cmdline.Parser{Profiles: cfg.Profiles(), Canon: canon}, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(flagEvents) == 0 && len(flagTlogDirs) == 0 {
		return fmt.Errorf("nothing to read: pass --events and/or --tlog-dir")
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	runID := uuid.NewString()
	logger.Info().Str("run_id", runID).Str("version", toolVersion).Msg("msbuild-compdb starting")

	parser, err := newParser(cfg)
	if err != nil {
		return err
	}

	var srcs []recorder.Source
	for _, path := range flagEvents {
		srcs = append(srcs, &sources.JSONLSource{Path: path, Logger: logger})
	}
	for _, dir := range flagTlogDirs {
		srcs = append(srcs, &sources.TlogSource{
			Dir:        dir,
			Compiler:   cfg.Tlog.Compiler,
			Linker:     cfg.Tlog.Linker,
			Librarian:  cfg.Tlog.Librarian,
			ProjectDir: cfg.Tlog.ProjectDir,
			Logger:     logger,
		})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	rec := recorder.New(compdb.New(), parser, logger, cfg.Processing.Workers)
	if err := rec.Run(ctx, srcs...); err != nil {
		return fmt.Errorf("reading events failed: %w", err)
	}

	if err := output.WriteDatabase(rec.Database().Snapshot(), cfg.Output.CompileCommands, cfg.Output.LinkCommands); err != nil {
		return err
	}

	stats := rec.Stats()
	logger.Info().
		Str("run_id", runID).
		Int64("events", stats.Events).
		Int64("ignored", stats.Ignored).
		Int64("malformed", stats.Malformed).
		Int64("compiles", stats.Compiles).
		Int64("links", stats.Links).
		Int64("compile_records", stats.CompileRecords).
		Msg("databases written")

	if cfg.Output.CompileCommands != "-" {
		fmt.Fprintf(os.Stderr, "Compile database written to: %s\n", cfg.Output.CompileCommands)
	}
	if cfg.Output.LinkCommands != "" && cfg.Output.LinkCommands != "-" {
		fmt.Fprintf(os.Stderr, "Link database written to: %s\n", cfg.Output.LinkCommands)
	}
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	parser, err := newParser(cfg)
	if err != nil {
		return err
	}

	inv, err := parser.Parse(model.Event{TaskName: flagTask, CommandLine: args[0], ProjectFile: flagProject})
	if err != nil {
		return err
	}
	return output.Encode(cmd.OutOrStdout(), inv)
}
