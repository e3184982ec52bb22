// 指示: miu200521358
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/miu200521358/mu_pmxmerge/pkg/adapter/io_model/pmx"
	"github.com/miu200521358/mu_pmxmerge/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_pmxmerge/pkg/infra/config"
	"github.com/miu200521358/mu_pmxmerge/pkg/shared/base/logging"
	"github.com/miu200521358/mu_pmxmerge/pkg/usecase/minteractor"
	"github.com/spf13/cobra"
)

const reportFileMode = 0o644

// options はCLI引数を保持する。
type options struct {
	basePath     string
	patchPath    string
	outputPath   string
	configPath   string
	appendKeys   []string
	updateKeys   []string
	reportPath   string
	dryRun       bool
	validateOnly bool
	logLevel     string
	verbose      bool
	textEncoding string
}

// main はPMXマージを実行する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	cmd := newRootCommand(out, errOut)
	cmd.SetArgs(args)
	return cmd.Execute()
}

// newRootCommand はルートコマンドを生成する。
// 位置引数は base, patch, out の順に解釈する。
func newRootCommand(out io.Writer, errOut io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "pmxmerge [base.pmx] [patch.pmx] [out.pmx]",
		Short:         messages.HelpUsageShort,
		Long:          messages.HelpUsageLong,
		Args:          cobra.MaximumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyPositionals(opts, args)
			return execute(cmd, opts, out, errOut)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.Flags()
	flags.StringVarP(&opts.basePath, "base", "b", "", messages.FlagBase)
	flags.StringVarP(&opts.patchPath, "patch", "p", "", messages.FlagPatch)
	flags.StringVarP(&opts.outputPath, "out", "o", "", messages.FlagOut)
	flags.StringVar(&opts.configPath, "config", "", messages.FlagConfig)
	flags.StringSliceVar(&opts.appendKeys, "append", nil, messages.FlagAppend)
	flags.StringSliceVar(&opts.updateKeys, "update", nil, messages.FlagUpdate)
	flags.StringVar(&opts.reportPath, "report", "", messages.FlagReport)
	flags.BoolVar(&opts.dryRun, "dry-run", false, messages.FlagDryRun)
	flags.BoolVar(&opts.validateOnly, "validate-only", false, messages.FlagValidateOnly)
	flags.StringVar(&opts.logLevel, "log-level", "", messages.FlagLogLevel)
	flags.BoolVar(&opts.verbose, "verbose", false, messages.FlagVerbose)
	flags.StringVar(&opts.textEncoding, "text-encoding", "", messages.FlagTextEncoding)
	return cmd
}

func applyPositionals(opts *options, args []string) {
	if opts.basePath == "" && len(args) > 0 {
		opts.basePath = args[0]
	}
	if opts.patchPath == "" && len(args) > 1 {
		opts.patchPath = args[1]
	}
	if opts.outputPath == "" && len(args) > 2 {
		opts.outputPath = args[2]
	}
}

// loadConfig は設定ファイルを読み込み、明示されたフラグで上書きする。
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("append") {
		cfg.Append = opts.appendKeys
	}
	if flags.Changed("update") {
		cfg.Update = opts.updateKeys
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if flags.Changed("text-encoding") {
		cfg.TextEncoding = opts.textEncoding
	}
	return cfg, nil
}

// setupLogger は設定に従って既定ロガーを差し替える。
func setupLogger(cfg config.Config, errOut io.Writer) error {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(errOut, level)
	if cfg.Verbose {
		logger.SetLevel(logging.LOG_LEVEL_VERBOSE)
		logger.EnableVerbose(logging.VERBOSE_INDEX_MERGE)
		logger.EnableVerbose(logging.VERBOSE_INDEX_IO)
	}
	logging.SetDefaultLogger(logger)
	return nil
}

func execute(cmd *cobra.Command, opts *options, out io.Writer, errOut io.Writer) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if err := setupLogger(cfg, errOut); err != nil {
		return err
	}
	if opts.basePath == "" {
		return errors.New(messages.MessageBaseRequired)
	}
	if opts.patchPath == "" {
		return errors.New(messages.MessagePatchRequired)
	}
	mergeOptions, err := cfg.MergeOptions()
	if err != nil {
		return err
	}
	textEncoding, forceTextEncoding, err := cfg.SaveTextEncoding()
	if err != nil {
		return err
	}

	repository := pmx.NewPmxRepository()
	uc := minteractor.NewPmxMergeUsecase(minteractor.PmxMergeUsecaseDeps{
		ModelReader: repository,
		ModelWriter: repository,
	})

	printLine(out, messages.LogLoadStart, opts.basePath, opts.patchPath)
	if opts.validateOnly {
		if err := uc.ValidateFiles(nil, opts.basePath, opts.patchPath); err != nil {
			return err
		}
		printLine(out, messages.LogValidateSuccess, opts.basePath)
		printLine(out, messages.LogValidateSuccess, opts.patchPath)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	result, err := uc.MergeFiles(ctx, minteractor.MergeRequest{
		BasePath:   opts.basePath,
		PatchPath:  opts.patchPath,
		OutputPath: opts.outputPath,
		Options:    mergeOptions,
		DryRun:     opts.dryRun,
		SaveOptions: minteractor.SaveOptions{
			ForceTextEncoding: forceTextEncoding,
			TextEncoding:      textEncoding,
		},
	})
	if err != nil {
		return err
	}

	if opts.reportPath != "" {
		if err := writeReport(opts.reportPath, result.Report); err != nil {
			return err
		}
		printLine(out, messages.LogReportSaved, opts.reportPath)
	}
	printSummary(out, result.Report)
	if opts.dryRun {
		printLine(out, messages.LogDryRunSuccess, result.OutputPath)
		return nil
	}
	printLine(out, messages.LogMergeSuccess, result.OutputPath)
	return nil
}

// writeReport はマージレポートをJSONで保存する。
func writeReport(path string, report *minteractor.MergeReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("レポートの変換に失敗しました: %w", err)
	}
	if err := os.WriteFile(path, data, reportFileMode); err != nil {
		return fmt.Errorf("レポートの保存に失敗しました: %w", err)
	}
	return nil
}

func printSummary(out io.Writer, report *minteractor.MergeReport) {
	if report == nil {
		return
	}
	for _, category := range report.Categories {
		printLine(out, messages.LogCategorySummary, category.Category, category.Kept, category.Updated,
			category.Appended, category.Skipped, category.Total)
	}
	printLine(out, messages.LogPruneSummary, report.PrunedVertices, report.PrunedMorphOffsets)
	if len(report.Warnings) > 0 {
		printLine(out, messages.LogWarningSummary, len(report.Warnings))
	}
}

func printLine(out io.Writer, format string, params ...any) {
	fmt.Fprintf(out, "[%s] %s\n", messages.AppName, fmt.Sprintf(format, params...))
}
