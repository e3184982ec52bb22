// 指示: miu200521358
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/miu200521358/mu_pmxmerge/pkg/adapter/io_model/pmx"
	"github.com/miu200521358/mu_pmxmerge/pkg/usecase/minteractor"
)

const caseDirMode = 0o755

// caseKind は確認ケースの種類を表す。
type caseKind string

const (
	caseKindRoundTrip caseKind = "roundtrip"
	caseKindMerge     caseKind = "merge"
)

// caseStatus は確認ケースの結果を表す。
type caseStatus string

const (
	caseStatusPassed  caseStatus = "passed"
	caseStatusFailed  caseStatus = "failed"
	caseStatusMissing caseStatus = "missing"
	caseStatusPlanned caseStatus = "planned"
)

// runnerConfig は確認ランナーの実行設定を表す。
// RoundTrips は往復確認するPMX、Pairs はマージ確認する base/patch の組。
type runnerConfig struct {
	OutputRoot string
	DryRun     bool
	FailFast   bool
	RoundTrips []string
	Pairs      []mergePair
}

type mergePair struct {
	BasePath  string
	PatchPath string
}

// checkCase は1件分の確認内容を表す。
type checkCase struct {
	Number     int
	Kind       caseKind
	InputPath  string
	PatchPath  string
	OutputPath string
}

// checkResult は1件分の確認結果を表す。
type checkResult struct {
	Case    checkCase
	Status  caseStatus
	Elapsed time.Duration
	Detail  string
	Err     error
}

// progressCounter はマージ進捗イベントを種別ごとに数える。
type progressCounter struct {
	counts map[minteractor.MergeProgressEventType]int
	pruned int
}

// main はPMXの往復確認とマージ確認をまとめて実行する。
//
//	go run ./internal/integration_test -pair base.pmx,patch.pmx model.pmx
func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	config, err := parseRunnerConfig(args, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	cases := planCases(config)
	if len(cases) == 0 {
		fmt.Fprintln(errOut, "確認対象のPMXがありません")
		return 2
	}

	results := runCases(out, config, cases)
	printSummary(out, results)
	for _, result := range results {
		if result.Status == caseStatusFailed {
			return 1
		}
	}
	return 0
}

// parseRunnerConfig は引数から実行設定を作る。位置引数は往復確認の対象になる。
func parseRunnerConfig(args []string, errOut io.Writer) (runnerConfig, error) {
	config := runnerConfig{}
	flags := flag.NewFlagSet("integration_test", flag.ContinueOnError)
	flags.SetOutput(errOut)
	flags.StringVar(&config.OutputRoot, "output-root", defaultOutputRoot(), "確認結果の出力先")
	flags.BoolVar(&config.DryRun, "dry-run", false, "確認内容の一覧だけ表示する")
	flags.BoolVar(&config.FailFast, "fail-fast", false, "最初の失敗で止める")
	flags.Func("pair", "マージ確認する base.pmx,patch.pmx (複数指定可)", func(value string) error {
		base, patch, ok := strings.Cut(value, ",")
		if !ok || strings.TrimSpace(base) == "" || strings.TrimSpace(patch) == "" {
			return fmt.Errorf("base.pmx,patch.pmx の形式で指定してください: %s", value)
		}
		config.Pairs = append(config.Pairs, mergePair{
			BasePath:  filepath.Clean(strings.TrimSpace(base)),
			PatchPath: filepath.Clean(strings.TrimSpace(patch)),
		})
		return nil
	})
	if err := flags.Parse(args); err != nil {
		return runnerConfig{}, err
	}
	for _, path := range flags.Args() {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			config.RoundTrips = append(config.RoundTrips, filepath.Clean(trimmed))
		}
	}
	if strings.TrimSpace(config.OutputRoot) == "" {
		return runnerConfig{}, errors.New("output-root が空です")
	}
	config.OutputRoot = filepath.Clean(config.OutputRoot)
	return config, nil
}

// defaultOutputRoot はこのファイルと同じ場所の output を返す。
func defaultOutputRoot() string {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "output"
	}
	return filepath.Join(filepath.Dir(currentFile), "output")
}

// planCases は往復確認、マージ確認の順に番号と出力先を割り当てる。
func planCases(config runnerConfig) []checkCase {
	repository := pmx.NewPmxRepository()
	cases := make([]checkCase, 0, len(config.RoundTrips)+len(config.Pairs))
	add := func(kind caseKind, inputPath string, patchPath string, label string) {
		number := len(cases) + 1
		cases = append(cases, checkCase{
			Number:     number,
			Kind:       kind,
			InputPath:  inputPath,
			PatchPath:  patchPath,
			OutputPath: filepath.Join(config.OutputRoot, fmt.Sprintf("%03d_%s", number, kind), label+".pmx"),
		})
	}
	for _, path := range config.RoundTrips {
		add(caseKindRoundTrip, path, "", repository.InferName(path))
	}
	for _, pair := range config.Pairs {
		add(caseKindMerge, pair.BasePath, pair.PatchPath,
			repository.InferName(pair.BasePath)+"_"+repository.InferName(pair.PatchPath))
	}
	return cases
}

func runCases(out io.Writer, config runnerConfig, cases []checkCase) []checkResult {
	repository := pmx.NewPmxRepository()
	usecase := minteractor.NewPmxMergeUsecase(minteractor.PmxMergeUsecaseDeps{
		ModelReader: repository,
		ModelWriter: repository,
	})

	results := make([]checkResult, 0, len(cases))
	for _, c := range cases {
		result := runCase(usecase, config.DryRun, c)
		results = append(results, result)
		fmt.Fprintf(out, "[%d/%d] %s %s: %s", c.Number, len(cases), c.Kind, result.Status, c.InputPath)
		if c.PatchPath != "" {
			fmt.Fprintf(out, " + %s", c.PatchPath)
		}
		switch {
		case result.Err != nil:
			fmt.Fprintf(out, " (%v)\n", result.Err)
		case result.Detail != "":
			fmt.Fprintf(out, " -> %s [%s] %s\n", c.OutputPath, result.Elapsed.Round(time.Millisecond), result.Detail)
		default:
			fmt.Fprintf(out, " -> %s\n", c.OutputPath)
		}
		if result.Status == caseStatusFailed && config.FailFast {
			break
		}
	}
	return results
}

func runCase(usecase *minteractor.PmxMergeUsecase, dryRun bool, c checkCase) checkResult {
	result := checkResult{Case: c, Status: caseStatusFailed}
	for _, path := range []string{c.InputPath, c.PatchPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			result.Status = caseStatusMissing
			result.Err = err
			return result
		}
	}
	if dryRun {
		result.Status = caseStatusPlanned
		return result
	}
	if err := os.MkdirAll(filepath.Dir(c.OutputPath), caseDirMode); err != nil {
		result.Err = fmt.Errorf("出力ディレクトリ作成に失敗しました: %w", err)
		return result
	}

	startedAt := time.Now()
	var err error
	if c.Kind == caseKindMerge {
		result.Detail, err = checkMerge(usecase, c)
	} else {
		result.Detail, err = checkRoundTrip(usecase, c)
	}
	result.Elapsed = time.Since(startedAt)
	if err != nil {
		result.Err = err
		return result
	}
	result.Status = caseStatusPassed
	return result
}

// checkRoundTrip は読み込んだPMXを保存し直し、元ファイルとバイト単位で比較する。
func checkRoundTrip(usecase *minteractor.PmxMergeUsecase, c checkCase) (string, error) {
	modelData, err := usecase.LoadModel(nil, c.InputPath)
	if err != nil {
		return "", err
	}
	if err := usecase.SaveModel(nil, c.OutputPath, modelData, minteractor.SaveOptions{}); err != nil {
		return "", err
	}
	original, err := os.ReadFile(c.InputPath)
	if err != nil {
		return "", err
	}
	saved, err := os.ReadFile(c.OutputPath)
	if err != nil {
		return "", err
	}
	if offset := firstDifference(original, saved); offset >= 0 {
		return "", fmt.Errorf("往復結果が一致しません: offset=%d size=%d->%d", offset, len(original), len(saved))
	}
	return fmt.Sprintf("bytes=%d vertices=%d materials=%d bones=%d morphs=%d",
		len(saved), len(modelData.Vertices), len(modelData.Materials), len(modelData.Bones), len(modelData.Morphs)), nil
}

// checkMerge は既定ポリシーでマージして保存し、保存結果を検証する。
func checkMerge(usecase *minteractor.PmxMergeUsecase, c checkCase) (string, error) {
	counter := &progressCounter{counts: map[minteractor.MergeProgressEventType]int{}}
	result, err := usecase.MergeFiles(context.Background(), minteractor.MergeRequest{
		BasePath:         c.InputPath,
		PatchPath:        c.PatchPath,
		OutputPath:       c.OutputPath,
		Options:          minteractor.DefaultMergeOptions(),
		ProgressReporter: counter,
	})
	if err != nil {
		return "", err
	}
	if err := usecase.ValidateFiles(nil, result.OutputPath); err != nil {
		return "", fmt.Errorf("マージ結果の検証に失敗しました: %w", err)
	}
	return fmt.Sprintf("%s warnings=%d", counter.summary(), len(result.Report.Warnings)), nil
}

// firstDifference は最初に異なるバイト位置を返す。一致すれば -1。
func firstDifference(left []byte, right []byte) int {
	if bytes.Equal(left, right) {
		return -1
	}
	limit := min(len(left), len(right))
	for i := 0; i < limit; i++ {
		if left[i] != right[i] {
			return i
		}
	}
	return limit
}

func printSummary(out io.Writer, results []checkResult) {
	counts := map[caseStatus]int{}
	for _, result := range results {
		counts[result.Status]++
	}
	fmt.Fprintf(out, "確認結果: total=%d passed=%d failed=%d missing=%d planned=%d\n",
		len(results), counts[caseStatusPassed], counts[caseStatusFailed], counts[caseStatusMissing], counts[caseStatusPlanned])
}

// ReportMergeProgress は進捗イベントを数える。
func (c *progressCounter) ReportMergeProgress(event minteractor.MergeProgressEvent) {
	c.counts[event.Type]++
	if event.Type == minteractor.MergeProgressEventTypeVerticesPruned {
		c.pruned = event.Count
	}
}

func (c *progressCounter) summary() string {
	stages := make([]string, 0, len(c.counts))
	for eventType, count := range c.counts {
		stages = append(stages, fmt.Sprintf("%s:%d", eventType, count))
	}
	sort.Strings(stages)
	return fmt.Sprintf("pruned=%d stages=%s", c.pruned, strings.Join(stages, ","))
}
