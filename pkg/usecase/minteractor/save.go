// 指示: miu200521358
package minteractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_pmxmerge/pkg/usecase/port/moutput"
)

// SaveModel はPMXモデルを保存する。
func (uc *PmxMergeUsecase) SaveModel(rep moutput.IFileWriter, path string, modelData *ModelData, opts SaveOptions) error {
	writer := rep
	if writer == nil {
		writer = uc.modelWriter
	}
	if writer == nil {
		return fmt.Errorf("モデル保存リポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("保存先パスが未指定です")
	}
	if modelData == nil {
		return fmt.Errorf("保存対象モデルが未設定です")
	}
	return writer.Save(path, modelData, opts)
}

// Merge は読み込み済みのベースとパッチをマージする。
func (uc *PmxMergeUsecase) Merge(
	ctx context.Context,
	base *ModelData,
	patch *ModelData,
	opts MergeOptions,
	reporter IMergeProgressReporter,
) (*MergeResult, error) {
	merged, report, err := mergeModels(ctx, base, patch, opts, reporter)
	if err != nil {
		return nil, err
	}
	return &MergeResult{Model: merged, OutputPath: base.Path, Report: report}, nil
}

// MergeFiles はベースとパッチを読み込み、マージ結果をPMXとして保存する。
// DryRun の場合は保存しない。
func (uc *PmxMergeUsecase) MergeFiles(ctx context.Context, request MergeRequest) (*MergeResult, error) {
	if strings.TrimSpace(request.BasePath) == "" {
		return nil, fmt.Errorf("ベースPMXパスが未指定です")
	}
	if strings.TrimSpace(request.PatchPath) == "" {
		return nil, fmt.Errorf("パッチPMXパスが未指定です")
	}
	if samePath(request.BasePath, request.PatchPath) {
		return nil, fmt.Errorf("ベースとパッチに同じファイルが指定されています: %s", request.BasePath)
	}
	outputPath, err := ResolveOutputPath(request.BasePath, request.OutputPath)
	if err != nil {
		return nil, err
	}

	base, err := uc.LoadModel(request.Reader, request.BasePath)
	if err != nil {
		return nil, fmt.Errorf("ベースPMXの読み込みに失敗しました: %w", err)
	}
	patch, err := uc.LoadModel(request.Reader, request.PatchPath)
	if err != nil {
		return nil, fmt.Errorf("パッチPMXの読み込みに失敗しました: %w", err)
	}

	opts := request.Options
	opts.BaseDir = filepath.Dir(request.BasePath)
	opts.PatchDir = filepath.Dir(request.PatchPath)
	result, err := uc.Merge(ctx, base, patch, opts, request.ProgressReporter)
	if err != nil {
		return nil, err
	}
	result.OutputPath = outputPath
	result.Model.Path = outputPath
	if rebased := rebaseTexturePaths(result.Model, len(base.Textures), filepath.Dir(request.BasePath),
		filepath.Dir(request.PatchPath), filepath.Dir(outputPath)); rebased > 0 {
		logMergeInfo("[%s] テクスチャパスを保存先基準へ付け替えました: %d件", result.Report.RunID, rebased)
	}
	if request.DryRun {
		logMergeInfo("[%s] 確認実行のため保存しません: %s", result.Report.RunID, outputPath)
		return result, nil
	}
	if samePath(request.BasePath, outputPath) {
		logMergeInfo("[%s] ベースPMXを上書きします: %s", result.Report.RunID, outputPath)
	}
	if err := createOutputDir(outputPath); err != nil {
		return nil, err
	}
	if err := uc.SaveModel(request.Writer, outputPath, result.Model, request.SaveOptions); err != nil {
		return nil, fmt.Errorf("マージ結果の保存に失敗しました: %w", err)
	}
	return result, nil
}

// ValidateFiles はPMXを読み込み、名前と参照の整合性を検査する。
// 全ファイルの問題をまとめて返す。
func (uc *PmxMergeUsecase) ValidateFiles(rep moutput.IFileReader, paths ...string) error {
	issues := make([]error, 0)
	for _, path := range paths {
		modelData, err := uc.LoadModel(rep, path)
		if err != nil {
			issues = append(issues, fmt.Errorf("PMXの読み込みに失敗しました: %s: %w", path, err))
			continue
		}
		// 同名ファイルを区別できるようパス全体をラベルにする。
		label := filepath.Clean(path)
		issues = append(issues, ValidateModelNames(label, modelData)...)
		issues = append(issues, validateModelReferences(label, modelData)...)
	}
	return errors.Join(issues...)
}

// ResolveOutputPath はPMX保存先パスを解決し、拡張子を検証する。
// 未指定ならベースへ上書きし、相対パスはベースのディレクトリから解決する。
func ResolveOutputPath(basePath string, outputPath string) (string, error) {
	resolved := strings.TrimSpace(outputPath)
	switch {
	case resolved == "":
		resolved = strings.TrimSpace(basePath)
	case !filepath.IsAbs(resolved):
		resolved = filepath.Join(filepath.Dir(basePath), resolved)
	}
	if resolved == "" {
		return "", fmt.Errorf("保存先PMXパスが未指定です")
	}
	if !strings.EqualFold(filepath.Ext(resolved), ".pmx") {
		return "", fmt.Errorf("保存先拡張子が .pmx ではありません: %s", resolved)
	}
	return filepath.Clean(resolved), nil
}

func samePath(left string, right string) bool {
	leftAbs, err := filepath.Abs(left)
	if err != nil {
		leftAbs = filepath.Clean(left)
	}
	rightAbs, err := filepath.Abs(right)
	if err != nil {
		rightAbs = filepath.Clean(right)
	}
	return leftAbs == rightAbs
}
