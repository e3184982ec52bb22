// 指示: miu200521358
package minteractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const outputDirFileMode = 0o755

// createOutputDir は保存先ディレクトリを作成する。
func createOutputDir(outputPath string) error {
	outputDir := filepath.Dir(outputPath)
	if outputDir == "" {
		return fmt.Errorf("保存先ディレクトリの解決に失敗しました")
	}
	if err := os.MkdirAll(outputDir, outputDirFileMode); err != nil {
		return fmt.Errorf("保存先ディレクトリの作成に失敗しました: %w", err)
	}
	return nil
}

// rebaseTexturePaths はテクスチャの相対パスを保存先ディレクトリ基準へ付け替える。
// ベース由来は先頭 baseTextureCount 件、残りはパッチ由来として扱う。
// 絶対パスと共有toon名は付け替えない。
func rebaseTexturePaths(modelData *ModelData, baseTextureCount int, baseDir string, patchDir string, outputDir string) int {
	if modelData == nil {
		return 0
	}
	rebased := 0
	for index, texture := range modelData.Textures {
		if texture == nil {
			continue
		}
		sourceDir := patchDir
		if index < baseTextureCount {
			sourceDir = baseDir
		}
		name, ok := rebaseTexturePath(texture.Name, sourceDir, outputDir)
		if !ok || name == texture.Name {
			continue
		}
		logMergeDebug("テクスチャパス付け替え: %s -> %s", texture.Name, name)
		texture.Name = name
		rebased++
	}
	return rebased
}

// rebaseTexturePath は sourceDir 基準の相対パスを outputDir 基準へ変換する。
// 区切り文字は元のパスの表記に合わせる。
func rebaseTexturePath(textureName string, sourceDir string, outputDir string) (string, bool) {
	trimmed := strings.TrimSpace(textureName)
	if trimmed == "" || filepath.Clean(sourceDir) == filepath.Clean(outputDir) {
		return "", false
	}
	slashed := strings.ReplaceAll(trimmed, "\\", "/")
	if !isRelativeTexturePath(slashed) {
		return "", false
	}
	absolute := filepath.Join(sourceDir, filepath.FromSlash(slashed))
	relative, err := filepath.Rel(outputDir, absolute)
	if err != nil {
		return "", false
	}
	relative = filepath.ToSlash(relative)
	if strings.Contains(textureName, "\\") {
		relative = strings.ReplaceAll(relative, "/", "\\")
	}
	return relative, true
}

// textureKey はテクスチャ重複判定のキーを返す。
// sourceDir があれば相対パスをそこから解決した絶対パスにする。
func textureKey(textureName string, sourceDir string) string {
	slashed := strings.ReplaceAll(strings.TrimSpace(textureName), "\\", "/")
	if strings.TrimSpace(sourceDir) == "" || !isRelativeTexturePath(slashed) {
		return slashed
	}
	resolved := filepath.Join(sourceDir, filepath.FromSlash(slashed))
	if absolute, err := filepath.Abs(resolved); err == nil {
		resolved = absolute
	}
	return filepath.ToSlash(resolved)
}

// isRelativeTexturePath はモデル位置基準で解決する相対パスか判定する。
// 絶対パス、ドライブ指定、ディレクトリなしの共有toon名は対象外。
func isRelativeTexturePath(slashed string) bool {
	if slashed == "" || filepath.IsAbs(filepath.FromSlash(slashed)) || isWindowsDrivePath(slashed) {
		return false
	}
	return strings.Contains(slashed, "/") || !isSharedToonName(slashed)
}

func isWindowsDrivePath(path string) bool {
	return len(path) >= 2 && path[1] == ':'
}

// isSharedToonName は toon01.bmp から toon10.bmp までの共有toon名か判定する。
func isSharedToonName(name string) bool {
	lower := strings.ToLower(name)
	for i := 1; i <= 10; i++ {
		if lower == fmt.Sprintf("toon%02d.bmp", i) {
			return true
		}
	}
	return false
}
