// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_pmxmerge/pkg/usecase/port/moutput"
)

// LoadModel はPMXモデルを読み込む。
func (uc *PmxMergeUsecase) LoadModel(rep moutput.IFileReader, path string) (*ModelData, error) {
	repo := rep
	if repo == nil {
		repo = uc.modelReader
	}
	if repo == nil {
		return nil, fmt.Errorf("モデル読み込みリポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("読み込みパスが未指定です")
	}
	if !repo.CanLoad(path) {
		return nil, fmt.Errorf("入力形式が未対応です: %s", path)
	}
	modelData, err := repo.Load(path)
	if err != nil {
		return nil, err
	}
	if modelData == nil {
		return nil, fmt.Errorf("モデル読み込み結果が空です: %s", path)
	}
	return modelData, nil
}
