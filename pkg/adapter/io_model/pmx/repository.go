// 指示: miu200521358
package pmx

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_pmxmerge/pkg/domain/model"
	"github.com/miu200521358/mu_pmxmerge/pkg/shared/base/logging"
	"github.com/miu200521358/mu_pmxmerge/pkg/usecase/port/moutput"
)

// PmxRepository はPMXファイルの読み書きを表す。
type PmxRepository struct{}

// NewPmxRepository はPmxRepositoryを生成する。
func NewPmxRepository() *PmxRepository {
	return &PmxRepository{}
}

// CanLoad は拡張子がPMXか判定する。
func (r *PmxRepository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pmx")
}

// InferName はパスからモデル名を推定する。
func (r *PmxRepository) InferName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load はPMXファイルを読み込む。
func (r *PmxRepository) Load(path string) (*model.PmxModel, error) {
	if !r.CanLoad(path) {
		return nil, fmt.Errorf("PMX以外のファイルは読み込めません: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("PMXファイルの読み込みに失敗しました: %w", err)
	}
	modelData, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("PMX解析に失敗しました: %s: %w", path, err)
	}
	modelData.Path = path
	logPmxDebug(
		"PMX読み込み完了: path=%s vertices=%d faces=%d materials=%d bones=%d morphs=%d",
		path, len(modelData.Vertices), len(modelData.Faces), len(modelData.Materials), len(modelData.Bones), len(modelData.Morphs),
	)
	return modelData, nil
}

// Save はPMXファイルを保存する。
// 一時ファイルへ書き出してから置き換えるため、失敗時に既存ファイルは壊れない。
func (r *PmxRepository) Save(path string, modelData *model.PmxModel, opts moutput.SaveOptions) error {
	if modelData == nil {
		return fmt.Errorf("保存対象モデルが未設定です")
	}
	if !r.CanLoad(path) {
		return fmt.Errorf("保存先拡張子が .pmx ではありません: %s", path)
	}
	encoding := modelData.TextEncoding
	if opts.ForceTextEncoding {
		encoding = opts.TextEncoding
	}

	var buf bytes.Buffer
	if err := EncodeWithEncoding(&buf, modelData, encoding); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, ".pmxmerge-*.tmp")
	if err != nil {
		return fmt.Errorf("一時ファイルの作成に失敗しました: %w", err)
	}
	tempPath := temp.Name()
	if _, err := temp.Write(buf.Bytes()); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("PMXファイルの書き込みに失敗しました: %w", err)
	}
	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("PMXファイルの書き込みに失敗しました: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("PMXファイルの置き換えに失敗しました: %w", err)
	}
	logPmxDebug("PMX保存完了: path=%s size=%d", path, buf.Len())
	return nil
}

// Decode はPMXバイト列をモデルへ変換する。
func Decode(data []byte) (*model.PmxModel, error) {
	return newPmxReader(data).decodeModel()
}

// Encode はモデル自身のテキストエンコードでPMXを書き出す。
func Encode(w io.Writer, modelData *model.PmxModel) error {
	if modelData == nil {
		return fmt.Errorf("保存対象モデルが未設定です")
	}
	return EncodeWithEncoding(w, modelData, modelData.TextEncoding)
}

// EncodeWithEncoding は指定エンコードでPMXを書き出す。
// 参照幅は書き込み前に最終件数から決定する。
func EncodeWithEncoding(w io.Writer, modelData *model.PmxModel, encoding model.TextEncoding) error {
	if modelData == nil {
		return fmt.Errorf("保存対象モデルが未設定です")
	}
	header, err := resolveHeader(modelData, encoding)
	if err != nil {
		return err
	}
	return newPmxWriter(w, header).encodeModel(modelData)
}

// logPmxDebug はPMX入出力のデバッグログを出力する。
func logPmxDebug(message string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Debug(message, params...)
}
