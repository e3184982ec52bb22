// 指示: miu200521358
package moutput

import "github.com/miu200521358/mu_pmxmerge/pkg/domain/model"

// IFileReader はモデル読み込みの契約を表す。
type IFileReader interface {
	// CanLoad は読み込み可能なパスか判定する。
	CanLoad(path string) bool
	// Load はモデルを読み込む。
	Load(path string) (*model.PmxModel, error)
}

// IFileWriter はモデル書き込みの契約を表す。
type IFileWriter interface {
	// Save はモデルを保存する。
	Save(path string, modelData *model.PmxModel, opts SaveOptions) error
}

// SaveOptions は保存時のオプションを表す。
type SaveOptions struct {
	// ForceTextEncoding が true の場合は TextEncoding で保存する。
	ForceTextEncoding bool
	TextEncoding      model.TextEncoding
}
