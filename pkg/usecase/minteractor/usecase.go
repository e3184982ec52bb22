// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_pmxmerge/pkg/usecase/port/moutput"

// PmxMergeUsecaseDeps はPMXマージユースケースの依存を表す。
type PmxMergeUsecaseDeps struct {
	ModelReader moutput.IFileReader
	ModelWriter moutput.IFileWriter
}

// PmxMergeUsecase はPMXモデルのマージ処理をまとめたユースケースを表す。
type PmxMergeUsecase struct {
	modelReader moutput.IFileReader
	modelWriter moutput.IFileWriter
}

// NewPmxMergeUsecase はPMXマージユースケースを生成する。
func NewPmxMergeUsecase(deps PmxMergeUsecaseDeps) *PmxMergeUsecase {
	return &PmxMergeUsecase{
		modelReader: deps.ModelReader,
		modelWriter: deps.ModelWriter,
	}
}
