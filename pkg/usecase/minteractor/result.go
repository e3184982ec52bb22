// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_pmxmerge/pkg/domain/model"
	"github.com/miu200521358/mu_pmxmerge/pkg/usecase/port/moutput"
)

// ModelData はマージ対象モデルを表す。
type ModelData = model.PmxModel

// SaveOptions は保存時オプションを表す。
type SaveOptions = moutput.SaveOptions

// MergeProgressEventType はマージ処理の進捗イベント種別を表す。
type MergeProgressEventType string

const (
	// MergeProgressEventTypeInputValidated は入力検証完了イベントを表す。
	MergeProgressEventTypeInputValidated MergeProgressEventType = "input_validated"
	// MergeProgressEventTypeIdentityResolved は同一性解決と再割当表作成の完了イベントを表す。
	MergeProgressEventTypeIdentityResolved MergeProgressEventType = "identity_resolved"
	// MergeProgressEventTypeCategoryMerged はカテゴリ単位のマージ完了イベントを表す。
	MergeProgressEventTypeCategoryMerged MergeProgressEventType = "category_merged"
	// MergeProgressEventTypeReferencesRewritten は参照書き換え完了イベントを表す。
	MergeProgressEventTypeReferencesRewritten MergeProgressEventType = "references_rewritten"
	// MergeProgressEventTypeVerticesPruned は未使用頂点削除完了イベントを表す。
	MergeProgressEventTypeVerticesPruned MergeProgressEventType = "vertices_pruned"
	// MergeProgressEventTypeCompleted はマージ完了イベントを表す。
	MergeProgressEventTypeCompleted MergeProgressEventType = "completed"
)

// MergeProgressEvent はマージ処理の進捗イベントを表す。
type MergeProgressEvent struct {
	Type     MergeProgressEventType
	Category Category
	Count    int
}

// IMergeProgressReporter はマージ処理の進捗通知契約を表す。
type IMergeProgressReporter interface {
	// ReportMergeProgress はマージ処理進捗を通知する。
	ReportMergeProgress(event MergeProgressEvent)
}

// MergeRequest はファイル指定のマージ要求を表す。
type MergeRequest struct {
	BasePath         string
	PatchPath        string
	OutputPath       string
	Options          MergeOptions
	DryRun           bool
	Reader           moutput.IFileReader
	Writer           moutput.IFileWriter
	SaveOptions      SaveOptions
	ProgressReporter IMergeProgressReporter
}

// MergeResult はマージ結果を表す。
type MergeResult struct {
	Model      *ModelData
	OutputPath string
	Report     *MergeReport
}

// reportMergeProgress は進捗通知先があればイベントを送る。
func reportMergeProgress(reporter IMergeProgressReporter, event MergeProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportMergeProgress(event)
}
