// 指示: miu200521358
package minteractor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CategoryReport はカテゴリ単位のマージ件数を表す。
type CategoryReport struct {
	Category Category `json:"category"`
	Kept     int      `json:"kept"`
	Updated  int      `json:"updated"`
	Appended int      `json:"appended"`
	Skipped  int      `json:"skipped"`
	Total    int      `json:"total"`
}

// MergeWarning はマージ中の警告を表す。
type MergeWarning struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// MergeReport はマージ結果の集計を表す。
type MergeReport struct {
	RunID              string            `json:"run_id"`
	StartedAt          time.Time         `json:"started_at"`
	FinishedAt         time.Time         `json:"finished_at"`
	BaseName           string            `json:"base_name"`
	PatchName          string            `json:"patch_name"`
	AppendKeys         []string          `json:"append"`
	UpdateKeys         []string          `json:"update"`
	Categories         []*CategoryReport `json:"categories"`
	PrunedVertices     int               `json:"pruned_vertices"`
	PrunedMorphOffsets int               `json:"pruned_morph_offsets"`
	DroppedReferences  int               `json:"dropped_references"`
	ClearedReferences  int               `json:"cleared_references"`
	Warnings           []MergeWarning    `json:"warnings"`
}

func newMergeReport(base *ModelData, patch *ModelData, opts MergeOptions) *MergeReport {
	return &MergeReport{
		RunID:      uuid.Must(uuid.NewV7()).String(),
		StartedAt:  time.Now(),
		BaseName:   base.Name,
		PatchName:  patch.Name,
		AppendKeys: opts.AppendKeys(),
		UpdateKeys: opts.UpdateKeys(),
		Categories: make([]*CategoryReport, 0, 9),
		Warnings:   make([]MergeWarning, 0),
	}
}

// Category はカテゴリの集計を返す。未登録なら追加する。
func (r *MergeReport) Category(category Category) *CategoryReport {
	for _, report := range r.Categories {
		if report.Category == category {
			return report
		}
	}
	report := &CategoryReport{Category: category}
	r.Categories = append(r.Categories, report)
	return report
}

func (r *MergeReport) warn(id string, category Category, format string, params ...any) {
	message := fmt.Sprintf(format, params...)
	r.Warnings = append(r.Warnings, MergeWarning{ID: id, Category: category, Message: message})
	logMergeWarn("[%s] %s", r.RunID, message)
}
