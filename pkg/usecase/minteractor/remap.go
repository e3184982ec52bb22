// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_pmxmerge/pkg/shared/base/merr"

// modelSource はレコードの取得元モデルを表す。
type modelSource int

const (
	sourceBase modelSource = iota
	sourcePatch
)

func (s modelSource) label() string {
	if s == sourcePatch {
		return modelLabelPatch
	}
	return modelLabelBase
}

// remapSkipped はポリシーにより出力へ取り込まれなかったレコードを表す。
const remapSkipped = -2

// remapTable は取得元モデルの位置からマージ後の位置への対応を表す。
type remapTable struct {
	category Category
	source   modelSource
	targets  []int
}

// newIdentityRemap は位置をそのまま保つ対応表を生成する。
func newIdentityRemap(category Category, source modelSource, count int) *remapTable {
	targets := make([]int, count)
	for i := range targets {
		targets[i] = i
	}
	return &remapTable{category: category, source: source, targets: targets}
}

// newSkippedRemap は全件未取り込みで初期化した対応表を生成する。
func newSkippedRemap(category Category, source modelSource, count int) *remapTable {
	targets := make([]int, count)
	for i := range targets {
		targets[i] = remapSkipped
	}
	return &remapTable{category: category, source: source, targets: targets}
}

func (t *remapTable) set(localIndex int, mergedIndex int) {
	t.targets[localIndex] = mergedIndex
}

func (t *remapTable) len() int {
	return len(t.targets)
}

// resolve はマージ後の位置を返す。
// -1 は参照なしとしてそのまま返し、取り込まれなかったレコードは ok=false を返す。
// 表に存在しない位置は内部不整合として DanglingReference を返す。
func (t *remapTable) resolve(localIndex int) (int, bool, error) {
	if localIndex == -1 {
		return -1, true, nil
	}
	if t == nil || localIndex < 0 || localIndex >= len(t.targets) {
		category, source := "", ""
		if t != nil {
			category, source = string(t.category), t.source.label()
		}
		return 0, false, merr.NewDanglingReference(category, source, localIndex)
	}
	target := t.targets[localIndex]
	if target == remapSkipped {
		return -1, false, nil
	}
	return target, true, nil
}

// remapTables はカテゴリと取得元ごとの対応表をまとめる。
type remapTables struct {
	tables map[Category][2]*remapTable
}

func newRemapTables() *remapTables {
	return &remapTables{tables: map[Category][2]*remapTable{}}
}

func (r *remapTables) put(table *remapTable) {
	pair := r.tables[table.category]
	pair[table.source] = table
	r.tables[table.category] = pair
}

func (r *remapTables) get(category Category, source modelSource) *remapTable {
	return r.tables[category][source]
}
