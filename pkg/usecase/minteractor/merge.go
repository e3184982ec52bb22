// 指示: miu200521358
package minteractor

import (
	"context"
	"fmt"
	"time"

	"github.com/miu200521358/mu_pmxmerge/pkg/domain/mmath"
	"github.com/miu200521358/mu_pmxmerge/pkg/domain/model"
	"github.com/tiendc/go-deepcopy"
)

// categoryPlan はカテゴリ1件の同一性判定と追加対象を表す。
type categoryPlan struct {
	matches  []identityMatch
	appended []int
	skipped  int
}

// mergeState はマージ1回分の作業状態を表す。
// 入力モデルは複製してから使うため、呼び出し元のモデルは変更しない。
type mergeState struct {
	ctx      context.Context
	options  MergeOptions
	base     *ModelData
	patch    *ModelData
	out      *ModelData
	remaps   *remapTables
	plans    map[Category]*categoryPlan
	report   *MergeReport
	reporter IMergeProgressReporter

	vertexSources    []modelSource
	faceSources      []modelSource
	materialSources  []modelSource
	boneOrigins      []boneOrigin
	morphOrigins     []morphOrigin
	rigidBodySources []modelSource
	jointSources     []modelSource
	displayOrigins   []displayOrigin
}

// MergeModels はベースへパッチをマージしたモデルを返す。
// 入力検証に失敗した場合は出力を作らずにエラーを返す。
func MergeModels(ctx context.Context, base *ModelData, patch *ModelData, opts MergeOptions) (*ModelData, *MergeReport, error) {
	return mergeModels(ctx, base, patch, opts, nil)
}

func mergeModels(
	ctx context.Context,
	base *ModelData,
	patch *ModelData,
	opts MergeOptions,
	reporter IMergeProgressReporter,
) (*ModelData, *MergeReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validateMergeInputs(base, patch); err != nil {
		return nil, nil, err
	}
	reportMergeProgress(reporter, MergeProgressEvent{Type: MergeProgressEventTypeInputValidated})

	clonedBase, err := cloneModel(base)
	if err != nil {
		return nil, nil, err
	}
	clonedPatch, err := cloneModel(patch)
	if err != nil {
		return nil, nil, err
	}

	state := &mergeState{
		ctx:      ctx,
		options:  opts,
		base:     clonedBase,
		patch:    clonedPatch,
		remaps:   newRemapTables(),
		plans:    map[Category]*categoryPlan{},
		report:   newMergeReport(base, patch, opts),
		reporter: reporter,
	}
	logMergeInfo("[%s] マージ開始: base=%s patch=%s append=%v update=%v",
		state.report.RunID, base.Name, patch.Name, state.report.AppendKeys, state.report.UpdateKeys)

	if err := state.run(); err != nil {
		logMergeWarn("[%s] マージ中断: %v", state.report.RunID, err)
		return nil, nil, err
	}
	state.report.FinishedAt = time.Now()
	reportMergeProgress(reporter, MergeProgressEvent{Type: MergeProgressEventTypeCompleted})
	logMergeInfo("[%s] マージ完了: vertices=%d faces=%d materials=%d bones=%d morphs=%d",
		state.report.RunID, len(state.out.Vertices), len(state.out.Faces), len(state.out.Materials),
		len(state.out.Bones), len(state.out.Morphs))
	return state.out, state.report, nil
}

// run は同一性解決、カテゴリ統合、参照書き換え、未使用頂点削除の順に実行する。
func (s *mergeState) run() error {
	s.out = newOutputModel(s.base, s.patch)
	if s.base.TextEncoding != s.patch.TextEncoding {
		s.report.warn(model.MergeWarningTextEncodingChanged, "", "テキストエンコードが異なります: base=%d patch=%d (baseを採用)",
			s.base.TextEncoding, s.patch.TextEncoding)
	}

	s.planCategories()
	reportMergeProgress(s.reporter, MergeProgressEvent{Type: MergeProgressEventTypeIdentityResolved})

	stages := []struct {
		category Category
		merge    func() error
	}{
		{CategoryMaterial, s.mergeMesh},
		{CategoryBone, s.mergeBones},
		{CategoryMorph, s.mergeMorphs},
		{CategoryRigidBody, s.mergeRigidBodies},
		{CategoryJoint, s.mergeJoints},
		{CategoryDisplaySlot, s.mergeDisplaySlots},
	}
	for _, stage := range stages {
		if err := s.checkContext(); err != nil {
			return err
		}
		if err := stage.merge(); err != nil {
			return err
		}
		categoryReport := s.report.Category(stage.category)
		logMergeInfo("[%s] %s: kept=%d updated=%d appended=%d skipped=%d total=%d", s.report.RunID, stage.category,
			categoryReport.Kept, categoryReport.Updated, categoryReport.Appended, categoryReport.Skipped, categoryReport.Total)
		reportMergeProgress(s.reporter, MergeProgressEvent{
			Type:     MergeProgressEventTypeCategoryMerged,
			Category: stage.category,
			Count:    categoryReport.Total,
		})
	}

	if err := s.checkContext(); err != nil {
		return err
	}
	if err := s.rewriteReferences(); err != nil {
		return err
	}
	reportMergeProgress(s.reporter, MergeProgressEvent{Type: MergeProgressEventTypeReferencesRewritten})

	if err := s.checkContext(); err != nil {
		return err
	}
	s.pruneVertices()
	reportMergeProgress(s.reporter, MergeProgressEvent{
		Type:     MergeProgressEventTypeVerticesPruned,
		Category: CategoryVertex,
		Count:    s.report.PrunedVertices,
	})

	s.reconcileExtendedUvs()
	return nil
}

// planCategories は各カテゴリの同一性を解決し、再割当表を作る。
// モーフ要素の照合が他カテゴリの表を参照するため、統合より先に全表を揃える。
func (s *mergeState) planCategories() {
	s.planVertices()
	s.planNamedCategory(CategoryMaterial, resolveIdentities(s.base.Materials, s.patch.Materials), len(s.base.Materials), true)
	s.planTextures()
	s.planNamedCategory(CategoryBone, resolveIdentities(s.base.Bones, s.patch.Bones), len(s.base.Bones), true)
	s.planNamedCategory(CategoryMorph, resolveIdentities(s.base.Morphs, s.patch.Morphs), len(s.base.Morphs), s.options.AppendMorph)
	s.planNamedCategory(CategoryRigidBody, resolveIdentities(s.base.RigidBodies, s.patch.RigidBodies), len(s.base.RigidBodies), s.options.AppendPhysics)
	s.planNamedCategory(CategoryJoint, resolveIdentities(s.base.Joints, s.patch.Joints), len(s.base.Joints), s.options.AppendPhysics)
	s.planNamedCategory(CategoryDisplaySlot, resolveIdentities(s.base.DisplaySlots, s.patch.DisplaySlots), len(s.base.DisplaySlots), s.options.AppendDisplay)
}

// planNamedCategory は名前で照合するカテゴリの再割当表を作る。
// 一致したパッチレコードはベース位置へ、新規はベースの後ろへ順に割り当てる。
func (s *mergeState) planNamedCategory(category Category, matches []identityMatch, baseCount int, appendNew bool) {
	s.remaps.put(newIdentityRemap(category, sourceBase, baseCount))
	patchTable := newSkippedRemap(category, sourcePatch, len(matches))
	plan := &categoryPlan{matches: matches, appended: make([]int, 0)}
	next := baseCount
	for patchIndex, match := range matches {
		switch {
		case match.isExisting():
			patchTable.set(patchIndex, match.baseIndex)
			logMergeVerbose("[%s] %s patch[%d] -> base[%d]", s.report.RunID, category, patchIndex, match.baseIndex)
		case appendNew:
			patchTable.set(patchIndex, next)
			plan.appended = append(plan.appended, patchIndex)
			logMergeVerbose("[%s] %s patch[%d] -> append[%d]", s.report.RunID, category, patchIndex, next)
			next++
		default:
			plan.skipped++
			logMergeVerbose("[%s] %s patch[%d] -> skip", s.report.RunID, category, patchIndex)
		}
	}
	s.remaps.put(patchTable)
	s.plans[category] = plan
	logMergeDebug("[%s] 同一性解決: category=%s matched=%d appended=%d skipped=%d", s.report.RunID, category,
		len(matches)-len(plan.appended)-plan.skipped, len(plan.appended), plan.skipped)
}

// planVertices はパッチ頂点を全てベース頂点の後ろへ割り当てる。
// 使われなかった頂点は最後に未使用頂点削除で取り除く。
func (s *mergeState) planVertices() {
	baseCount := len(s.base.Vertices)
	s.remaps.put(newIdentityRemap(CategoryVertex, sourceBase, baseCount))
	patchTable := newSkippedRemap(CategoryVertex, sourcePatch, len(s.patch.Vertices))
	for i := range s.patch.Vertices {
		patchTable.set(i, baseCount+i)
	}
	s.remaps.put(patchTable)
}

func (s *mergeState) checkContext() error {
	if err := s.ctx.Err(); err != nil {
		return fmt.Errorf("マージが中断されました: %w", err)
	}
	return nil
}

// reconcileExtendedUvs は追加UV数を入力の最大値に揃える。
func (s *mergeState) reconcileExtendedUvs() {
	count := max(s.base.ExtendedUvCount, s.patch.ExtendedUvCount)
	s.out.ExtendedUvCount = count
	padded := 0
	for _, vertex := range s.out.Vertices {
		if len(vertex.ExtendedUvs) < count {
			vertex.ExtendedUvs = mmath.PadVec4(vertex.ExtendedUvs, count)
			padded++
		}
	}
	if padded > 0 {
		s.report.warn(model.MergeWarningExtendedUvPadded, CategoryVertex, "追加UV数を%dへ揃えました: 対象頂点=%d", count, padded)
	}
}

// newOutputModel はベースのモデル情報を引き継いだ出力モデルを生成する。
func newOutputModel(base *ModelData, patch *ModelData) *ModelData {
	out := model.NewPmxModel()
	out.Path = base.Path
	out.TextEncoding = base.TextEncoding
	out.ExtendedUvCount = max(base.ExtendedUvCount, patch.ExtendedUvCount)
	out.Name = base.Name
	out.EnglishName = base.EnglishName
	out.Comment = base.Comment
	out.EnglishComment = base.EnglishComment
	return out
}

// cloneModel はモデルを深く複製する。
func cloneModel(src *ModelData) (*ModelData, error) {
	var cloned model.PmxModel
	if err := deepcopy.Copy(&cloned, *src); err != nil {
		return nil, fmt.Errorf("モデルの複製に失敗しました: %w", err)
	}
	return &cloned, nil
}
