// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_pmxmerge/pkg/domain/model"

// morphOrigin はモーフのオフセットごとの取得元を表す。
// 並びは MorphType に対応するオフセット列と一致する。
type morphOrigin struct {
	offsetSources []modelSource
}

func uniformMorphOrigin(count int, source modelSource) morphOrigin {
	sources := make([]modelSource, count)
	for i := range sources {
		sources[i] = source
	}
	return morphOrigin{offsetSources: sources}
}

// offsetMergeResult は要素単位のオフセット統合の件数を表す。
type offsetMergeResult struct {
	overwritten int
	appended    int
}

// mergeMorphs はモーフを統合する。
// 同種の一致モーフは要素単位で統合し、異種の一致モーフはパッチ定義で置き換える。
func (s *mergeState) mergeMorphs() error {
	plan := s.plans[CategoryMorph]
	categoryReport := s.report.Category(CategoryMorph)
	patchByBase := invertMatches(plan.matches, len(s.base.Morphs))
	s.out.Morphs = make([]*model.Morph, 0, len(s.base.Morphs)+len(plan.appended))
	s.morphOrigins = make([]morphOrigin, 0, cap(s.out.Morphs))

	for baseIndex, morph := range s.base.Morphs {
		patchIndex := patchByBase[baseIndex]
		if patchIndex < 0 {
			s.out.Morphs = append(s.out.Morphs, morph)
			s.morphOrigins = append(s.morphOrigins, uniformMorphOrigin(morph.OffsetCount(), sourceBase))
			categoryReport.Kept++
			continue
		}

		patchMorph := s.patch.Morphs[patchIndex]
		if patchMorph.MorphType != morph.MorphType {
			s.report.warn(model.MergeWarningMorphTypeReplaced, CategoryMorph, "モーフ種別が異なるため置き換えました: %s (%s -> %s)",
				morph.Name, morph.MorphType, patchMorph.MorphType)
			s.out.Morphs = append(s.out.Morphs, patchMorph)
			s.morphOrigins = append(s.morphOrigins, uniformMorphOrigin(patchMorph.OffsetCount(), sourcePatch))
			categoryReport.Updated++
			continue
		}

		origin, result, err := s.mergeMorphOffsets(morph, patchMorph)
		if err != nil {
			return err
		}
		if s.options.UpdateMorph {
			morph.EnglishName = patchMorph.EnglishName
			morph.Panel = patchMorph.Panel
		}
		if s.options.UpdateMorph || result.appended > 0 {
			categoryReport.Updated++
		} else {
			categoryReport.Kept++
		}
		logMergeDebug("[%s] モーフ統合: %s type=%s overwritten=%d appended=%d", s.report.RunID, morph.Name,
			morph.MorphType, result.overwritten, result.appended)
		s.out.Morphs = append(s.out.Morphs, morph)
		s.morphOrigins = append(s.morphOrigins, origin)
	}
	for _, patchIndex := range plan.appended {
		patchMorph := s.patch.Morphs[patchIndex]
		s.out.Morphs = append(s.out.Morphs, patchMorph)
		s.morphOrigins = append(s.morphOrigins, uniformMorphOrigin(patchMorph.OffsetCount(), sourcePatch))
		categoryReport.Appended++
	}
	categoryReport.Skipped = plan.skipped
	categoryReport.Total = len(s.out.Morphs)
	return nil
}

// mergeMorphOffsets は同種モーフのオフセットを対象位置で照合して統合する。
// 照合はマージ後の位置で行い、既存要素は更新有効時のみ上書きし、新規要素は末尾へ追加する。
func (s *mergeState) mergeMorphOffsets(morph *model.Morph, patchMorph *model.Morph) (morphOrigin, offsetMergeResult, error) {
	overwrite := s.options.UpdateMorph
	var (
		sources []modelSource
		result  offsetMergeResult
		err     error
	)
	switch {
	case morph.MorphType == model.MORPH_TYPE_GROUP:
		morph.GroupOffsets, sources, result, err = mergeOffsetList(morph.GroupOffsets, patchMorph.GroupOffsets,
			offsetKey(s, CategoryMorph, func(o model.GroupMorphOffset) int { return o.MorphIndex }), overwrite)
	case morph.MorphType == model.MORPH_TYPE_VERTEX:
		morph.VertexOffsets, sources, result, err = mergeOffsetList(morph.VertexOffsets, patchMorph.VertexOffsets,
			offsetKey(s, CategoryVertex, func(o model.VertexMorphOffset) int { return o.VertexIndex }), overwrite)
	case morph.MorphType == model.MORPH_TYPE_BONE:
		morph.BoneOffsets, sources, result, err = mergeOffsetList(morph.BoneOffsets, patchMorph.BoneOffsets,
			offsetKey(s, CategoryBone, func(o model.BoneMorphOffset) int { return o.BoneIndex }), overwrite)
	case morph.MorphType.IsUv():
		morph.UvOffsets, sources, result, err = mergeOffsetList(morph.UvOffsets, patchMorph.UvOffsets,
			offsetKey(s, CategoryVertex, func(o model.UvMorphOffset) int { return o.VertexIndex }), overwrite)
	case morph.MorphType == model.MORPH_TYPE_MATERIAL:
		morph.MaterialOffsets, sources, result, err = mergeOffsetList(morph.MaterialOffsets, patchMorph.MaterialOffsets,
			offsetKey(s, CategoryMaterial, func(o model.MaterialMorphOffset) int { return o.MaterialIndex }), overwrite)
	case morph.MorphType == model.MORPH_TYPE_FLIP:
		morph.FlipOffsets, sources, result, err = mergeOffsetList(morph.FlipOffsets, patchMorph.FlipOffsets,
			offsetKey(s, CategoryMorph, func(o model.FlipMorphOffset) int { return o.MorphIndex }), overwrite)
	case morph.MorphType == model.MORPH_TYPE_IMPULSE:
		morph.ImpulseOffsets, sources, result, err = mergeOffsetList(morph.ImpulseOffsets, patchMorph.ImpulseOffsets,
			offsetKey(s, CategoryRigidBody, func(o model.ImpulseMorphOffset) int { return o.RigidBodyIndex }), overwrite)
	}
	if err != nil {
		return morphOrigin{}, offsetMergeResult{}, err
	}
	return morphOrigin{offsetSources: sources}, result, nil
}

// offsetKey はオフセットの対象位置をマージ後の位置へ解決する関数を返す。
// 取り込まれなかった対象は照合できないため ok=false を返す。
// 材質モーフの全材質番兵は -1 のまま照合キーになる。
func offsetKey[T any](s *mergeState, target Category, indexOf func(T) int) func(T, modelSource) (int, bool, error) {
	return func(offset T, source modelSource) (int, bool, error) {
		return s.remaps.get(target, source).resolve(indexOf(offset))
	}
}

// mergeOffsetList は照合キーでオフセット列を統合する。
func mergeOffsetList[T any](
	baseOffsets []T,
	patchOffsets []T,
	keyOf func(T, modelSource) (int, bool, error),
	overwrite bool,
) ([]T, []modelSource, offsetMergeResult, error) {
	merged := make([]T, 0, len(baseOffsets)+len(patchOffsets))
	sources := make([]modelSource, 0, cap(merged))
	positions := make(map[int]int, len(baseOffsets))
	result := offsetMergeResult{}

	for _, offset := range baseOffsets {
		key, ok, err := keyOf(offset, sourceBase)
		if err != nil {
			return nil, nil, result, err
		}
		if _, exists := positions[key]; ok && !exists {
			positions[key] = len(merged)
		}
		merged = append(merged, offset)
		sources = append(sources, sourceBase)
	}
	for _, offset := range patchOffsets {
		key, ok, err := keyOf(offset, sourcePatch)
		if err != nil {
			return nil, nil, result, err
		}
		if ok {
			if position, exists := positions[key]; exists {
				if overwrite {
					merged[position] = offset
					sources[position] = sourcePatch
					result.overwritten++
				}
				continue
			}
			positions[key] = len(merged)
		}
		merged = append(merged, offset)
		sources = append(sources, sourcePatch)
		result.appended++
	}
	return merged, sources, result, nil
}
