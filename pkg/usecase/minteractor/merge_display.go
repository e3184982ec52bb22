// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_pmxmerge/pkg/domain/model"

// displayOrigin は表示枠の要素ごとの取得元を表す。
type displayOrigin struct {
	entrySources []modelSource
}

// mergeDisplaySlots は表示枠を統合する。
// 更新有効時は一致した枠をパッチ定義で置き換え、無効時は追加有効ならベースに無い要素だけを足す。
func (s *mergeState) mergeDisplaySlots() error {
	plan := s.plans[CategoryDisplaySlot]
	categoryReport := s.report.Category(CategoryDisplaySlot)
	patchByBase := invertMatches(plan.matches, len(s.base.DisplaySlots))
	s.out.DisplaySlots = make([]*model.DisplaySlot, 0, len(s.base.DisplaySlots)+len(plan.appended))
	s.displayOrigins = make([]displayOrigin, 0, cap(s.out.DisplaySlots))

	for baseIndex, slot := range s.base.DisplaySlots {
		patchIndex := patchByBase[baseIndex]
		switch {
		case patchIndex < 0:
			s.appendDisplaySlot(slot, sourceBase)
			categoryReport.Kept++
		case s.options.UpdateDisplay:
			s.appendDisplaySlot(s.patch.DisplaySlots[patchIndex], sourcePatch)
			categoryReport.Updated++
		case s.options.AppendDisplay:
			origin, appended, err := s.appendDisplayEntries(slot, s.patch.DisplaySlots[patchIndex])
			if err != nil {
				return err
			}
			s.out.DisplaySlots = append(s.out.DisplaySlots, slot)
			s.displayOrigins = append(s.displayOrigins, origin)
			if appended > 0 {
				categoryReport.Updated++
				logMergeDebug("[%s] 表示枠要素追加: %s appended=%d", s.report.RunID, slot.Name, appended)
			} else {
				categoryReport.Kept++
			}
		default:
			s.appendDisplaySlot(slot, sourceBase)
			categoryReport.Kept++
		}
	}
	for _, patchIndex := range plan.appended {
		s.appendDisplaySlot(s.patch.DisplaySlots[patchIndex], sourcePatch)
		categoryReport.Appended++
	}
	categoryReport.Skipped = plan.skipped
	categoryReport.Total = len(s.out.DisplaySlots)
	return nil
}

func (s *mergeState) appendDisplaySlot(slot *model.DisplaySlot, source modelSource) {
	sources := make([]modelSource, len(slot.References))
	for i := range sources {
		sources[i] = source
	}
	s.out.DisplaySlots = append(s.out.DisplaySlots, slot)
	s.displayOrigins = append(s.displayOrigins, displayOrigin{entrySources: sources})
}

// appendDisplayEntries はパッチ枠の要素のうち、マージ後の参照先がベース枠に無いものを末尾へ足す。
// 参照先が取り込まれない要素は足さない。
func (s *mergeState) appendDisplayEntries(slot *model.DisplaySlot, patchSlot *model.DisplaySlot) (displayOrigin, int, error) {
	sources := make([]modelSource, len(slot.References), len(slot.References)+len(patchSlot.References))
	for i := range sources {
		sources[i] = sourceBase
	}
	existing := make(map[model.Reference]struct{}, len(slot.References))
	for _, reference := range slot.References {
		existing[reference] = struct{}{}
	}

	appended := 0
	for _, reference := range patchSlot.References {
		mergedIndex, ok, err := s.remaps.get(displayTargetCategory(reference.DisplayType), sourcePatch).resolve(reference.DisplayIndex)
		if err != nil {
			return displayOrigin{}, 0, err
		}
		if !ok {
			continue
		}
		key := model.Reference{DisplayType: reference.DisplayType, DisplayIndex: mergedIndex}
		if _, exists := existing[key]; exists {
			continue
		}
		existing[key] = struct{}{}
		slot.References = append(slot.References, reference)
		sources = append(sources, sourcePatch)
		appended++
	}
	return displayOrigin{entrySources: sources}, appended, nil
}

// displayTargetCategory は表示枠要素の参照先カテゴリを返す。
func displayTargetCategory(displayType model.DisplayType) Category {
	if displayType == model.DISPLAY_TYPE_MORPH {
		return CategoryMorph
	}
	return CategoryBone
}
