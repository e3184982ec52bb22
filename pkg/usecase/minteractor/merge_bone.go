// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_pmxmerge/pkg/domain/model"

// boneOrigin はボーンの観点ごとの取得元を表す。
type boneOrigin struct {
	location modelSource
	setting  modelSource
}

// mergeBones はボーンを統合する。新規ボーンは常に追加する。
// 一致したボーンは位置/表示先と、階層/変形/IK 設定を個別に更新する。
func (s *mergeState) mergeBones() error {
	plan := s.plans[CategoryBone]
	categoryReport := s.report.Category(CategoryBone)
	patchByBase := invertMatches(plan.matches, len(s.base.Bones))
	s.out.Bones = make([]*model.Bone, 0, len(s.base.Bones)+len(plan.appended))
	s.boneOrigins = make([]boneOrigin, 0, cap(s.out.Bones))

	for baseIndex, bone := range s.base.Bones {
		origin := boneOrigin{location: sourceBase, setting: sourceBase}
		if patchIndex := patchByBase[baseIndex]; patchIndex >= 0 {
			patchBone := s.patch.Bones[patchIndex]
			if s.options.UpdateBoneLocation {
				bone.ApplyLocation(patchBone)
				origin.location = sourcePatch
			}
			if s.options.UpdateBoneSetting {
				bone.ApplySetting(patchBone)
				origin.setting = sourcePatch
			}
		}
		if origin.location == sourcePatch || origin.setting == sourcePatch {
			categoryReport.Updated++
			logMergeDebug("[%s] ボーン更新: %s location=%s setting=%s", s.report.RunID, bone.Name,
				origin.location.label(), origin.setting.label())
		} else {
			categoryReport.Kept++
		}
		s.out.Bones = append(s.out.Bones, bone)
		s.boneOrigins = append(s.boneOrigins, origin)
	}
	for _, patchIndex := range plan.appended {
		s.out.Bones = append(s.out.Bones, s.patch.Bones[patchIndex])
		s.boneOrigins = append(s.boneOrigins, boneOrigin{location: sourcePatch, setting: sourcePatch})
		categoryReport.Appended++
	}
	categoryReport.Total = len(s.out.Bones)
	return nil
}
