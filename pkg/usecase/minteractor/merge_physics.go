// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_pmxmerge/pkg/domain/model"

// mergeRecords は一致レコードを丸ごと差し替えるカテゴリを統合する。
// ベースの順序を保ち、追加対象のパッチレコードを末尾へ並べる。
func mergeRecords[T any](
	baseValues []T,
	patchValues []T,
	plan *categoryPlan,
	update bool,
	categoryReport *CategoryReport,
) ([]T, []modelSource) {
	patchByBase := invertMatches(plan.matches, len(baseValues))
	values := make([]T, 0, len(baseValues)+len(plan.appended))
	sources := make([]modelSource, 0, cap(values))
	for baseIndex, value := range baseValues {
		patchIndex := patchByBase[baseIndex]
		if patchIndex >= 0 && update {
			values = append(values, patchValues[patchIndex])
			sources = append(sources, sourcePatch)
			categoryReport.Updated++
			continue
		}
		values = append(values, value)
		sources = append(sources, sourceBase)
		categoryReport.Kept++
	}
	for _, patchIndex := range plan.appended {
		values = append(values, patchValues[patchIndex])
		sources = append(sources, sourcePatch)
		categoryReport.Appended++
	}
	categoryReport.Skipped = plan.skipped
	categoryReport.Total = len(values)
	return values, sources
}

// mergeRigidBodies は剛体を統合する。
func (s *mergeState) mergeRigidBodies() error {
	var rigidBodies []*model.RigidBody
	rigidBodies, s.rigidBodySources = mergeRecords(
		s.base.RigidBodies, s.patch.RigidBodies, s.plans[CategoryRigidBody],
		s.options.UpdatePhysics, s.report.Category(CategoryRigidBody),
	)
	s.out.RigidBodies = rigidBodies
	return nil
}

// mergeJoints はジョイントを統合する。
func (s *mergeState) mergeJoints() error {
	var joints []*model.Joint
	joints, s.jointSources = mergeRecords(
		s.base.Joints, s.patch.Joints, s.plans[CategoryJoint],
		s.options.UpdatePhysics, s.report.Category(CategoryJoint),
	)
	s.out.Joints = joints
	return nil
}
