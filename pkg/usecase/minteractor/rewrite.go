// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_pmxmerge/pkg/domain/model"

// rewriteReferences は出力モデルの全参照をマージ後の位置へ書き換える。
// 参照ごとに、その値を持ち込んだ取得元の再割当表を使う。
func (s *mergeState) rewriteReferences() error {
	steps := []func() error{
		s.rewriteVertexReferences,
		s.rewriteFaceReferences,
		s.rewriteMaterialReferences,
		s.rewriteBoneReferences,
		s.rewriteMorphReferences,
		s.rewriteRigidBodyReferences,
		s.rewriteJointReferences,
		s.rewriteDisplaySlotReferences,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	logMergeDebug("[%s] 参照書き換え完了: dropped=%d cleared=%d", s.report.RunID,
		s.report.DroppedReferences, s.report.ClearedReferences)
	return nil
}

// resolveScalar は単一参照を解決する。取り込まれなかった参照先は -1 にして警告する。
func (s *mergeState) resolveScalar(
	owner Category,
	ownerName string,
	field string,
	target Category,
	source modelSource,
	index int,
) (int, error) {
	mergedIndex, ok, err := s.remaps.get(target, source).resolve(index)
	if err != nil {
		return 0, err
	}
	if !ok {
		s.report.ClearedReferences++
		s.report.warn(model.MergeWarningReferenceCleared, owner, "参照先が取り込まれないため参照を解除しました: %s %s.%s -> %s[%d]",
			owner, ownerName, field, target, index)
		return -1, nil
	}
	return mergedIndex, nil
}

func (s *mergeState) rewriteVertexReferences() error {
	for vertexIndex, vertex := range s.out.Vertices {
		table := s.remaps.get(CategoryBone, s.vertexSources[vertexIndex])
		for i, boneIndex := range vertex.Deform.BoneIndexes {
			mergedIndex, ok, err := table.resolve(boneIndex)
			if err != nil {
				return err
			}
			if !ok {
				mergedIndex = -1
				s.report.ClearedReferences++
			}
			vertex.Deform.BoneIndexes[i] = mergedIndex
		}
	}
	return nil
}

func (s *mergeState) rewriteFaceReferences() error {
	for faceIndex, face := range s.out.Faces {
		table := s.remaps.get(CategoryVertex, s.faceSources[faceIndex])
		for i, vertexIndex := range face.VertexIndexes {
			mergedIndex, _, err := table.resolve(vertexIndex)
			if err != nil {
				return err
			}
			face.VertexIndexes[i] = mergedIndex
		}
	}
	return nil
}

func (s *mergeState) rewriteMaterialReferences() error {
	for materialIndex, material := range s.out.Materials {
		source := s.materialSources[materialIndex]
		var err error
		if material.TextureIndex, err = s.resolveScalar(CategoryMaterial, material.Name, "texture", CategoryTexture, source, material.TextureIndex); err != nil {
			return err
		}
		if material.SphereTextureIndex, err = s.resolveScalar(CategoryMaterial, material.Name, "sphere", CategoryTexture, source, material.SphereTextureIndex); err != nil {
			return err
		}
		if material.UsesToonTexture() {
			if material.ToonTextureIndex, err = s.resolveScalar(CategoryMaterial, material.Name, "toon", CategoryTexture, source, material.ToonTextureIndex); err != nil {
				return err
			}
		}
	}
	return nil
}

// rewriteBoneReferences はボーンの参照を書き換える。
// 表示先は位置の取得元、親と付与とIKは設定の取得元で解決する。
func (s *mergeState) rewriteBoneReferences() error {
	for boneIndex, bone := range s.out.Bones {
		origin := s.boneOrigins[boneIndex]
		var err error
		if bone.IsTailBone() {
			if bone.TailIndex, err = s.resolveScalar(CategoryBone, bone.Name, "tail", CategoryBone, origin.location, bone.TailIndex); err != nil {
				return err
			}
		}
		if bone.ParentIndex, err = s.resolveScalar(CategoryBone, bone.Name, "parent", CategoryBone, origin.setting, bone.ParentIndex); err != nil {
			return err
		}
		if bone.HasEffect() {
			if bone.EffectIndex, err = s.resolveScalar(CategoryBone, bone.Name, "effect", CategoryBone, origin.setting, bone.EffectIndex); err != nil {
				return err
			}
		}
		if bone.Ik != nil {
			if bone.Ik.BoneIndex, err = s.resolveScalar(CategoryBone, bone.Name, "ik", CategoryBone, origin.setting, bone.Ik.BoneIndex); err != nil {
				return err
			}
			for i := range bone.Ik.Links {
				link := &bone.Ik.Links[i]
				if link.BoneIndex, err = s.resolveScalar(CategoryBone, bone.Name, "ik_link", CategoryBone, origin.setting, link.BoneIndex); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *mergeState) rewriteMorphReferences() error {
	for morphIndex, morph := range s.out.Morphs {
		sources := s.morphOrigins[morphIndex].offsetSources
		before := morph.OffsetCount()
		var err error
		switch {
		case morph.MorphType == model.MORPH_TYPE_GROUP:
			morph.GroupOffsets, err = rewriteOffsets(s, morph.GroupOffsets, sources, CategoryMorph,
				func(o *model.GroupMorphOffset) *int { return &o.MorphIndex })
		case morph.MorphType == model.MORPH_TYPE_VERTEX:
			morph.VertexOffsets, err = rewriteOffsets(s, morph.VertexOffsets, sources, CategoryVertex,
				func(o *model.VertexMorphOffset) *int { return &o.VertexIndex })
		case morph.MorphType == model.MORPH_TYPE_BONE:
			morph.BoneOffsets, err = rewriteOffsets(s, morph.BoneOffsets, sources, CategoryBone,
				func(o *model.BoneMorphOffset) *int { return &o.BoneIndex })
		case morph.MorphType.IsUv():
			morph.UvOffsets, err = rewriteOffsets(s, morph.UvOffsets, sources, CategoryVertex,
				func(o *model.UvMorphOffset) *int { return &o.VertexIndex })
		case morph.MorphType == model.MORPH_TYPE_MATERIAL:
			morph.MaterialOffsets, err = rewriteOffsets(s, morph.MaterialOffsets, sources, CategoryMaterial,
				func(o *model.MaterialMorphOffset) *int { return &o.MaterialIndex })
		case morph.MorphType == model.MORPH_TYPE_FLIP:
			morph.FlipOffsets, err = rewriteOffsets(s, morph.FlipOffsets, sources, CategoryMorph,
				func(o *model.FlipMorphOffset) *int { return &o.MorphIndex })
		case morph.MorphType == model.MORPH_TYPE_IMPULSE:
			morph.ImpulseOffsets, err = rewriteOffsets(s, morph.ImpulseOffsets, sources, CategoryRigidBody,
				func(o *model.ImpulseMorphOffset) *int { return &o.RigidBodyIndex })
		}
		if err != nil {
			return err
		}
		if dropped := before - morph.OffsetCount(); dropped > 0 {
			s.report.DroppedReferences += dropped
			s.report.warn(model.MergeWarningReferenceDropped, CategoryMorph, "参照先が取り込まれないオフセットを除外しました: %s dropped=%d",
				morph.Name, dropped)
		}
	}
	return nil
}

// rewriteOffsets はオフセットの対象位置を書き換え、取り込まれなかった対象のオフセットを除く。
func rewriteOffsets[T any](
	s *mergeState,
	offsets []T,
	sources []modelSource,
	target Category,
	indexOf func(*T) *int,
) ([]T, error) {
	rewritten := make([]T, 0, len(offsets))
	for i := range offsets {
		offset := offsets[i]
		index := indexOf(&offset)
		mergedIndex, ok, err := s.remaps.get(target, sources[i]).resolve(*index)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		*index = mergedIndex
		rewritten = append(rewritten, offset)
	}
	return rewritten, nil
}

func (s *mergeState) rewriteRigidBodyReferences() error {
	for rigidBodyIndex, rigidBody := range s.out.RigidBodies {
		var err error
		if rigidBody.BoneIndex, err = s.resolveScalar(CategoryRigidBody, rigidBody.Name, "bone", CategoryBone,
			s.rigidBodySources[rigidBodyIndex], rigidBody.BoneIndex); err != nil {
			return err
		}
	}
	return nil
}

func (s *mergeState) rewriteJointReferences() error {
	for jointIndex, joint := range s.out.Joints {
		source := s.jointSources[jointIndex]
		var err error
		if joint.RigidBodyIndexA, err = s.resolveScalar(CategoryJoint, joint.Name, "rigid_body_a", CategoryRigidBody, source, joint.RigidBodyIndexA); err != nil {
			return err
		}
		if joint.RigidBodyIndexB, err = s.resolveScalar(CategoryJoint, joint.Name, "rigid_body_b", CategoryRigidBody, source, joint.RigidBodyIndexB); err != nil {
			return err
		}
	}
	return nil
}

func (s *mergeState) rewriteDisplaySlotReferences() error {
	for slotIndex, slot := range s.out.DisplaySlots {
		sources := s.displayOrigins[slotIndex].entrySources
		references := make([]model.Reference, 0, len(slot.References))
		for i, reference := range slot.References {
			mergedIndex, ok, err := s.remaps.get(displayTargetCategory(reference.DisplayType), sources[i]).resolve(reference.DisplayIndex)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			references = append(references, model.Reference{DisplayType: reference.DisplayType, DisplayIndex: mergedIndex})
		}
		if dropped := len(slot.References) - len(references); dropped > 0 {
			s.report.DroppedReferences += dropped
			s.report.warn(model.MergeWarningReferenceDropped, CategoryDisplaySlot, "参照先が取り込まれない表示枠要素を除外しました: %s dropped=%d",
				slot.Name, dropped)
		}
		slot.References = references
	}
	return nil
}
