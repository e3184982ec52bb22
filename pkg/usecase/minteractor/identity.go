// 指示: miu200521358
package minteractor

import (
	"errors"
	"fmt"

	"github.com/miu200521358/mu_pmxmerge/pkg/domain/model"
	"github.com/miu200521358/mu_pmxmerge/pkg/domain/model/collection"
	"github.com/miu200521358/mu_pmxmerge/pkg/shared/base/merr"
)

const (
	modelLabelBase  = "base"
	modelLabelPatch = "patch"
)

// identityMatch はパッチレコード1件の同一性判定結果を表す。
// baseIndex が -1 なら新規レコード。
type identityMatch struct {
	baseIndex int
}

func (m identityMatch) isExisting() bool {
	return m.baseIndex >= 0
}

// resolveIdentities はパッチの各レコードを名前でベースと突き合わせる。
// 名前の一意性は事前検証済みであること。
func resolveIdentities[T collection.INameable](baseValues []T, patchValues []T) []identityMatch {
	baseIndexes := collection.NameIndexes(baseValues)
	matches := make([]identityMatch, len(patchValues))
	for i, value := range patchValues {
		matches[i] = identityMatch{baseIndex: -1}
		if baseIndex, ok := baseIndexes[value.GetName()]; ok {
			matches[i].baseIndex = baseIndex
		}
	}
	return matches
}

// invertMatches はベース位置から一致したパッチ位置への対応を返す。未一致は -1。
func invertMatches(matches []identityMatch, baseCount int) []int {
	patchIndexes := make([]int, baseCount)
	for i := range patchIndexes {
		patchIndexes[i] = -1
	}
	for patchIndex, match := range matches {
		if match.isExisting() && patchIndexes[match.baseIndex] < 0 {
			patchIndexes[match.baseIndex] = patchIndex
		}
	}
	return patchIndexes
}

// ValidateModelNames はモデル1件のカテゴリごとの重複名と空名を検査する。
// マージ前に単独で呼び出せる。
func ValidateModelNames(modelLabel string, modelData *ModelData) []error {
	if modelData == nil {
		return []error{fmt.Errorf("検証対象モデルが未設定です: %s", modelLabel)}
	}
	issues := make([]error, 0)
	issues = append(issues, collectNameIssues(modelLabel, CategoryMaterial, modelData.Materials)...)
	issues = append(issues, collectNameIssues(modelLabel, CategoryBone, modelData.Bones)...)
	issues = append(issues, collectNameIssues(modelLabel, CategoryMorph, modelData.Morphs)...)
	issues = append(issues, collectNameIssues(modelLabel, CategoryDisplaySlot, modelData.DisplaySlots)...)
	issues = append(issues, collectNameIssues(modelLabel, CategoryRigidBody, modelData.RigidBodies)...)
	issues = append(issues, collectNameIssues(modelLabel, CategoryJoint, modelData.Joints)...)
	return issues
}

// ValidateModels はベースとパッチの名前を検査し、問題をまとめて返す。
func ValidateModels(base *ModelData, patch *ModelData) error {
	issues := ValidateModelNames(modelLabelBase, base)
	issues = append(issues, ValidateModelNames(modelLabelPatch, patch)...)
	return errors.Join(issues...)
}

func collectNameIssues[T collection.INameable](modelLabel string, category Category, values []T) []error {
	issues := make([]error, 0)
	for _, issue := range collection.EmptyNames(values) {
		issues = append(issues, merr.NewEmptyName(modelLabel, string(category), issue.Index))
	}
	for _, issue := range collection.DuplicateNames(values) {
		issues = append(issues, merr.NewDuplicateName(modelLabel, string(category), issue.Index, issue.Name, issue.FirstIndex))
	}
	return issues
}

// referenceChecker は入力モデルの参照範囲を検査する。
type referenceChecker struct {
	modelLabel string
	issues     []error
}

func (c *referenceChecker) check(category Category, recordIndex int, field string, value int, length int, allowNone bool) {
	if allowNone && value == -1 {
		return
	}
	if value >= 0 && value < length {
		return
	}
	c.issues = append(c.issues, merr.NewReferenceOutOfRange(c.modelLabel, string(category), recordIndex, field, value, length))
}

// validateModelReferences は全参照が対象リストの範囲内か検査する。
// -1 は「参照なし」として許容し、頂点参照と面だけは範囲内を必須とする。
func validateModelReferences(modelLabel string, modelData *ModelData) []error {
	c := &referenceChecker{modelLabel: modelLabel, issues: make([]error, 0)}
	vertexCount := len(modelData.Vertices)
	textureCount := len(modelData.Textures)
	materialCount := len(modelData.Materials)
	boneCount := len(modelData.Bones)
	morphCount := len(modelData.Morphs)
	rigidBodyCount := len(modelData.RigidBodies)

	for i, vertex := range modelData.Vertices {
		if vertex == nil {
			c.issues = append(c.issues, merr.NewMalformedInput("頂点が未設定です: %s[%d]", nil, modelLabel, i))
			continue
		}
		for _, boneIndex := range vertex.Deform.BoneIndexes {
			c.check(CategoryVertex, i, "deform.bone", boneIndex, boneCount, true)
		}
	}
	for i, face := range modelData.Faces {
		if face == nil {
			c.issues = append(c.issues, merr.NewMalformedInput("面が未設定です: %s[%d]", nil, modelLabel, i))
			continue
		}
		for _, vertexIndex := range face.VertexIndexes {
			c.check(CategoryFace, i, "vertex", vertexIndex, vertexCount, false)
		}
	}
	if total := modelData.TotalMaterialFaceCount(); total != len(modelData.Faces) {
		c.issues = append(c.issues, merr.NewMalformedInput(
			"材質の面数合計と面数が一致しません: %s materials=%d faces=%d", nil, modelLabel, total, len(modelData.Faces)))
	}
	for i, material := range modelData.Materials {
		c.check(CategoryMaterial, i, "texture", material.TextureIndex, textureCount, true)
		c.check(CategoryMaterial, i, "sphere", material.SphereTextureIndex, textureCount, true)
		if material.UsesToonTexture() {
			c.check(CategoryMaterial, i, "toon", material.ToonTextureIndex, textureCount, true)
		}
	}
	for i, bone := range modelData.Bones {
		c.check(CategoryBone, i, "parent", bone.ParentIndex, boneCount, true)
		if bone.IsTailBone() {
			c.check(CategoryBone, i, "tail", bone.TailIndex, boneCount, true)
		}
		if bone.HasEffect() {
			c.check(CategoryBone, i, "effect", bone.EffectIndex, boneCount, true)
		}
		if bone.Ik != nil {
			c.check(CategoryBone, i, "ik.target", bone.Ik.BoneIndex, boneCount, true)
			for _, link := range bone.Ik.Links {
				c.check(CategoryBone, i, "ik.link", link.BoneIndex, boneCount, true)
			}
		}
	}
	for i, morph := range modelData.Morphs {
		for _, offset := range morph.VertexOffsets {
			c.check(CategoryMorph, i, "vertex", offset.VertexIndex, vertexCount, false)
		}
		for _, offset := range morph.UvOffsets {
			c.check(CategoryMorph, i, "uv.vertex", offset.VertexIndex, vertexCount, false)
		}
		for _, offset := range morph.BoneOffsets {
			c.check(CategoryMorph, i, "bone", offset.BoneIndex, boneCount, true)
		}
		for _, offset := range morph.MaterialOffsets {
			c.check(CategoryMorph, i, "material", offset.MaterialIndex, materialCount, true)
		}
		for _, offset := range morph.GroupOffsets {
			c.check(CategoryMorph, i, "group.morph", offset.MorphIndex, morphCount, true)
		}
		for _, offset := range morph.FlipOffsets {
			c.check(CategoryMorph, i, "flip.morph", offset.MorphIndex, morphCount, true)
		}
		for _, offset := range morph.ImpulseOffsets {
			c.check(CategoryMorph, i, "impulse.rigid_body", offset.RigidBodyIndex, rigidBodyCount, true)
		}
	}
	for i, slot := range modelData.DisplaySlots {
		for _, reference := range slot.References {
			if reference.DisplayType == model.DISPLAY_TYPE_MORPH {
				c.check(CategoryDisplaySlot, i, "morph", reference.DisplayIndex, morphCount, true)
			} else {
				c.check(CategoryDisplaySlot, i, "bone", reference.DisplayIndex, boneCount, true)
			}
		}
	}
	for i, rigidBody := range modelData.RigidBodies {
		c.check(CategoryRigidBody, i, "bone", rigidBody.BoneIndex, boneCount, true)
	}
	for i, joint := range modelData.Joints {
		c.check(CategoryJoint, i, "rigid_body_a", joint.RigidBodyIndexA, rigidBodyCount, true)
		c.check(CategoryJoint, i, "rigid_body_b", joint.RigidBodyIndexB, rigidBodyCount, true)
	}
	return c.issues
}

// validateMergeInputs はマージ前の入力検証をまとめて行う。
func validateMergeInputs(base *ModelData, patch *ModelData) error {
	if base == nil || patch == nil {
		return fmt.Errorf("マージ対象モデルが未設定です")
	}
	if err := ValidateModels(base, patch); err != nil {
		return err
	}
	issues := validateModelReferences(modelLabelBase, base)
	issues = append(issues, validateModelReferences(modelLabelPatch, patch)...)
	return errors.Join(issues...)
}
