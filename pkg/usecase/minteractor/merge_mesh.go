// 指示: miu200521358
package minteractor

import (
	"fmt"

	"github.com/miu200521358/mu_pmxmerge/pkg/domain/model"
)

// materialFaceRange は材質が所有する面区間を表す。
type materialFaceRange struct {
	start int
	count int
}

// buildMaterialFaceRanges は材質順の面区間を構築する。
func buildMaterialFaceRanges(modelData *ModelData) ([]materialFaceRange, error) {
	if modelData == nil {
		return nil, fmt.Errorf("材質または面データが未設定です")
	}

	faceRanges := make([]materialFaceRange, len(modelData.Materials))
	faceOffset := 0
	for materialIndex, materialData := range modelData.Materials {
		if materialData == nil {
			return nil, fmt.Errorf("材質が未設定です: index=%d", materialIndex)
		}
		if materialData.VerticesCount < 0 || materialData.VerticesCount%3 != 0 {
			return nil, fmt.Errorf("材質頂点数が不正です: index=%d verticesCount=%d", materialIndex, materialData.VerticesCount)
		}
		faceCount := materialData.FaceCount()
		if faceOffset+faceCount > len(modelData.Faces) {
			return nil, fmt.Errorf("面範囲が不正です: index=%d start=%d count=%d faces=%d", materialIndex, faceOffset, faceCount, len(modelData.Faces))
		}
		faceRanges[materialIndex] = materialFaceRange{start: faceOffset, count: faceCount}
		faceOffset += faceCount
	}
	if faceOffset != len(modelData.Faces) {
		return nil, fmt.Errorf("材質頂点数と面数が一致しません: mappedFaces=%d totalFaces=%d", faceOffset, len(modelData.Faces))
	}
	return faceRanges, nil
}

// isPatchMaterialSettingTaken はパッチ材質の設定値が出力へ採用されるか判定する。
func (s *mergeState) isPatchMaterialSettingTaken(match identityMatch) bool {
	return !match.isExisting() || s.options.UpdateMaterialSetting
}

// planTextures は採用されるパッチ材質が参照するテクスチャだけを割り当てる。
// 同じパスのテクスチャはベース側または先に追加した側を再利用する。
func (s *mergeState) planTextures() {
	baseCount := len(s.base.Textures)
	s.remaps.put(newIdentityRemap(CategoryTexture, sourceBase, baseCount))
	patchTable := newSkippedRemap(CategoryTexture, sourcePatch, len(s.patch.Textures))

	referenced := make([]bool, len(s.patch.Textures))
	markTexture := func(index int) {
		if index >= 0 && index < len(referenced) {
			referenced[index] = true
		}
	}
	for patchIndex, match := range s.plans[CategoryMaterial].matches {
		if !s.isPatchMaterialSettingTaken(match) {
			continue
		}
		material := s.patch.Materials[patchIndex]
		markTexture(material.TextureIndex)
		markTexture(material.SphereTextureIndex)
		if material.UsesToonTexture() {
			markTexture(material.ToonTextureIndex)
		}
	}

	pathIndexes := make(map[string]int, baseCount)
	for i, texture := range s.base.Textures {
		key := textureKey(texture.Name, s.options.BaseDir)
		if _, exists := pathIndexes[key]; !exists {
			pathIndexes[key] = i
		}
	}
	plan := &categoryPlan{matches: make([]identityMatch, len(s.patch.Textures)), appended: make([]int, 0)}
	next := baseCount
	for patchIndex, texture := range s.patch.Textures {
		plan.matches[patchIndex] = identityMatch{baseIndex: -1}
		if !referenced[patchIndex] {
			plan.skipped++
			continue
		}
		key := textureKey(texture.Name, s.options.PatchDir)
		if mergedIndex, exists := pathIndexes[key]; exists {
			patchTable.set(patchIndex, mergedIndex)
			if mergedIndex < baseCount {
				plan.matches[patchIndex] = identityMatch{baseIndex: mergedIndex}
			}
			continue
		}
		patchTable.set(patchIndex, next)
		pathIndexes[key] = next
		plan.appended = append(plan.appended, patchIndex)
		next++
	}
	s.remaps.put(patchTable)
	s.plans[CategoryTexture] = plan
}

// mergeMesh はテクスチャ、頂点、材質、面を統合する。
// 一致した材質の面区間は差し替えるか保持するかのどちらかで、要素単位には混ぜない。
func (s *mergeState) mergeMesh() error {
	s.mergeTextures()

	s.out.Vertices = make([]*model.Vertex, 0, len(s.base.Vertices)+len(s.patch.Vertices))
	s.vertexSources = make([]modelSource, 0, len(s.base.Vertices)+len(s.patch.Vertices))
	for _, vertex := range s.base.Vertices {
		s.out.Vertices = append(s.out.Vertices, vertex)
		s.vertexSources = append(s.vertexSources, sourceBase)
	}
	for _, vertex := range s.patch.Vertices {
		s.out.Vertices = append(s.out.Vertices, vertex)
		s.vertexSources = append(s.vertexSources, sourcePatch)
	}

	baseRanges, err := buildMaterialFaceRanges(s.base)
	if err != nil {
		return err
	}
	patchRanges, err := buildMaterialFaceRanges(s.patch)
	if err != nil {
		return err
	}

	plan := s.plans[CategoryMaterial]
	categoryReport := s.report.Category(CategoryMaterial)
	patchByBase := invertMatches(plan.matches, len(s.base.Materials))
	s.out.Materials = make([]*model.Material, 0, len(s.base.Materials)+len(plan.appended))
	s.out.Faces = make([]*model.Face, 0, len(s.base.Faces)+len(s.patch.Faces))
	s.materialSources = make([]modelSource, 0, cap(s.out.Materials))
	s.faceSources = make([]modelSource, 0, cap(s.out.Faces))

	for baseIndex, material := range s.base.Materials {
		record := material
		settingSource := sourceBase
		faces := s.base.Faces[baseRanges[baseIndex].start : baseRanges[baseIndex].start+baseRanges[baseIndex].count]
		meshSource := sourceBase

		if patchIndex := patchByBase[baseIndex]; patchIndex >= 0 {
			updated := false
			if s.options.UpdateMaterialSetting {
				record = s.patch.Materials[patchIndex]
				settingSource = sourcePatch
				updated = true
			}
			if s.options.UpdateMaterialMesh {
				faceRange := patchRanges[patchIndex]
				faces = s.patch.Faces[faceRange.start : faceRange.start+faceRange.count]
				meshSource = sourcePatch
				updated = true
			}
			if updated {
				categoryReport.Updated++
				logMergeDebug("[%s] 材質更新: %s setting=%s mesh=%s faces=%d", s.report.RunID, material.Name,
					settingSource.label(), meshSource.label(), len(faces))
			} else {
				categoryReport.Kept++
			}
		} else {
			categoryReport.Kept++
		}
		s.appendMaterial(record, settingSource, faces, meshSource)
	}
	for _, patchIndex := range plan.appended {
		faceRange := patchRanges[patchIndex]
		faces := s.patch.Faces[faceRange.start : faceRange.start+faceRange.count]
		s.appendMaterial(s.patch.Materials[patchIndex], sourcePatch, faces, sourcePatch)
		categoryReport.Appended++
	}
	categoryReport.Total = len(s.out.Materials)

	faceReport := s.report.Category(CategoryFace)
	faceReport.Total = len(s.out.Faces)
	vertexReport := s.report.Category(CategoryVertex)
	vertexReport.Appended = len(s.patch.Vertices)
	vertexReport.Kept = len(s.base.Vertices)
	return nil
}

func (s *mergeState) appendMaterial(material *model.Material, settingSource modelSource, faces []*model.Face, meshSource modelSource) {
	material.VerticesCount = len(faces) * 3
	s.out.Materials = append(s.out.Materials, material)
	s.materialSources = append(s.materialSources, settingSource)
	for _, face := range faces {
		s.out.Faces = append(s.out.Faces, face)
		s.faceSources = append(s.faceSources, meshSource)
	}
}

func (s *mergeState) mergeTextures() {
	plan := s.plans[CategoryTexture]
	s.out.Textures = make([]*model.Texture, 0, len(s.base.Textures)+len(plan.appended))
	s.out.Textures = append(s.out.Textures, s.base.Textures...)
	for _, patchIndex := range plan.appended {
		s.out.Textures = append(s.out.Textures, s.patch.Textures[patchIndex])
	}
	categoryReport := s.report.Category(CategoryTexture)
	categoryReport.Kept = len(s.base.Textures)
	categoryReport.Appended = len(plan.appended)
	categoryReport.Skipped = plan.skipped
	categoryReport.Total = len(s.out.Textures)
}
