// 指示: miu200521358
package minteractor

import "github.com/miu200521358/mu_pmxmerge/pkg/domain/model"

// PruneOrphanVertices は面から参照されない頂点を削除し、面とモーフの頂点参照を詰め直す。
// 削除済み頂点を指す頂点/UVモーフのオフセットも除く。
// 戻り値は削除した頂点数とオフセット数。
func PruneOrphanVertices(modelData *ModelData) (int, int) {
	if modelData == nil {
		return 0, 0
	}
	used := make([]bool, len(modelData.Vertices))
	for _, face := range modelData.Faces {
		for _, vertexIndex := range face.VertexIndexes {
			if vertexIndex >= 0 && vertexIndex < len(used) {
				used[vertexIndex] = true
			}
		}
	}

	oldToNew := make([]int, len(modelData.Vertices))
	vertices := make([]*model.Vertex, 0, len(modelData.Vertices))
	for oldIndex, vertex := range modelData.Vertices {
		if !used[oldIndex] {
			oldToNew[oldIndex] = -1
			continue
		}
		oldToNew[oldIndex] = len(vertices)
		vertices = append(vertices, vertex)
	}
	removedVertices := len(modelData.Vertices) - len(vertices)
	if removedVertices == 0 {
		return 0, 0
	}
	modelData.Vertices = vertices

	for _, face := range modelData.Faces {
		for i, vertexIndex := range face.VertexIndexes {
			face.VertexIndexes[i] = oldToNew[vertexIndex]
		}
	}

	removedOffsets := 0
	for _, morph := range modelData.Morphs {
		switch {
		case morph.MorphType == model.MORPH_TYPE_VERTEX:
			var removed int
			morph.VertexOffsets, removed = remapVertexOffsets(morph.VertexOffsets, oldToNew,
				func(o *model.VertexMorphOffset) *int { return &o.VertexIndex })
			removedOffsets += removed
		case morph.MorphType.IsUv():
			var removed int
			morph.UvOffsets, removed = remapVertexOffsets(morph.UvOffsets, oldToNew,
				func(o *model.UvMorphOffset) *int { return &o.VertexIndex })
			removedOffsets += removed
		}
	}
	return removedVertices, removedOffsets
}

func remapVertexOffsets[T any](offsets []T, oldToNew []int, indexOf func(*T) *int) ([]T, int) {
	remapped := make([]T, 0, len(offsets))
	for i := range offsets {
		offset := offsets[i]
		index := indexOf(&offset)
		if *index < 0 || *index >= len(oldToNew) || oldToNew[*index] < 0 {
			continue
		}
		*index = oldToNew[*index]
		remapped = append(remapped, offset)
	}
	return remapped, len(offsets) - len(remapped)
}

func (s *mergeState) pruneVertices() {
	removedVertices, removedOffsets := PruneOrphanVertices(s.out)
	s.report.PrunedVertices = removedVertices
	s.report.PrunedMorphOffsets = removedOffsets

	vertexReport := s.report.Category(CategoryVertex)
	vertexReport.Skipped = removedVertices
	vertexReport.Total = len(s.out.Vertices)
	if removedOffsets > 0 {
		s.report.warn(model.MergeWarningMorphOffsetPruned, CategoryMorph, "削除した頂点を参照するモーフオフセットを除外しました: %d件", removedOffsets)
	}
	logMergeDebug("[%s] 未使用頂点削除: vertices=%d offsets=%d", s.report.RunID, removedVertices, removedOffsets)
}
