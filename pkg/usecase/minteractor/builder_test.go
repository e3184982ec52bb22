package minteractor

import (
	"testing"

	"github.com/miu200521358/mu_pmxmerge/pkg/domain/mmath"
	"github.com/miu200521358/mu_pmxmerge/pkg/domain/model"
)

// testModelBuilder はテスト用モデルを組み立てる。
type testModelBuilder struct {
	t *testing.T
	m *ModelData
}

func newTestModel(t *testing.T, name string) *testModelBuilder {
	t.Helper()
	modelData := model.NewPmxModel()
	modelData.Name = name
	modelData.EnglishName = name
	return &testModelBuilder{t: t, m: modelData}
}

func (b *testModelBuilder) build() *ModelData {
	b.t.Helper()
	return b.m
}

func (b *testModelBuilder) texture(path string) int {
	b.m.Textures = append(b.m.Textures, &model.Texture{Name: path})
	return len(b.m.Textures) - 1
}

func (b *testModelBuilder) bone(name string, parentIndex int, position mmath.Vec3) int {
	b.m.Bones = append(b.m.Bones, &model.Bone{
		Name:        name,
		EnglishName: name,
		Position:    position,
		ParentIndex: parentIndex,
		BoneFlag:    model.BONE_FLAG_CAN_ROTATE | model.BONE_FLAG_IS_VISIBLE | model.BONE_FLAG_CAN_MANIPULATE,
		TailIndex:   -1,
		EffectIndex: -1,
	})
	return len(b.m.Bones) - 1
}

func (b *testModelBuilder) vertex(position mmath.Vec3, boneIndex int) int {
	b.m.Vertices = append(b.m.Vertices, &model.Vertex{
		Position:    position,
		Normal:      mmath.Vec3{0, 1, 0},
		ExtendedUvs: make([]mmath.Vec4, b.m.ExtendedUvCount),
		Deform:      model.NewBdef1(boneIndex),
		EdgeFactor:  1,
	})
	return len(b.m.Vertices) - 1
}

// material は材質と所有する面を追加する。面は材質順に並ぶよう末尾へ追加する。
func (b *testModelBuilder) material(name string, textureIndex int, faces ...[3]int) int {
	for _, face := range faces {
		b.m.Faces = append(b.m.Faces, &model.Face{VertexIndexes: face})
	}
	b.m.Materials = append(b.m.Materials, &model.Material{
		Name:               name,
		EnglishName:        name,
		Diffuse:            mmath.Vec4{1, 1, 1, 1},
		TextureIndex:       textureIndex,
		SphereTextureIndex: -1,
		ToonSharingFlag:    model.TOON_SHARING_INDIVIDUAL,
		ToonTextureIndex:   -1,
		VerticesCount:      len(faces) * 3,
	})
	return len(b.m.Materials) - 1
}

func (b *testModelBuilder) morph(morph *model.Morph) int {
	if morph.EnglishName == "" {
		morph.EnglishName = morph.Name
	}
	b.m.Morphs = append(b.m.Morphs, morph)
	return len(b.m.Morphs) - 1
}

func (b *testModelBuilder) rigidBody(name string, boneIndex int) int {
	b.m.RigidBodies = append(b.m.RigidBodies, &model.RigidBody{
		Name:        name,
		EnglishName: name,
		BoneIndex:   boneIndex,
		ShapeType:   model.SHAPE_SPHERE,
		Size:        mmath.Vec3{1, 0, 0},
		Param:       model.RigidBodyParam{Mass: 1, Friction: 0.5},
		PhysicsType: model.PHYSICS_TYPE_DYNAMIC,
	})
	return len(b.m.RigidBodies) - 1
}

func (b *testModelBuilder) joint(name string, rigidBodyIndexA int, rigidBodyIndexB int) int {
	b.m.Joints = append(b.m.Joints, &model.Joint{
		Name:            name,
		EnglishName:     name,
		RigidBodyIndexA: rigidBodyIndexA,
		RigidBodyIndexB: rigidBodyIndexB,
	})
	return len(b.m.Joints) - 1
}

func (b *testModelBuilder) displaySlot(name string, references ...model.Reference) int {
	b.m.DisplaySlots = append(b.m.DisplaySlots, &model.DisplaySlot{
		Name:        name,
		EnglishName: name,
		References:  references,
	})
	return len(b.m.DisplaySlots) - 1
}

func boneRef(index int) model.Reference {
	return model.Reference{DisplayType: model.DISPLAY_TYPE_BONE, DisplayIndex: index}
}

func morphRef(index int) model.Reference {
	return model.Reference{DisplayType: model.DISPLAY_TYPE_MORPH, DisplayIndex: index}
}

// verifyReferenceIntegrity は出力の全参照が範囲内で、全頂点が面から参照されることを検査する。
func verifyReferenceIntegrity(t *testing.T, modelData *ModelData) {
	t.Helper()
	for _, err := range validateModelReferences("merged", modelData) {
		t.Errorf("reference integrity failed: %v", err)
	}
	used := make([]bool, len(modelData.Vertices))
	for _, face := range modelData.Faces {
		for _, vertexIndex := range face.VertexIndexes {
			if vertexIndex >= 0 && vertexIndex < len(used) {
				used[vertexIndex] = true
			}
		}
	}
	for vertexIndex, ok := range used {
		if !ok {
			t.Errorf("orphan vertex remains: index=%d", vertexIndex)
		}
	}
}

func boneNames(modelData *ModelData) []string {
	names := make([]string, 0, len(modelData.Bones))
	for _, bone := range modelData.Bones {
		names = append(names, bone.Name)
	}
	return names
}

func materialNames(modelData *ModelData) []string {
	names := make([]string, 0, len(modelData.Materials))
	for _, material := range modelData.Materials {
		names = append(names, material.Name)
	}
	return names
}

func equalStrings(left []string, right []string) bool {
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}

func hasWarning(report *MergeReport, id string) bool {
	for _, warning := range report.Warnings {
		if warning.ID == id {
			return true
		}
	}
	return false
}
