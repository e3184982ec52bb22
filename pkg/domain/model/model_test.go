package model

import "testing"

func TestBoneApplyLocationKeepsSettings(t *testing.T) {
	bone := &Bone{
		Name:        "arm",
		ParentIndex: 0,
		BoneFlag:    BONE_FLAG_CAN_ROTATE | BONE_FLAG_IS_VISIBLE,
		TailIndex:   -1,
	}
	src := &Bone{
		Name:        "arm",
		ParentIndex: 5,
		Position:    [3]float32{1, 2, 3},
		BoneFlag:    BONE_FLAG_TAIL_IS_BONE | BONE_FLAG_CAN_TRANSLATE,
		TailIndex:   2,
	}
	bone.ApplyLocation(src)

	if bone.Position != src.Position {
		t.Fatalf("position mismatch: %v", bone.Position)
	}
	if bone.ParentIndex != 0 {
		t.Fatalf("parent should be kept: %d", bone.ParentIndex)
	}
	if !bone.IsTailBone() || bone.TailIndex != 2 {
		t.Fatalf("tail mismatch: flag=%d tail=%d", bone.BoneFlag, bone.TailIndex)
	}
	if bone.BoneFlag.Has(BONE_FLAG_IS_VISIBLE) {
		t.Fatalf("visible flag should follow location source")
	}
	if !bone.BoneFlag.Has(BONE_FLAG_CAN_ROTATE) || bone.BoneFlag.Has(BONE_FLAG_CAN_TRANSLATE) {
		t.Fatalf("setting flags should be kept: %d", bone.BoneFlag)
	}
}

func TestBoneApplySettingCopiesIk(t *testing.T) {
	bone := &Bone{Name: "leg IK", BoneFlag: BONE_FLAG_IS_VISIBLE}
	src := &Bone{
		Name:        "leg IK",
		EnglishName: "leg IK",
		ParentIndex: 3,
		BoneFlag:    BONE_FLAG_IS_IK | BONE_FLAG_CAN_ROTATE,
		Ik: &Ik{
			BoneIndex: 4,
			LoopCount: 40,
			Links:     []IkLink{{BoneIndex: 2}, {BoneIndex: 1}},
		},
	}
	bone.ApplySetting(src)
	src.Ik.Links[0].BoneIndex = 99

	if !bone.IsIK() || bone.Ik.BoneIndex != 4 {
		t.Fatalf("ik mismatch: %+v", bone.Ik)
	}
	if bone.Ik.Links[0].BoneIndex != 2 {
		t.Fatalf("ik links should be copied: %+v", bone.Ik.Links)
	}
	if !bone.BoneFlag.Has(BONE_FLAG_IS_VISIBLE) {
		t.Fatalf("visible flag should be kept")
	}
	if bone.ParentIndex != 3 || bone.EnglishName != "leg IK" {
		t.Fatalf("setting mismatch: %+v", bone)
	}
}

func TestMorphOffsetCountFollowsType(t *testing.T) {
	morph := &Morph{
		Name:          "smile",
		MorphType:     MORPH_TYPE_EXTENDED_UV2,
		UvOffsets:     []UvMorphOffset{{VertexIndex: 0}, {VertexIndex: 1}},
		VertexOffsets: []VertexMorphOffset{{VertexIndex: 0}},
	}
	if morph.OffsetCount() != 2 {
		t.Fatalf("offset count mismatch: %d", morph.OffsetCount())
	}
	if !morph.MorphType.IsUv() || MORPH_TYPE_MATERIAL.IsUv() {
		t.Fatalf("uv type check mismatch")
	}
}

func TestModelLookupByName(t *testing.T) {
	modelData := NewPmxModel()
	modelData.Bones = append(modelData.Bones, &Bone{Name: "root"}, &Bone{Name: "arm"})
	modelData.Materials = append(modelData.Materials, &Material{Name: "skin", VerticesCount: 6}, &Material{Name: "hair", VerticesCount: 3})
	if modelData.BoneIndexByName("arm") != 1 {
		t.Fatalf("bone lookup mismatch")
	}
	if modelData.MorphIndexByName("smile") != -1 {
		t.Fatalf("missing morph should be -1")
	}
	if modelData.TotalMaterialFaceCount() != 3 {
		t.Fatalf("face count mismatch: %d", modelData.TotalMaterialFaceCount())
	}
}

func TestDeformTypeCounts(t *testing.T) {
	if BDEF1.BoneCount() != 1 || BDEF2.BoneCount() != 2 || BDEF4.BoneCount() != 4 || SDEF.BoneCount() != 2 {
		t.Fatalf("bone count mismatch")
	}
	if BDEF1.WeightCount() != 0 || SDEF.WeightCount() != 1 || BDEF4.WeightCount() != 4 {
		t.Fatalf("weight count mismatch")
	}
	if DeformType(4).IsValid() {
		t.Fatalf("qdef should not be valid for 2.0")
	}
}
