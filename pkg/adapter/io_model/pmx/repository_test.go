package pmx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/miu200521358/mu_pmxmerge/pkg/domain/mmath"
	"github.com/miu200521358/mu_pmxmerge/pkg/domain/model"
	"github.com/miu200521358/mu_pmxmerge/pkg/shared/base/merr"
	"github.com/miu200521358/mu_pmxmerge/pkg/usecase/port/moutput"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	source := newSampleModel(t)
	encoded := encodeForTest(t, source)

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	reencoded := encodeForTest(t, decoded)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("re-encoded bytes mismatch: %d != %d", len(encoded), len(reencoded))
	}

	if decoded.Name != "サンプル" || decoded.EnglishComment != "sample comment" {
		t.Fatalf("model info mismatch: %s / %s", decoded.Name, decoded.EnglishComment)
	}
	if len(decoded.Vertices) != 4 || len(decoded.Faces) != 2 {
		t.Fatalf("mesh count mismatch: vertices=%d faces=%d", len(decoded.Vertices), len(decoded.Faces))
	}
	if decoded.Vertices[3].Deform.Type != model.SDEF || decoded.Vertices[3].Deform.SdefR1 != (mmath.Vec3{0, 1, 0}) {
		t.Fatalf("sdef mismatch: %+v", decoded.Vertices[3].Deform)
	}
	if decoded.Vertices[1].ExtendedUvs[0] != (mmath.Vec4{0.5, 0.25, 0, 1}) {
		t.Fatalf("extended uv mismatch: %v", decoded.Vertices[1].ExtendedUvs)
	}
	if decoded.Faces[1].VertexIndexes != [3]int{1, 3, 2} {
		t.Fatalf("face mismatch: %v", decoded.Faces[1].VertexIndexes)
	}
	if decoded.Materials[0].ToonSharingFlag != model.TOON_SHARING_SHARING || decoded.Materials[0].ToonTextureIndex != 3 {
		t.Fatalf("shared toon mismatch: %+v", decoded.Materials[0])
	}
	if decoded.Materials[1].ToonTextureIndex != 1 || decoded.Materials[1].SphereTextureIndex != -1 {
		t.Fatalf("texture index mismatch: %+v", decoded.Materials[1])
	}
	arm := decoded.Bones[1]
	if !arm.IsTailBone() || arm.TailIndex != 2 || arm.ParentIndex != 0 {
		t.Fatalf("arm mismatch: %+v", arm)
	}
	ik := decoded.Bones[3]
	if !ik.IsIK() || ik.Ik.BoneIndex != 2 || len(ik.Ik.Links) != 2 || !ik.Ik.Links[0].AngleLimit {
		t.Fatalf("ik mismatch: %+v", ik.Ik)
	}
	if ik.Ik.Links[0].MaxAngleLimit != (mmath.Vec3{0.5, 0, 0}) {
		t.Fatalf("ik limit mismatch: %+v", ik.Ik.Links[0])
	}
	if decoded.Bones[2].EffectIndex != 1 || decoded.Bones[2].EffectFactor != 0.5 {
		t.Fatalf("effect mismatch: %+v", decoded.Bones[2])
	}
	if len(decoded.Morphs) != 7 {
		t.Fatalf("morph count mismatch: %d", len(decoded.Morphs))
	}
	if decoded.Morphs[3].MaterialOffsets[0].MaterialIndex != model.MaterialMorphAllIndex {
		t.Fatalf("material sentinel mismatch: %+v", decoded.Morphs[3].MaterialOffsets[0])
	}
	if !decoded.Morphs[6].ImpulseOffsets[0].IsLocal || decoded.Morphs[6].ImpulseOffsets[0].Torque != (mmath.Vec3{0, 0, 3}) {
		t.Fatalf("impulse mismatch: %+v", decoded.Morphs[6].ImpulseOffsets[0])
	}
	if decoded.DisplaySlots[1].References[1] != (model.Reference{DisplayType: model.DISPLAY_TYPE_MORPH, DisplayIndex: 1}) {
		t.Fatalf("display reference mismatch: %+v", decoded.DisplaySlots[1].References)
	}
	if decoded.RigidBodies[1].BoneIndex != -1 || decoded.RigidBodies[1].Param.Friction != 0.5 {
		t.Fatalf("rigid body mismatch: %+v", decoded.RigidBodies[1])
	}
	if decoded.Joints[0].RigidBodyIndexB != 1 || decoded.Joints[0].Param.SpringConstantRotation != (mmath.Vec3{1, 2, 3}) {
		t.Fatalf("joint mismatch: %+v", decoded.Joints[0])
	}
}

func TestIndexSizeThresholds(t *testing.T) {
	cases := []struct {
		count  int
		signed bool
		want   int
	}{
		{0, false, 1},
		{255, false, 1},
		{256, false, 2},
		{65535, false, 2},
		{65536, false, 4},
		{127, true, 1},
		{128, true, 2},
		{32767, true, 2},
		{32768, true, 4},
	}
	for _, c := range cases {
		if got := indexSize(c.count, c.signed); got != c.want {
			t.Fatalf("index size mismatch: count=%d signed=%v got=%d want=%d", c.count, c.signed, got, c.want)
		}
	}
}

func TestEncodeWidensBoneIndexFromFinalCount(t *testing.T) {
	modelData := newSampleModel(t)
	for i := len(modelData.Bones); i < 200; i++ {
		modelData.Bones = append(modelData.Bones, &model.Bone{
			Name:        fmt.Sprintf("bone%03d", i),
			ParentIndex: i - 1,
			TailIndex:   -1,
			EffectIndex: -1,
		})
	}
	encoded := encodeForTest(t, modelData)
	// signature(4) + version(4) + header size(1) + encoding, uv, vertex, texture, material, bone
	if encoded[14] != 2 {
		t.Fatalf("bone index size should widen to 2: %d", encoded[14])
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Bones[199].ParentIndex != 198 {
		t.Fatalf("parent mismatch: %d", decoded.Bones[199].ParentIndex)
	}
	if decoded.RigidBodies[1].BoneIndex != -1 {
		t.Fatalf("none index should survive widening: %d", decoded.RigidBodies[1].BoneIndex)
	}
}

func TestEncodeRejectsNilRecords(t *testing.T) {
	testCases := []struct {
		name      string
		appendNil func(modelData *model.PmxModel)
	}{
		{name: "face", appendNil: func(modelData *model.PmxModel) { modelData.Faces = append(modelData.Faces, nil) }},
		{name: "texture", appendNil: func(modelData *model.PmxModel) { modelData.Textures = append(modelData.Textures, nil) }},
		{name: "bone", appendNil: func(modelData *model.PmxModel) { modelData.Bones = append(modelData.Bones, nil) }},
		{name: "joint", appendNil: func(modelData *model.PmxModel) { modelData.Joints = append(modelData.Joints, nil) }},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			modelData := newSampleModel(t)
			tc.appendNil(modelData)
			var buf bytes.Buffer
			err := Encode(&buf, modelData)
			if !errors.Is(err, merr.ErrMalformedInput) {
				t.Fatalf("expected malformed input: %v", err)
			}
		})
	}
}

func TestDecodeRejectsBadSignature(t *testing.T) {
	encoded := encodeForTest(t, newSampleModel(t))
	copy(encoded, []byte("PMD "))
	_, err := Decode(encoded)
	if !errors.Is(err, merr.ErrMalformedInput) {
		t.Fatalf("expected malformed input: %v", err)
	}
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	encoded := encodeForTest(t, newSampleModel(t))
	binary.LittleEndian.PutUint32(encoded[4:8], 0x40066666) // 2.1
	_, err := Decode(encoded)
	if !errors.Is(err, merr.ErrUnsupportedVersion) {
		t.Fatalf("expected unsupported version: %v", err)
	}
	if !errors.Is(err, merr.ErrMalformedInput) {
		t.Fatalf("unsupported version should also be malformed: %v", err)
	}
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	encoded := encodeForTest(t, newSampleModel(t))
	_, err := Decode(encoded[:len(encoded)-10])
	if !errors.Is(err, merr.ErrTruncatedInput) {
		t.Fatalf("expected truncated input: %v", err)
	}
}

func TestDecodeRejectsHugeCount(t *testing.T) {
	modelData := model.NewPmxModel()
	modelData.Name = "a"
	encoded := encodeForTest(t, modelData)
	// header(17) + 4 texts; overwrite vertex count
	offset := 17
	for i := 0; i < 4; i++ {
		length := int(binary.LittleEndian.Uint32(encoded[offset:]))
		offset += 4 + length
	}
	binary.LittleEndian.PutUint32(encoded[offset:], 0x7fffffff)
	_, err := Decode(encoded)
	if !errors.Is(err, merr.ErrTruncatedInput) {
		t.Fatalf("expected truncated input: %v", err)
	}
}

func TestRepositorySaveAndLoadUtf8(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "sample.pmx")
	repository := NewPmxRepository()
	source := newSampleModel(t)

	err := repository.Save(path, source, moutput.SaveOptions{ForceTextEncoding: true, TextEncoding: model.TextEncodingUtf8})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := repository.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.TextEncoding != model.TextEncodingUtf8 {
		t.Fatalf("encoding mismatch: %d", loaded.TextEncoding)
	}
	if loaded.Path != path {
		t.Fatalf("path mismatch: %s", loaded.Path)
	}
	if loaded.Bones[1].Name != "腕" || loaded.Textures[1].Name != "tex\\髪.png" {
		t.Fatalf("text mismatch: %s / %s", loaded.Bones[1].Name, loaded.Textures[1].Name)
	}
	if repository.InferName(path) != "sample" {
		t.Fatalf("infer name mismatch: %s", repository.InferName(path))
	}
}

func TestRepositoryRejectsOtherExtension(t *testing.T) {
	repository := NewPmxRepository()
	if repository.CanLoad("model.pmd") {
		t.Fatalf("pmd should not be loadable")
	}
	if err := repository.Save(filepath.Join(t.TempDir(), "model.vmd"), model.NewPmxModel(), moutput.SaveOptions{}); err == nil {
		t.Fatalf("expected error")
	}
}

func encodeForTest(t *testing.T, modelData *model.PmxModel) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, modelData); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	return buf.Bytes()
}

// newSampleModel は全セクションを含む小さなモデルを生成する。
func newSampleModel(t *testing.T) *model.PmxModel {
	t.Helper()
	modelData := model.NewPmxModel()
	modelData.Name = "サンプル"
	modelData.EnglishName = "sample"
	modelData.Comment = "コメント"
	modelData.EnglishComment = "sample comment"
	modelData.ExtendedUvCount = 1

	modelData.Vertices = []*model.Vertex{
		{Position: mmath.Vec3{0, 0, 0}, Normal: mmath.Vec3{0, 0, -1}, Uv: mmath.Vec2{0, 0}, Deform: model.NewBdef1(0), EdgeFactor: 1},
		{Position: mmath.Vec3{1, 0, 0}, Normal: mmath.Vec3{0, 0, -1}, Uv: mmath.Vec2{1, 0}, ExtendedUvs: []mmath.Vec4{{0.5, 0.25, 0, 1}}, Deform: model.NewBdef2(0, 1, 0.25), EdgeFactor: 1},
		{Position: mmath.Vec3{0, 1, 0}, Normal: mmath.Vec3{0, 0, -1}, Uv: mmath.Vec2{0, 1}, Deform: model.NewBdef4([4]int{0, 1, 2, -1}, [4]float32{0.5, 0.25, 0.25, 0}), EdgeFactor: 1},
		{Position: mmath.Vec3{1, 1, 0}, Normal: mmath.Vec3{0, 0, -1}, Uv: mmath.Vec2{1, 1}, Deform: model.Deform{
			Type: model.SDEF, BoneIndexes: []int{1, 2}, BoneWeights: []float32{0.75},
			SdefC: mmath.Vec3{0.5, 0.5, 0}, SdefR0: mmath.Vec3{1, 0, 0}, SdefR1: mmath.Vec3{0, 1, 0},
		}, EdgeFactor: 0.5},
	}
	modelData.Faces = []*model.Face{{VertexIndexes: [3]int{0, 1, 2}}, {VertexIndexes: [3]int{1, 3, 2}}}
	modelData.Textures = []*model.Texture{{Name: "tex\\skin.png"}, {Name: "tex\\髪.png"}}
	modelData.Materials = []*model.Material{
		{
			Name: "肌", EnglishName: "skin", Diffuse: mmath.Vec4{1, 1, 1, 1}, Specular: mmath.Vec4{0, 0, 0, 5},
			Ambient: mmath.Vec3{0.5, 0.5, 0.5}, DrawFlag: model.DRAW_FLAG_DOUBLE_SIDED_DRAWING | 0x80,
			Edge: mmath.Vec4{0, 0, 0, 1}, EdgeSize: 1, TextureIndex: 0, SphereTextureIndex: -1,
			ToonSharingFlag: model.TOON_SHARING_SHARING, ToonTextureIndex: 3, Memo: "memo", VerticesCount: 3,
		},
		{
			Name: "髪", EnglishName: "hair", Diffuse: mmath.Vec4{1, 0, 0, 1}, TextureIndex: 1, SphereTextureIndex: -1,
			SphereMode: model.SPHERE_MODE_ADDITION, ToonSharingFlag: model.TOON_SHARING_INDIVIDUAL, ToonTextureIndex: 1,
			VerticesCount: 3,
		},
	}
	modelData.Bones = []*model.Bone{
		{Name: "全ての親", EnglishName: "root", ParentIndex: -1, TailIndex: -1, EffectIndex: -1,
			BoneFlag: model.BONE_FLAG_CAN_ROTATE | model.BONE_FLAG_CAN_TRANSLATE | model.BONE_FLAG_IS_VISIBLE, TailPosition: mmath.Vec3{0, 1, 0}},
		{Name: "腕", EnglishName: "arm", Position: mmath.Vec3{1, 1, 0}, ParentIndex: 0, TailIndex: 2, EffectIndex: -1,
			BoneFlag:   model.BONE_FLAG_TAIL_IS_BONE | model.BONE_FLAG_CAN_ROTATE | model.BONE_FLAG_HAS_LOCAL_AXIS,
			LocalAxisX: mmath.Vec3{1, 0, 0}, LocalAxisZ: mmath.Vec3{0, 0, 1}},
		{Name: "手", EnglishName: "hand", Position: mmath.Vec3{2, 1, 0}, ParentIndex: 1, Layer: 1, TailIndex: -1, EffectIndex: 1, EffectFactor: 0.5,
			BoneFlag:  model.BONE_FLAG_CAN_ROTATE | model.BONE_FLAG_IS_EXTERNAL_ROTATION | model.BONE_FLAG_HAS_FIXED_AXIS | model.BONE_FLAG_IS_EXTERNAL_PARENT_DEFORM,
			FixedAxis: mmath.Vec3{1, 0, 0}, EffectorKey: 7},
		{Name: "手IK", EnglishName: "hand IK", ParentIndex: 0, TailIndex: -1, EffectIndex: -1,
			BoneFlag: model.BONE_FLAG_IS_IK | model.BONE_FLAG_CAN_TRANSLATE,
			Ik: &model.Ik{BoneIndex: 2, LoopCount: 40, UnitRotation: 0.1, Links: []model.IkLink{
				{BoneIndex: 1, AngleLimit: true, MinAngleLimit: mmath.Vec3{-0.5, 0, 0}, MaxAngleLimit: mmath.Vec3{0.5, 0, 0}},
				{BoneIndex: 0},
			}}},
	}
	modelData.Morphs = []*model.Morph{
		{Name: "頂点", Panel: model.MORPH_PANEL_EYE, MorphType: model.MORPH_TYPE_VERTEX,
			VertexOffsets: []model.VertexMorphOffset{{VertexIndex: 3, Position: mmath.Vec3{0, 0.1, 0}}}},
		{Name: "UV1", Panel: model.MORPH_PANEL_OTHER, MorphType: model.MORPH_TYPE_EXTENDED_UV1,
			UvOffsets: []model.UvMorphOffset{{VertexIndex: 1, Uv: mmath.Vec4{0.1, 0, 0, 0}}}},
		{Name: "ボーン", Panel: model.MORPH_PANEL_OTHER, MorphType: model.MORPH_TYPE_BONE,
			BoneOffsets: []model.BoneMorphOffset{{BoneIndex: 1, Position: mmath.Vec3{0, 1, 0}, Rotation: mmath.IdentityQuaternion()}}},
		{Name: "材質", Panel: model.MORPH_PANEL_OTHER, MorphType: model.MORPH_TYPE_MATERIAL,
			MaterialOffsets: []model.MaterialMorphOffset{{MaterialIndex: model.MaterialMorphAllIndex, CalcMode: model.CALC_MODE_ADDITION, Diffuse: mmath.Vec4{0, 0, 0, -1}}}},
		{Name: "グループ", Panel: model.MORPH_PANEL_LIP, MorphType: model.MORPH_TYPE_GROUP,
			GroupOffsets: []model.GroupMorphOffset{{MorphIndex: 0, MorphFactor: 1}, {MorphIndex: 1, MorphFactor: 0.5}}},
		{Name: "フリップ", Panel: model.MORPH_PANEL_OTHER, MorphType: model.MORPH_TYPE_FLIP,
			FlipOffsets: []model.FlipMorphOffset{{MorphIndex: 4, MorphFactor: 1}}},
		{Name: "インパルス", Panel: model.MORPH_PANEL_OTHER, MorphType: model.MORPH_TYPE_IMPULSE,
			ImpulseOffsets: []model.ImpulseMorphOffset{{RigidBodyIndex: 0, IsLocal: true, Velocity: mmath.Vec3{1, 0, 0}, Torque: mmath.Vec3{0, 0, 3}}}},
	}
	modelData.DisplaySlots = []*model.DisplaySlot{
		{Name: "Root", EnglishName: "Root", SpecialFlag: model.SPECIAL_FLAG_ON, References: []model.Reference{{DisplayType: model.DISPLAY_TYPE_BONE, DisplayIndex: 0}}},
		{Name: "表情", EnglishName: "Exp", SpecialFlag: model.SPECIAL_FLAG_ON, References: []model.Reference{
			{DisplayType: model.DISPLAY_TYPE_MORPH, DisplayIndex: 0},
			{DisplayType: model.DISPLAY_TYPE_MORPH, DisplayIndex: 1},
		}},
	}
	modelData.RigidBodies = []*model.RigidBody{
		{Name: "腕剛体", BoneIndex: 1, CollisionGroup: 2, CollisionMask: 0xfffe, ShapeType: model.SHAPE_CAPSULE,
			Size: mmath.Vec3{0.2, 1, 0}, Param: model.RigidBodyParam{Mass: 1, LinearDamping: 0.5, AngularDamping: 0.5, Friction: 0.5}, PhysicsType: model.PHYSICS_TYPE_DYNAMIC},
		{Name: "浮遊剛体", BoneIndex: -1, ShapeType: model.SHAPE_SPHERE, Param: model.RigidBodyParam{Mass: 1, Friction: 0.5}},
	}
	modelData.Joints = []*model.Joint{
		{Name: "腕J", RigidBodyIndexA: 0, RigidBodyIndexB: 1, Position: mmath.Vec3{1, 1, 0},
			Param: model.JointParam{RotationLimitMin: mmath.Vec3{-1, -1, -1}, RotationLimitMax: mmath.Vec3{1, 1, 1}, SpringConstantRotation: mmath.Vec3{1, 2, 3}}},
	}
	return modelData
}
