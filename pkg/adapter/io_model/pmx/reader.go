// 指示: miu200521358
package pmx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/miu200521358/mu_pmxmerge/pkg/domain/mmath"
	"github.com/miu200521358/mu_pmxmerge/pkg/domain/model"
	"github.com/miu200521358/mu_pmxmerge/pkg/shared/base/merr"
)

// pmxReader はPMXバイト列を順に読み出す。
type pmxReader struct {
	buf    *bytes.Reader
	size   int64
	header pmxHeader
	text   *textCodec
}

func newPmxReader(data []byte) *pmxReader {
	return &pmxReader{buf: bytes.NewReader(data), size: int64(len(data))}
}

func (r *pmxReader) offset() int64 {
	return r.size - int64(r.buf.Len())
}

func (r *pmxReader) read(data any) error {
	if err := binary.Read(r.buf, binary.LittleEndian, data); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return merr.NewTruncatedInput("データが途中で終了しています (offset=%d)", err, r.offset())
		}
		return merr.NewMalformedInput("読み込みに失敗しました (offset=%d)", err, r.offset())
	}
	return nil
}

func (r *pmxReader) readByte() (byte, error) {
	var value byte
	err := r.read(&value)
	return value, err
}

func (r *pmxReader) readUint16() (uint16, error) {
	var value uint16
	err := r.read(&value)
	return value, err
}

func (r *pmxReader) readInt32() (int, error) {
	var value int32
	err := r.read(&value)
	return int(value), err
}

func (r *pmxReader) readFloat() (float32, error) {
	var value float32
	err := r.read(&value)
	return value, err
}

func (r *pmxReader) readVec2() (mmath.Vec2, error) {
	var value mmath.Vec2
	err := r.read(&value)
	return value, err
}

func (r *pmxReader) readVec3() (mmath.Vec3, error) {
	var value mmath.Vec3
	err := r.read(&value)
	return value, err
}

func (r *pmxReader) readVec4() (mmath.Vec4, error) {
	var value mmath.Vec4
	err := r.read(&value)
	return value, err
}

// readCount は件数を読み、残りバイト数で表現できない件数を弾く。
func (r *pmxReader) readCount(label string, minRecordSize int) (int, error) {
	count, err := r.readInt32()
	if err != nil {
		return 0, err
	}
	if count < 0 {
		return 0, merr.NewMalformedInput("%s数が負です: %d", nil, label, count)
	}
	if int64(count)*int64(minRecordSize) > int64(r.buf.Len()) {
		return 0, merr.NewTruncatedInput("%s数(%d)に対してデータが不足しています", nil, label, count)
	}
	return count, nil
}

func (r *pmxReader) readText() (string, error) {
	length, err := r.readCount("テキスト長", 1)
	if err != nil {
		return "", err
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r.buf, data); err != nil {
		return "", merr.NewTruncatedInput("テキストが途中で終了しています (offset=%d)", err, r.offset())
	}
	text, err := r.text.decode(data)
	if err != nil {
		return "", merr.NewMalformedInput("テキストが不正です (offset=%d)", err, r.offset())
	}
	return text, nil
}

// readIndex は符号付き参照を読む。-1 は参照なし。
func (r *pmxReader) readIndex(size int) (int, error) {
	switch size {
	case 1:
		var value int8
		err := r.read(&value)
		return int(value), err
	case 2:
		var value int16
		err := r.read(&value)
		return int(value), err
	default:
		var value int32
		err := r.read(&value)
		return int(value), err
	}
}

// readVertexIndex は頂点参照を読む。1,2バイトは符号なし。
func (r *pmxReader) readVertexIndex() (int, error) {
	switch r.header.VertexIndexSize {
	case 1:
		var value uint8
		err := r.read(&value)
		return int(value), err
	case 2:
		var value uint16
		err := r.read(&value)
		return int(value), err
	default:
		var value int32
		err := r.read(&value)
		return int(value), err
	}
}

func (r *pmxReader) readBoneIndex() (int, error) {
	return r.readIndex(r.header.BoneIndexSize)
}

func (r *pmxReader) readHeader() error {
	signature := make([]byte, len(pmxSignature))
	if _, err := io.ReadFull(r.buf, signature); err != nil {
		return merr.NewMalformedInput("PMXシグネチャを読み込めません", err)
	}
	if string(signature) != pmxSignature {
		return merr.NewMalformedInput("PMXシグネチャが不正です: %q", nil, signature)
	}
	version, err := r.readFloat()
	if err != nil {
		return err
	}
	if math.Abs(float64(version-model.PmxVersion)) > 1e-6 {
		return merr.NewUnsupportedVersion(version)
	}
	dataSize, err := r.readByte()
	if err != nil {
		return err
	}
	if int(dataSize) != pmxHeaderDataSize {
		return merr.NewMalformedInput("ヘッダサイズが不正です: %d", nil, dataSize)
	}
	data := make([]byte, pmxHeaderDataSize)
	if _, err := io.ReadFull(r.buf, data); err != nil {
		return merr.NewTruncatedInput("ヘッダが途中で終了しています", err)
	}

	header := pmxHeader{
		Version:            version,
		Encoding:           model.TextEncoding(data[0]),
		ExtendedUvCount:    int(data[1]),
		VertexIndexSize:    int(data[2]),
		TextureIndexSize:   int(data[3]),
		MaterialIndexSize:  int(data[4]),
		BoneIndexSize:      int(data[5]),
		MorphIndexSize:     int(data[6]),
		RigidBodyIndexSize: int(data[7]),
	}
	if header.Encoding != model.TextEncodingUtf16 && header.Encoding != model.TextEncodingUtf8 {
		return merr.NewMalformedInput("テキストエンコードが不正です: %d", nil, header.Encoding)
	}
	if header.ExtendedUvCount > model.MaxExtendedUvCount {
		return merr.NewMalformedInput("追加UV数が範囲外です: %d", nil, header.ExtendedUvCount)
	}
	for _, size := range data[2:] {
		if !isValidIndexSize(int(size)) {
			return merr.NewMalformedInput("参照サイズが不正です: %d", nil, size)
		}
	}
	r.header = header
	r.text = newTextCodec(header.Encoding)
	return nil
}

// decodeModel はバイト列全体をモデルへ変換する。
func (r *pmxReader) decodeModel() (*model.PmxModel, error) {
	if err := r.readHeader(); err != nil {
		return nil, err
	}
	modelData := model.NewPmxModel()
	modelData.Version = r.header.Version
	modelData.TextEncoding = r.header.Encoding
	modelData.ExtendedUvCount = r.header.ExtendedUvCount

	var err error
	if modelData.Name, err = r.readText(); err != nil {
		return nil, err
	}
	if modelData.EnglishName, err = r.readText(); err != nil {
		return nil, err
	}
	if modelData.Comment, err = r.readText(); err != nil {
		return nil, err
	}
	if modelData.EnglishComment, err = r.readText(); err != nil {
		return nil, err
	}

	sections := []struct {
		label string
		read  func(*model.PmxModel) error
	}{
		{"頂点", r.readVertices},
		{"面", r.readFaces},
		{"テクスチャ", r.readTextures},
		{"材質", r.readMaterials},
		{"ボーン", r.readBones},
		{"モーフ", r.readMorphs},
		{"表示枠", r.readDisplaySlots},
		{"剛体", r.readRigidBodies},
		{"ジョイント", r.readJoints},
	}
	for _, section := range sections {
		if err := section.read(modelData); err != nil {
			logPmxDebug("PMX読み込み失敗: section=%s offset=%d", section.label, r.offset())
			return nil, err
		}
	}
	return modelData, nil
}

func (r *pmxReader) readVertices(modelData *model.PmxModel) error {
	count, err := r.readCount("頂点", 37)
	if err != nil {
		return err
	}
	modelData.Vertices = make([]*model.Vertex, 0, count)
	for i := 0; i < count; i++ {
		vertex, err := r.readVertex()
		if err != nil {
			return err
		}
		modelData.Vertices = append(modelData.Vertices, vertex)
	}
	return nil
}

func (r *pmxReader) readVertex() (*model.Vertex, error) {
	vertex := &model.Vertex{ExtendedUvs: make([]mmath.Vec4, r.header.ExtendedUvCount)}
	var err error
	if vertex.Position, err = r.readVec3(); err != nil {
		return nil, err
	}
	if vertex.Normal, err = r.readVec3(); err != nil {
		return nil, err
	}
	if vertex.Uv, err = r.readVec2(); err != nil {
		return nil, err
	}
	for i := range vertex.ExtendedUvs {
		if vertex.ExtendedUvs[i], err = r.readVec4(); err != nil {
			return nil, err
		}
	}
	deformType, err := r.readByte()
	if err != nil {
		return nil, err
	}
	vertex.Deform, err = r.readDeform(model.DeformType(deformType))
	if err != nil {
		return nil, err
	}
	if vertex.EdgeFactor, err = r.readFloat(); err != nil {
		return nil, err
	}
	return vertex, nil
}

func (r *pmxReader) readDeform(deformType model.DeformType) (model.Deform, error) {
	if !deformType.IsValid() {
		return model.Deform{}, merr.NewMalformedInput("頂点の変形方式が不正です: %d", nil, deformType)
	}
	deform := model.Deform{
		Type:        deformType,
		BoneIndexes: make([]int, deformType.BoneCount()),
		BoneWeights: make([]float32, deformType.WeightCount()),
	}
	for i := range deform.BoneIndexes {
		index, err := r.readBoneIndex()
		if err != nil {
			return model.Deform{}, err
		}
		deform.BoneIndexes[i] = index
	}
	for i := range deform.BoneWeights {
		weight, err := r.readFloat()
		if err != nil {
			return model.Deform{}, err
		}
		deform.BoneWeights[i] = weight
	}
	if deformType == model.SDEF {
		var err error
		if deform.SdefC, err = r.readVec3(); err != nil {
			return model.Deform{}, err
		}
		if deform.SdefR0, err = r.readVec3(); err != nil {
			return model.Deform{}, err
		}
		if deform.SdefR1, err = r.readVec3(); err != nil {
			return model.Deform{}, err
		}
	}
	return deform, nil
}

func (r *pmxReader) readFaces(modelData *model.PmxModel) error {
	count, err := r.readCount("面頂点", r.header.VertexIndexSize)
	if err != nil {
		return err
	}
	if count%3 != 0 {
		return merr.NewMalformedInput("面頂点数が3の倍数ではありません: %d", nil, count)
	}
	modelData.Faces = make([]*model.Face, 0, count/3)
	for i := 0; i < count/3; i++ {
		face := &model.Face{}
		for j := 0; j < 3; j++ {
			index, err := r.readVertexIndex()
			if err != nil {
				return err
			}
			face.VertexIndexes[j] = index
		}
		modelData.Faces = append(modelData.Faces, face)
	}
	return nil
}

func (r *pmxReader) readTextures(modelData *model.PmxModel) error {
	count, err := r.readCount("テクスチャ", 4)
	if err != nil {
		return err
	}
	modelData.Textures = make([]*model.Texture, 0, count)
	for i := 0; i < count; i++ {
		name, err := r.readText()
		if err != nil {
			return err
		}
		modelData.Textures = append(modelData.Textures, &model.Texture{Name: name})
	}
	return nil
}

func (r *pmxReader) readMaterials(modelData *model.PmxModel) error {
	count, err := r.readCount("材質", 66)
	if err != nil {
		return err
	}
	modelData.Materials = make([]*model.Material, 0, count)
	for i := 0; i < count; i++ {
		material, err := r.readMaterial()
		if err != nil {
			return err
		}
		modelData.Materials = append(modelData.Materials, material)
	}
	return nil
}

func (r *pmxReader) readMaterial() (*model.Material, error) {
	material := &model.Material{}
	var err error
	if material.Name, err = r.readText(); err != nil {
		return nil, err
	}
	if material.EnglishName, err = r.readText(); err != nil {
		return nil, err
	}
	if material.Diffuse, err = r.readVec4(); err != nil {
		return nil, err
	}
	if material.Specular, err = r.readVec4(); err != nil {
		return nil, err
	}
	if material.Ambient, err = r.readVec3(); err != nil {
		return nil, err
	}
	flag, err := r.readByte()
	if err != nil {
		return nil, err
	}
	material.DrawFlag = model.DrawFlag(flag)
	if material.Edge, err = r.readVec4(); err != nil {
		return nil, err
	}
	if material.EdgeSize, err = r.readFloat(); err != nil {
		return nil, err
	}
	if material.TextureIndex, err = r.readIndex(r.header.TextureIndexSize); err != nil {
		return nil, err
	}
	if material.SphereTextureIndex, err = r.readIndex(r.header.TextureIndexSize); err != nil {
		return nil, err
	}
	sphereMode, err := r.readByte()
	if err != nil {
		return nil, err
	}
	material.SphereMode = model.SphereMode(sphereMode)
	toonSharing, err := r.readByte()
	if err != nil {
		return nil, err
	}
	material.ToonSharingFlag = model.ToonSharing(toonSharing)
	switch material.ToonSharingFlag {
	case model.TOON_SHARING_SHARING:
		toon, err := r.readByte()
		if err != nil {
			return nil, err
		}
		material.ToonTextureIndex = int(toon)
	case model.TOON_SHARING_INDIVIDUAL:
		if material.ToonTextureIndex, err = r.readIndex(r.header.TextureIndexSize); err != nil {
			return nil, err
		}
	default:
		return nil, merr.NewMalformedInput("Toon共有フラグが不正です: %d", nil, toonSharing)
	}
	if material.Memo, err = r.readText(); err != nil {
		return nil, err
	}
	if material.VerticesCount, err = r.readInt32(); err != nil {
		return nil, err
	}
	if material.VerticesCount < 0 || material.VerticesCount%3 != 0 {
		return nil, merr.NewMalformedInput("材質の面頂点数が不正です: %s=%d", nil, material.Name, material.VerticesCount)
	}
	return material, nil
}

func (r *pmxReader) readBones(modelData *model.PmxModel) error {
	count, err := r.readCount("ボーン", 28)
	if err != nil {
		return err
	}
	modelData.Bones = make([]*model.Bone, 0, count)
	for i := 0; i < count; i++ {
		bone, err := r.readBone()
		if err != nil {
			return err
		}
		modelData.Bones = append(modelData.Bones, bone)
	}
	return nil
}

func (r *pmxReader) readBone() (*model.Bone, error) {
	bone := &model.Bone{TailIndex: -1, EffectIndex: -1}
	var err error
	if bone.Name, err = r.readText(); err != nil {
		return nil, err
	}
	if bone.EnglishName, err = r.readText(); err != nil {
		return nil, err
	}
	if bone.Position, err = r.readVec3(); err != nil {
		return nil, err
	}
	if bone.ParentIndex, err = r.readBoneIndex(); err != nil {
		return nil, err
	}
	if bone.Layer, err = r.readInt32(); err != nil {
		return nil, err
	}
	flag, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	bone.BoneFlag = model.BoneFlag(flag)

	if bone.IsTailBone() {
		if bone.TailIndex, err = r.readBoneIndex(); err != nil {
			return nil, err
		}
	} else if bone.TailPosition, err = r.readVec3(); err != nil {
		return nil, err
	}
	if bone.HasEffect() {
		if bone.EffectIndex, err = r.readBoneIndex(); err != nil {
			return nil, err
		}
		if bone.EffectFactor, err = r.readFloat(); err != nil {
			return nil, err
		}
	}
	if bone.BoneFlag.Has(model.BONE_FLAG_HAS_FIXED_AXIS) {
		if bone.FixedAxis, err = r.readVec3(); err != nil {
			return nil, err
		}
	}
	if bone.BoneFlag.Has(model.BONE_FLAG_HAS_LOCAL_AXIS) {
		if bone.LocalAxisX, err = r.readVec3(); err != nil {
			return nil, err
		}
		if bone.LocalAxisZ, err = r.readVec3(); err != nil {
			return nil, err
		}
	}
	if bone.BoneFlag.Has(model.BONE_FLAG_IS_EXTERNAL_PARENT_DEFORM) {
		if bone.EffectorKey, err = r.readInt32(); err != nil {
			return nil, err
		}
	}
	if bone.BoneFlag.Has(model.BONE_FLAG_IS_IK) {
		if bone.Ik, err = r.readIk(); err != nil {
			return nil, err
		}
	}
	return bone, nil
}

func (r *pmxReader) readIk() (*model.Ik, error) {
	ik := &model.Ik{}
	var err error
	if ik.BoneIndex, err = r.readBoneIndex(); err != nil {
		return nil, err
	}
	if ik.LoopCount, err = r.readInt32(); err != nil {
		return nil, err
	}
	if ik.UnitRotation, err = r.readFloat(); err != nil {
		return nil, err
	}
	count, err := r.readCount("IKリンク", r.header.BoneIndexSize+1)
	if err != nil {
		return nil, err
	}
	ik.Links = make([]model.IkLink, count)
	for i := range ik.Links {
		link := &ik.Links[i]
		if link.BoneIndex, err = r.readBoneIndex(); err != nil {
			return nil, err
		}
		limit, err := r.readByte()
		if err != nil {
			return nil, err
		}
		link.AngleLimit = limit == 1
		if link.AngleLimit {
			if link.MinAngleLimit, err = r.readVec3(); err != nil {
				return nil, err
			}
			if link.MaxAngleLimit, err = r.readVec3(); err != nil {
				return nil, err
			}
		}
	}
	return ik, nil
}

func (r *pmxReader) readMorphs(modelData *model.PmxModel) error {
	count, err := r.readCount("モーフ", 14)
	if err != nil {
		return err
	}
	modelData.Morphs = make([]*model.Morph, 0, count)
	for i := 0; i < count; i++ {
		morph, err := r.readMorph()
		if err != nil {
			return err
		}
		modelData.Morphs = append(modelData.Morphs, morph)
	}
	return nil
}

func (r *pmxReader) readMorph() (*model.Morph, error) {
	morph := &model.Morph{}
	var err error
	if morph.Name, err = r.readText(); err != nil {
		return nil, err
	}
	if morph.EnglishName, err = r.readText(); err != nil {
		return nil, err
	}
	panel, err := r.readByte()
	if err != nil {
		return nil, err
	}
	morph.Panel = model.MorphPanel(panel)
	morphType, err := r.readByte()
	if err != nil {
		return nil, err
	}
	morph.MorphType = model.MorphType(morphType)
	if !morph.MorphType.IsValid() {
		return nil, merr.NewMalformedInput("モーフ種別が不正です: %s=%d", nil, morph.Name, morphType)
	}
	count, err := r.readCount("モーフオフセット", 1)
	if err != nil {
		return nil, err
	}

	switch {
	case morph.MorphType == model.MORPH_TYPE_GROUP:
		morph.GroupOffsets = make([]model.GroupMorphOffset, count)
		for i := range morph.GroupOffsets {
			offset := &morph.GroupOffsets[i]
			if offset.MorphIndex, err = r.readIndex(r.header.MorphIndexSize); err != nil {
				return nil, err
			}
			if offset.MorphFactor, err = r.readFloat(); err != nil {
				return nil, err
			}
		}
	case morph.MorphType == model.MORPH_TYPE_VERTEX:
		morph.VertexOffsets = make([]model.VertexMorphOffset, count)
		for i := range morph.VertexOffsets {
			offset := &morph.VertexOffsets[i]
			if offset.VertexIndex, err = r.readVertexIndex(); err != nil {
				return nil, err
			}
			if offset.Position, err = r.readVec3(); err != nil {
				return nil, err
			}
		}
	case morph.MorphType == model.MORPH_TYPE_BONE:
		morph.BoneOffsets = make([]model.BoneMorphOffset, count)
		for i := range morph.BoneOffsets {
			offset := &morph.BoneOffsets[i]
			if offset.BoneIndex, err = r.readBoneIndex(); err != nil {
				return nil, err
			}
			if offset.Position, err = r.readVec3(); err != nil {
				return nil, err
			}
			if offset.Rotation, err = r.readVec4(); err != nil {
				return nil, err
			}
		}
	case morph.MorphType.IsUv():
		morph.UvOffsets = make([]model.UvMorphOffset, count)
		for i := range morph.UvOffsets {
			offset := &morph.UvOffsets[i]
			if offset.VertexIndex, err = r.readVertexIndex(); err != nil {
				return nil, err
			}
			if offset.Uv, err = r.readVec4(); err != nil {
				return nil, err
			}
		}
	case morph.MorphType == model.MORPH_TYPE_MATERIAL:
		morph.MaterialOffsets = make([]model.MaterialMorphOffset, count)
		for i := range morph.MaterialOffsets {
			if err := r.readMaterialMorphOffset(&morph.MaterialOffsets[i]); err != nil {
				return nil, err
			}
		}
	case morph.MorphType == model.MORPH_TYPE_FLIP:
		morph.FlipOffsets = make([]model.FlipMorphOffset, count)
		for i := range morph.FlipOffsets {
			offset := &morph.FlipOffsets[i]
			if offset.MorphIndex, err = r.readIndex(r.header.MorphIndexSize); err != nil {
				return nil, err
			}
			if offset.MorphFactor, err = r.readFloat(); err != nil {
				return nil, err
			}
		}
	case morph.MorphType == model.MORPH_TYPE_IMPULSE:
		morph.ImpulseOffsets = make([]model.ImpulseMorphOffset, count)
		for i := range morph.ImpulseOffsets {
			offset := &morph.ImpulseOffsets[i]
			if offset.RigidBodyIndex, err = r.readIndex(r.header.RigidBodyIndexSize); err != nil {
				return nil, err
			}
			local, err := r.readByte()
			if err != nil {
				return nil, err
			}
			offset.IsLocal = local != 0
			if offset.Velocity, err = r.readVec3(); err != nil {
				return nil, err
			}
			if offset.Torque, err = r.readVec3(); err != nil {
				return nil, err
			}
		}
	}
	return morph, nil
}

func (r *pmxReader) readMaterialMorphOffset(offset *model.MaterialMorphOffset) error {
	var err error
	if offset.MaterialIndex, err = r.readIndex(r.header.MaterialIndexSize); err != nil {
		return err
	}
	calcMode, err := r.readByte()
	if err != nil {
		return err
	}
	offset.CalcMode = model.MaterialMorphCalcMode(calcMode)
	if offset.Diffuse, err = r.readVec4(); err != nil {
		return err
	}
	if offset.Specular, err = r.readVec4(); err != nil {
		return err
	}
	if offset.Ambient, err = r.readVec3(); err != nil {
		return err
	}
	if offset.Edge, err = r.readVec4(); err != nil {
		return err
	}
	if offset.EdgeSize, err = r.readFloat(); err != nil {
		return err
	}
	if offset.TextureFactor, err = r.readVec4(); err != nil {
		return err
	}
	if offset.SphereTextureFactor, err = r.readVec4(); err != nil {
		return err
	}
	if offset.ToonTextureFactor, err = r.readVec4(); err != nil {
		return err
	}
	return nil
}

func (r *pmxReader) readDisplaySlots(modelData *model.PmxModel) error {
	count, err := r.readCount("表示枠", 13)
	if err != nil {
		return err
	}
	modelData.DisplaySlots = make([]*model.DisplaySlot, 0, count)
	for i := 0; i < count; i++ {
		slot := &model.DisplaySlot{}
		if slot.Name, err = r.readText(); err != nil {
			return err
		}
		if slot.EnglishName, err = r.readText(); err != nil {
			return err
		}
		special, err := r.readByte()
		if err != nil {
			return err
		}
		slot.SpecialFlag = model.SpecialFlag(special)
		referenceCount, err := r.readCount("表示枠要素", 2)
		if err != nil {
			return err
		}
		slot.References = make([]model.Reference, referenceCount)
		for j := range slot.References {
			displayType, err := r.readByte()
			if err != nil {
				return err
			}
			reference := &slot.References[j]
			reference.DisplayType = model.DisplayType(displayType)
			switch reference.DisplayType {
			case model.DISPLAY_TYPE_BONE:
				reference.DisplayIndex, err = r.readBoneIndex()
			case model.DISPLAY_TYPE_MORPH:
				reference.DisplayIndex, err = r.readIndex(r.header.MorphIndexSize)
			default:
				return merr.NewMalformedInput("表示枠要素の種別が不正です: %s=%d", nil, slot.Name, displayType)
			}
			if err != nil {
				return err
			}
		}
		modelData.DisplaySlots = append(modelData.DisplaySlots, slot)
	}
	return nil
}

func (r *pmxReader) readRigidBodies(modelData *model.PmxModel) error {
	count, err := r.readCount("剛体", 70)
	if err != nil {
		return err
	}
	modelData.RigidBodies = make([]*model.RigidBody, 0, count)
	for i := 0; i < count; i++ {
		rigidBody := &model.RigidBody{}
		if rigidBody.Name, err = r.readText(); err != nil {
			return err
		}
		if rigidBody.EnglishName, err = r.readText(); err != nil {
			return err
		}
		if rigidBody.BoneIndex, err = r.readBoneIndex(); err != nil {
			return err
		}
		if rigidBody.CollisionGroup, err = r.readByte(); err != nil {
			return err
		}
		if rigidBody.CollisionMask, err = r.readUint16(); err != nil {
			return err
		}
		shape, err := r.readByte()
		if err != nil {
			return err
		}
		rigidBody.ShapeType = model.Shape(shape)
		if rigidBody.Size, err = r.readVec3(); err != nil {
			return err
		}
		if rigidBody.Position, err = r.readVec3(); err != nil {
			return err
		}
		if rigidBody.Rotation, err = r.readVec3(); err != nil {
			return err
		}
		if err := r.read(&rigidBody.Param); err != nil {
			return err
		}
		physicsType, err := r.readByte()
		if err != nil {
			return err
		}
		rigidBody.PhysicsType = model.PhysicsType(physicsType)
		modelData.RigidBodies = append(modelData.RigidBodies, rigidBody)
	}
	return nil
}

func (r *pmxReader) readJoints(modelData *model.PmxModel) error {
	count, err := r.readCount("ジョイント", 107)
	if err != nil {
		return err
	}
	modelData.Joints = make([]*model.Joint, 0, count)
	for i := 0; i < count; i++ {
		joint := &model.Joint{}
		if joint.Name, err = r.readText(); err != nil {
			return err
		}
		if joint.EnglishName, err = r.readText(); err != nil {
			return err
		}
		if joint.JointType, err = r.readByte(); err != nil {
			return err
		}
		if joint.RigidBodyIndexA, err = r.readIndex(r.header.RigidBodyIndexSize); err != nil {
			return err
		}
		if joint.RigidBodyIndexB, err = r.readIndex(r.header.RigidBodyIndexSize); err != nil {
			return err
		}
		if joint.Position, err = r.readVec3(); err != nil {
			return err
		}
		if joint.Rotation, err = r.readVec3(); err != nil {
			return err
		}
		if err := r.read(&joint.Param); err != nil {
			return err
		}
		modelData.Joints = append(modelData.Joints, joint)
	}
	return nil
}
