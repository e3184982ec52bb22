// 指示: miu200521358
package pmx

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/miu200521358/mu_pmxmerge/pkg/domain/mmath"
	"github.com/miu200521358/mu_pmxmerge/pkg/domain/model"
	"github.com/miu200521358/mu_pmxmerge/pkg/shared/base/merr"
)

// pmxWriter はモデルをPMXバイト列へ書き出す。
// 参照幅はヘッダ解決時に最終件数から決まり、書き込み中は変化しない。
type pmxWriter struct {
	buf    *bufio.Writer
	header pmxHeader
	text   *textCodec
	err    error
}

func newPmxWriter(w io.Writer, header pmxHeader) *pmxWriter {
	return &pmxWriter{
		buf:    bufio.NewWriter(w),
		header: header,
		text:   newTextCodec(header.Encoding),
	}
}

// write は最初のエラーを保持し、以降の書き込みを無視する。
func (w *pmxWriter) write(data any) {
	if w.err != nil {
		return
	}
	if err := binary.Write(w.buf, binary.LittleEndian, data); err != nil {
		w.err = fmt.Errorf("PMX書き込みに失敗しました: %w", err)
	}
}

func (w *pmxWriter) writeByte(value byte) {
	w.write(value)
}

func (w *pmxWriter) writeInt32(value int) {
	w.write(int32(value))
}

func (w *pmxWriter) writeFloat(value float32) {
	w.write(value)
}

func (w *pmxWriter) writeText(value string) {
	if w.err != nil {
		return
	}
	encoded, err := w.text.encode(value)
	if err != nil {
		w.err = err
		return
	}
	w.writeInt32(len(encoded))
	w.write(encoded)
}

func (w *pmxWriter) writeIndex(size int, value int) {
	switch size {
	case 1:
		w.write(int8(value))
	case 2:
		w.write(int16(value))
	default:
		w.write(int32(value))
	}
}

func (w *pmxWriter) writeVertexIndex(value int) {
	switch w.header.VertexIndexSize {
	case 1:
		w.write(uint8(value))
	case 2:
		w.write(uint16(value))
	default:
		w.write(int32(value))
	}
}

func (w *pmxWriter) writeBoneIndex(value int) {
	w.writeIndex(w.header.BoneIndexSize, value)
}

func (w *pmxWriter) writeHeader() {
	w.write([]byte(pmxSignature))
	w.writeFloat(w.header.Version)
	w.writeByte(pmxHeaderDataSize)
	w.write([]byte{
		byte(w.header.Encoding),
		byte(w.header.ExtendedUvCount),
		byte(w.header.VertexIndexSize),
		byte(w.header.TextureIndexSize),
		byte(w.header.MaterialIndexSize),
		byte(w.header.BoneIndexSize),
		byte(w.header.MorphIndexSize),
		byte(w.header.RigidBodyIndexSize),
	})
}

// encodeModel はモデル全体を書き出す。
func (w *pmxWriter) encodeModel(modelData *model.PmxModel) error {
	w.writeHeader()
	w.writeText(modelData.Name)
	w.writeText(modelData.EnglishName)
	w.writeText(modelData.Comment)
	w.writeText(modelData.EnglishComment)

	w.writeVertices(modelData.Vertices)
	w.writeFaces(modelData.Faces)
	w.writeTextures(modelData.Textures)
	w.writeMaterials(modelData.Materials)
	w.writeBones(modelData.Bones)
	w.writeMorphs(modelData.Morphs)
	w.writeDisplaySlots(modelData.DisplaySlots)
	w.writeRigidBodies(modelData.RigidBodies)
	w.writeJoints(modelData.Joints)

	if w.err != nil {
		return w.err
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("PMX書き込みに失敗しました: %w", err)
	}
	return nil
}

func (w *pmxWriter) writeVertices(vertices []*model.Vertex) {
	w.writeInt32(len(vertices))
	for i, vertex := range vertices {
		if vertex == nil {
			w.fail(merr.NewMalformedInput("頂点が未設定です: %d", nil, i))
			return
		}
		w.write(vertex.Position)
		w.write(vertex.Normal)
		w.write(vertex.Uv)
		for _, uv := range mmath.PadVec4(vertex.ExtendedUvs, w.header.ExtendedUvCount) {
			w.write(uv)
		}
		w.writeDeform(vertex.Deform)
		w.writeFloat(vertex.EdgeFactor)
	}
}

func (w *pmxWriter) writeDeform(deform model.Deform) {
	if !deform.Type.IsValid() {
		w.fail(merr.NewMalformedInput("頂点の変形方式が不正です: %d", nil, deform.Type))
		return
	}
	w.writeByte(byte(deform.Type))
	for i := 0; i < deform.Type.BoneCount(); i++ {
		index := -1
		if i < len(deform.BoneIndexes) {
			index = deform.BoneIndexes[i]
		}
		w.writeBoneIndex(index)
	}
	for i := 0; i < deform.Type.WeightCount(); i++ {
		var weight float32
		if i < len(deform.BoneWeights) {
			weight = deform.BoneWeights[i]
		}
		w.writeFloat(weight)
	}
	if deform.Type == model.SDEF {
		w.write(deform.SdefC)
		w.write(deform.SdefR0)
		w.write(deform.SdefR1)
	}
}

func (w *pmxWriter) writeFaces(faces []*model.Face) {
	w.writeInt32(len(faces) * 3)
	for i, face := range faces {
		if face == nil {
			w.fail(merr.NewMalformedInput("面が未設定です: %d", nil, i))
			return
		}
		for _, index := range face.VertexIndexes {
			w.writeVertexIndex(index)
		}
	}
}

func (w *pmxWriter) writeTextures(textures []*model.Texture) {
	w.writeInt32(len(textures))
	for i, texture := range textures {
		if texture == nil {
			w.fail(merr.NewMalformedInput("テクスチャが未設定です: %d", nil, i))
			return
		}
		w.writeText(texture.Name)
	}
}

func (w *pmxWriter) writeMaterials(materials []*model.Material) {
	w.writeInt32(len(materials))
	for i, material := range materials {
		if material == nil {
			w.fail(merr.NewMalformedInput("材質が未設定です: %d", nil, i))
			return
		}
		w.writeText(material.Name)
		w.writeText(material.EnglishName)
		w.write(material.Diffuse)
		w.write(material.Specular)
		w.write(material.Ambient)
		w.writeByte(byte(material.DrawFlag))
		w.write(material.Edge)
		w.writeFloat(material.EdgeSize)
		w.writeIndex(w.header.TextureIndexSize, material.TextureIndex)
		w.writeIndex(w.header.TextureIndexSize, material.SphereTextureIndex)
		w.writeByte(byte(material.SphereMode))
		w.writeByte(byte(material.ToonSharingFlag))
		if material.ToonSharingFlag == model.TOON_SHARING_SHARING {
			w.writeByte(byte(material.ToonTextureIndex))
		} else {
			w.writeIndex(w.header.TextureIndexSize, material.ToonTextureIndex)
		}
		w.writeText(material.Memo)
		w.writeInt32(material.VerticesCount)
	}
}

func (w *pmxWriter) writeBones(bones []*model.Bone) {
	w.writeInt32(len(bones))
	for i, bone := range bones {
		if bone == nil {
			w.fail(merr.NewMalformedInput("ボーンが未設定です: %d", nil, i))
			return
		}
		w.writeText(bone.Name)
		w.writeText(bone.EnglishName)
		w.write(bone.Position)
		w.writeBoneIndex(bone.ParentIndex)
		w.writeInt32(bone.Layer)
		w.write(uint16(bone.BoneFlag))
		if bone.IsTailBone() {
			w.writeBoneIndex(bone.TailIndex)
		} else {
			w.write(bone.TailPosition)
		}
		if bone.HasEffect() {
			w.writeBoneIndex(bone.EffectIndex)
			w.writeFloat(bone.EffectFactor)
		}
		if bone.BoneFlag.Has(model.BONE_FLAG_HAS_FIXED_AXIS) {
			w.write(bone.FixedAxis)
		}
		if bone.BoneFlag.Has(model.BONE_FLAG_HAS_LOCAL_AXIS) {
			w.write(bone.LocalAxisX)
			w.write(bone.LocalAxisZ)
		}
		if bone.BoneFlag.Has(model.BONE_FLAG_IS_EXTERNAL_PARENT_DEFORM) {
			w.writeInt32(bone.EffectorKey)
		}
		if bone.BoneFlag.Has(model.BONE_FLAG_IS_IK) {
			ik := bone.Ik
			if ik == nil {
				ik = &model.Ik{BoneIndex: -1}
			}
			w.writeBoneIndex(ik.BoneIndex)
			w.writeInt32(ik.LoopCount)
			w.writeFloat(ik.UnitRotation)
			w.writeInt32(len(ik.Links))
			for _, link := range ik.Links {
				w.writeBoneIndex(link.BoneIndex)
				if link.AngleLimit {
					w.writeByte(1)
					w.write(link.MinAngleLimit)
					w.write(link.MaxAngleLimit)
				} else {
					w.writeByte(0)
				}
			}
		}
	}
}

func (w *pmxWriter) writeMorphs(morphs []*model.Morph) {
	w.writeInt32(len(morphs))
	for i, morph := range morphs {
		if morph == nil {
			w.fail(merr.NewMalformedInput("モーフが未設定です: %d", nil, i))
			return
		}
		w.writeText(morph.Name)
		w.writeText(morph.EnglishName)
		w.writeByte(byte(morph.Panel))
		w.writeByte(byte(morph.MorphType))
		w.writeInt32(morph.OffsetCount())
		switch {
		case morph.MorphType == model.MORPH_TYPE_GROUP:
			for _, offset := range morph.GroupOffsets {
				w.writeIndex(w.header.MorphIndexSize, offset.MorphIndex)
				w.writeFloat(offset.MorphFactor)
			}
		case morph.MorphType == model.MORPH_TYPE_VERTEX:
			for _, offset := range morph.VertexOffsets {
				w.writeVertexIndex(offset.VertexIndex)
				w.write(offset.Position)
			}
		case morph.MorphType == model.MORPH_TYPE_BONE:
			for _, offset := range morph.BoneOffsets {
				w.writeBoneIndex(offset.BoneIndex)
				w.write(offset.Position)
				w.write(offset.Rotation)
			}
		case morph.MorphType.IsUv():
			for _, offset := range morph.UvOffsets {
				w.writeVertexIndex(offset.VertexIndex)
				w.write(offset.Uv)
			}
		case morph.MorphType == model.MORPH_TYPE_MATERIAL:
			for _, offset := range morph.MaterialOffsets {
				w.writeIndex(w.header.MaterialIndexSize, offset.MaterialIndex)
				w.writeByte(byte(offset.CalcMode))
				w.write(offset.Diffuse)
				w.write(offset.Specular)
				w.write(offset.Ambient)
				w.write(offset.Edge)
				w.writeFloat(offset.EdgeSize)
				w.write(offset.TextureFactor)
				w.write(offset.SphereTextureFactor)
				w.write(offset.ToonTextureFactor)
			}
		case morph.MorphType == model.MORPH_TYPE_FLIP:
			for _, offset := range morph.FlipOffsets {
				w.writeIndex(w.header.MorphIndexSize, offset.MorphIndex)
				w.writeFloat(offset.MorphFactor)
			}
		case morph.MorphType == model.MORPH_TYPE_IMPULSE:
			for _, offset := range morph.ImpulseOffsets {
				w.writeIndex(w.header.RigidBodyIndexSize, offset.RigidBodyIndex)
				if offset.IsLocal {
					w.writeByte(1)
				} else {
					w.writeByte(0)
				}
				w.write(offset.Velocity)
				w.write(offset.Torque)
			}
		default:
			w.fail(merr.NewMalformedInput("モーフ種別が不正です: %s=%d", nil, morph.Name, morph.MorphType))
			return
		}
	}
}

func (w *pmxWriter) writeDisplaySlots(slots []*model.DisplaySlot) {
	w.writeInt32(len(slots))
	for i, slot := range slots {
		if slot == nil {
			w.fail(merr.NewMalformedInput("表示枠が未設定です: %d", nil, i))
			return
		}
		w.writeText(slot.Name)
		w.writeText(slot.EnglishName)
		w.writeByte(byte(slot.SpecialFlag))
		w.writeInt32(len(slot.References))
		for _, reference := range slot.References {
			w.writeByte(byte(reference.DisplayType))
			if reference.DisplayType == model.DISPLAY_TYPE_MORPH {
				w.writeIndex(w.header.MorphIndexSize, reference.DisplayIndex)
			} else {
				w.writeBoneIndex(reference.DisplayIndex)
			}
		}
	}
}

func (w *pmxWriter) writeRigidBodies(rigidBodies []*model.RigidBody) {
	w.writeInt32(len(rigidBodies))
	for i, rigidBody := range rigidBodies {
		if rigidBody == nil {
			w.fail(merr.NewMalformedInput("剛体が未設定です: %d", nil, i))
			return
		}
		w.writeText(rigidBody.Name)
		w.writeText(rigidBody.EnglishName)
		w.writeBoneIndex(rigidBody.BoneIndex)
		w.writeByte(rigidBody.CollisionGroup)
		w.write(rigidBody.CollisionMask)
		w.writeByte(byte(rigidBody.ShapeType))
		w.write(rigidBody.Size)
		w.write(rigidBody.Position)
		w.write(rigidBody.Rotation)
		w.write(rigidBody.Param)
		w.writeByte(byte(rigidBody.PhysicsType))
	}
}

func (w *pmxWriter) writeJoints(joints []*model.Joint) {
	w.writeInt32(len(joints))
	for i, joint := range joints {
		if joint == nil {
			w.fail(merr.NewMalformedInput("ジョイントが未設定です: %d", nil, i))
			return
		}
		w.writeText(joint.Name)
		w.writeText(joint.EnglishName)
		w.writeByte(joint.JointType)
		w.writeIndex(w.header.RigidBodyIndexSize, joint.RigidBodyIndexA)
		w.writeIndex(w.header.RigidBodyIndexSize, joint.RigidBodyIndexB)
		w.write(joint.Position)
		w.write(joint.Rotation)
		w.write(joint.Param)
	}
}

func (w *pmxWriter) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}
