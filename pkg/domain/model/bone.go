// 指示: miu200521358
package model

import "github.com/miu200521358/mu_pmxmerge/pkg/domain/mmath"

// BoneFlag はボーンフラグを表す。
type BoneFlag uint16

const (
	BONE_FLAG_TAIL_IS_BONE              BoneFlag = 0x0001
	BONE_FLAG_CAN_ROTATE                BoneFlag = 0x0002
	BONE_FLAG_CAN_TRANSLATE             BoneFlag = 0x0004
	BONE_FLAG_IS_VISIBLE                BoneFlag = 0x0008
	BONE_FLAG_CAN_MANIPULATE            BoneFlag = 0x0010
	BONE_FLAG_IS_IK                     BoneFlag = 0x0020
	BONE_FLAG_IS_EXTERNAL_LOCAL         BoneFlag = 0x0080
	BONE_FLAG_IS_EXTERNAL_ROTATION      BoneFlag = 0x0100
	BONE_FLAG_IS_EXTERNAL_TRANSLATION   BoneFlag = 0x0200
	BONE_FLAG_HAS_FIXED_AXIS            BoneFlag = 0x0400
	BONE_FLAG_HAS_LOCAL_AXIS            BoneFlag = 0x0800
	BONE_FLAG_IS_AFTER_PHYSICS_DEFORM   BoneFlag = 0x1000
	BONE_FLAG_IS_EXTERNAL_PARENT_DEFORM BoneFlag = 0x2000
	BoneLocationFlagMask                BoneFlag = BONE_FLAG_TAIL_IS_BONE | BONE_FLAG_IS_VISIBLE
	boneEffectFlagMask                  BoneFlag = BONE_FLAG_IS_EXTERNAL_ROTATION | BONE_FLAG_IS_EXTERNAL_TRANSLATION
)

// Has は指定フラグが立っているか判定する。
func (f BoneFlag) Has(flag BoneFlag) bool {
	return f&flag == flag
}

// IkLink はIKリンクを表す。
type IkLink struct {
	BoneIndex     int
	AngleLimit    bool
	MinAngleLimit mmath.Vec3
	MaxAngleLimit mmath.Vec3
}

// Ik はIK設定を表す。
type Ik struct {
	BoneIndex    int
	LoopCount    int
	UnitRotation float32
	Links        []IkLink
}

// Bone はボーンを表す。
type Bone struct {
	Name         string
	EnglishName  string
	Position     mmath.Vec3
	ParentIndex  int
	Layer        int
	BoneFlag     BoneFlag
	TailPosition mmath.Vec3
	TailIndex    int
	EffectIndex  int
	EffectFactor float32
	FixedAxis    mmath.Vec3
	LocalAxisX   mmath.Vec3
	LocalAxisZ   mmath.Vec3
	EffectorKey  int
	Ik           *Ik
}

// GetName はボーン名を返す。
func (b *Bone) GetName() string {
	if b == nil {
		return ""
	}
	return b.Name
}

// HasEffect は付与親を持つか判定する。
func (b *Bone) HasEffect() bool {
	return b.BoneFlag&boneEffectFlagMask != 0
}

// IsTailBone は表示先がボーン参照か判定する。
func (b *Bone) IsTailBone() bool {
	return b.BoneFlag.Has(BONE_FLAG_TAIL_IS_BONE)
}

// IsIK はIKボーンか判定する。
func (b *Bone) IsIK() bool {
	return b.BoneFlag.Has(BONE_FLAG_IS_IK) && b.Ik != nil
}

// ApplyLocation は位置と表示先の設定を src から写す。
func (b *Bone) ApplyLocation(src *Bone) {
	if src == nil {
		return
	}
	b.Position = src.Position
	b.TailPosition = src.TailPosition
	b.TailIndex = src.TailIndex
	b.BoneFlag = (b.BoneFlag &^ BoneLocationFlagMask) | (src.BoneFlag & BoneLocationFlagMask)
}

// ApplySetting は階層、変形、IK の設定を src から写す。
func (b *Bone) ApplySetting(src *Bone) {
	if src == nil {
		return
	}
	b.EnglishName = src.EnglishName
	b.ParentIndex = src.ParentIndex
	b.Layer = src.Layer
	b.EffectIndex = src.EffectIndex
	b.EffectFactor = src.EffectFactor
	b.FixedAxis = src.FixedAxis
	b.LocalAxisX = src.LocalAxisX
	b.LocalAxisZ = src.LocalAxisZ
	b.EffectorKey = src.EffectorKey
	b.Ik = nil
	if src.Ik != nil {
		links := make([]IkLink, len(src.Ik.Links))
		copy(links, src.Ik.Links)
		b.Ik = &Ik{
			BoneIndex:    src.Ik.BoneIndex,
			LoopCount:    src.Ik.LoopCount,
			UnitRotation: src.Ik.UnitRotation,
			Links:        links,
		}
	}
	b.BoneFlag = (b.BoneFlag & BoneLocationFlagMask) | (src.BoneFlag &^ BoneLocationFlagMask)
}
