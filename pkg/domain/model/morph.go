// 指示: miu200521358
package model

import "github.com/miu200521358/mu_pmxmerge/pkg/domain/mmath"

// MorphPanel はモーフの操作パネル種別を表す。
type MorphPanel byte

const (
	MORPH_PANEL_SYSTEM  MorphPanel = 0
	MORPH_PANEL_EYEBROW MorphPanel = 1
	MORPH_PANEL_EYE     MorphPanel = 2
	MORPH_PANEL_LIP     MorphPanel = 3
	MORPH_PANEL_OTHER   MorphPanel = 4
)

// MorphType はモーフ種別を表す。
type MorphType byte

const (
	MORPH_TYPE_GROUP        MorphType = 0
	MORPH_TYPE_VERTEX       MorphType = 1
	MORPH_TYPE_BONE         MorphType = 2
	MORPH_TYPE_UV           MorphType = 3
	MORPH_TYPE_EXTENDED_UV1 MorphType = 4
	MORPH_TYPE_EXTENDED_UV2 MorphType = 5
	MORPH_TYPE_EXTENDED_UV3 MorphType = 6
	MORPH_TYPE_EXTENDED_UV4 MorphType = 7
	MORPH_TYPE_MATERIAL     MorphType = 8
	MORPH_TYPE_FLIP         MorphType = 9
	MORPH_TYPE_IMPULSE      MorphType = 10
)

// IsUv はUV系モーフか判定する。
func (t MorphType) IsUv() bool {
	return t >= MORPH_TYPE_UV && t <= MORPH_TYPE_EXTENDED_UV4
}

// IsValid は既知のモーフ種別か判定する。
func (t MorphType) IsValid() bool {
	return t <= MORPH_TYPE_IMPULSE
}

// String はログ出力用の種別名を返す。
func (t MorphType) String() string {
	switch t {
	case MORPH_TYPE_GROUP:
		return "group"
	case MORPH_TYPE_VERTEX:
		return "vertex"
	case MORPH_TYPE_BONE:
		return "bone"
	case MORPH_TYPE_UV:
		return "uv"
	case MORPH_TYPE_EXTENDED_UV1:
		return "uv1"
	case MORPH_TYPE_EXTENDED_UV2:
		return "uv2"
	case MORPH_TYPE_EXTENDED_UV3:
		return "uv3"
	case MORPH_TYPE_EXTENDED_UV4:
		return "uv4"
	case MORPH_TYPE_MATERIAL:
		return "material"
	case MORPH_TYPE_FLIP:
		return "flip"
	case MORPH_TYPE_IMPULSE:
		return "impulse"
	default:
		return "unknown"
	}
}

// MaterialMorphAllIndex は全材質対象を表す材質モーフの番兵値。
const MaterialMorphAllIndex = -1

// MaterialMorphCalcMode は材質モーフの演算方式を表す。
type MaterialMorphCalcMode byte

const (
	CALC_MODE_MULTIPLICATION MaterialMorphCalcMode = 0
	CALC_MODE_ADDITION       MaterialMorphCalcMode = 1
)

// VertexMorphOffset は頂点モーフのオフセット。
type VertexMorphOffset struct {
	VertexIndex int
	Position    mmath.Vec3
}

// UvMorphOffset はUV/追加UVモーフのオフセット。
type UvMorphOffset struct {
	VertexIndex int
	Uv          mmath.Vec4
}

// BoneMorphOffset はボーンモーフのオフセット。
type BoneMorphOffset struct {
	BoneIndex int
	Position  mmath.Vec3
	Rotation  mmath.Quaternion
}

// MaterialMorphOffset は材質モーフのオフセット。MaterialIndex は -1 で全材質。
type MaterialMorphOffset struct {
	MaterialIndex       int
	CalcMode            MaterialMorphCalcMode
	Diffuse             mmath.Vec4
	Specular            mmath.Vec4
	Ambient             mmath.Vec3
	Edge                mmath.Vec4
	EdgeSize            float32
	TextureFactor       mmath.Vec4
	SphereTextureFactor mmath.Vec4
	ToonTextureFactor   mmath.Vec4
}

// GroupMorphOffset はグループモーフの要素。
type GroupMorphOffset struct {
	MorphIndex  int
	MorphFactor float32
}

// FlipMorphOffset はフリップモーフの要素。
type FlipMorphOffset struct {
	MorphIndex  int
	MorphFactor float32
}

// ImpulseMorphOffset はインパルスモーフの要素。
type ImpulseMorphOffset struct {
	RigidBodyIndex int
	IsLocal        bool
	Velocity       mmath.Vec3
	Torque         mmath.Vec3
}

// Morph はモーフを表す。
// MorphType に対応するオフセット列だけが意味を持つ。
type Morph struct {
	Name            string
	EnglishName     string
	Panel           MorphPanel
	MorphType       MorphType
	VertexOffsets   []VertexMorphOffset
	UvOffsets       []UvMorphOffset
	BoneOffsets     []BoneMorphOffset
	MaterialOffsets []MaterialMorphOffset
	GroupOffsets    []GroupMorphOffset
	FlipOffsets     []FlipMorphOffset
	ImpulseOffsets  []ImpulseMorphOffset
}

// GetName はモーフ名を返す。
func (m *Morph) GetName() string {
	if m == nil {
		return ""
	}
	return m.Name
}

// OffsetCount は種別に対応するオフセット数を返す。
func (m *Morph) OffsetCount() int {
	switch {
	case m.MorphType == MORPH_TYPE_GROUP:
		return len(m.GroupOffsets)
	case m.MorphType == MORPH_TYPE_VERTEX:
		return len(m.VertexOffsets)
	case m.MorphType == MORPH_TYPE_BONE:
		return len(m.BoneOffsets)
	case m.MorphType.IsUv():
		return len(m.UvOffsets)
	case m.MorphType == MORPH_TYPE_MATERIAL:
		return len(m.MaterialOffsets)
	case m.MorphType == MORPH_TYPE_FLIP:
		return len(m.FlipOffsets)
	case m.MorphType == MORPH_TYPE_IMPULSE:
		return len(m.ImpulseOffsets)
	}
	return 0
}
