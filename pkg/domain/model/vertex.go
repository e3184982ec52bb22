// 指示: miu200521358
package model

import "github.com/miu200521358/mu_pmxmerge/pkg/domain/mmath"

// DeformType は頂点ウェイト変形方式を表す。
type DeformType byte

const (
	// BDEF1 は1ボーン変形。
	BDEF1 DeformType = 0
	// BDEF2 は2ボーン変形。
	BDEF2 DeformType = 1
	// BDEF4 は4ボーン変形。
	BDEF4 DeformType = 2
	// SDEF は球面変形。
	SDEF DeformType = 3
)

// BoneCount は変形方式が持つボーン参照数を返す。
func (d DeformType) BoneCount() int {
	switch d {
	case BDEF1:
		return 1
	case BDEF2, SDEF:
		return 2
	case BDEF4:
		return 4
	default:
		return 0
	}
}

// WeightCount は変形方式がファイルに保持するウェイト数を返す。
func (d DeformType) WeightCount() int {
	switch d {
	case BDEF2, SDEF:
		return 1
	case BDEF4:
		return 4
	default:
		return 0
	}
}

// IsValid は PMX 2.0 で有効な変形方式か判定する。
func (d DeformType) IsValid() bool {
	return d <= SDEF
}

// Deform は頂点の変形情報を表す。
// BoneIndexes と BoneWeights の長さは Type に従う。
type Deform struct {
	Type        DeformType
	BoneIndexes []int
	BoneWeights []float32
	SdefC       mmath.Vec3
	SdefR0      mmath.Vec3
	SdefR1      mmath.Vec3
}

// NewBdef1 は1ボーン変形を生成する。
func NewBdef1(boneIndex int) Deform {
	return Deform{Type: BDEF1, BoneIndexes: []int{boneIndex}, BoneWeights: []float32{}}
}

// NewBdef2 は2ボーン変形を生成する。
func NewBdef2(boneIndex0, boneIndex1 int, weight0 float32) Deform {
	return Deform{Type: BDEF2, BoneIndexes: []int{boneIndex0, boneIndex1}, BoneWeights: []float32{weight0}}
}

// NewBdef4 は4ボーン変形を生成する。
func NewBdef4(boneIndexes [4]int, weights [4]float32) Deform {
	return Deform{Type: BDEF4, BoneIndexes: boneIndexes[:], BoneWeights: weights[:]}
}

// Vertex は頂点を表す。
type Vertex struct {
	Position    mmath.Vec3
	Normal      mmath.Vec3
	Uv          mmath.Vec2
	ExtendedUvs []mmath.Vec4
	Deform      Deform
	EdgeFactor  float32
}

// Face は3頂点からなる面を表す。
type Face struct {
	VertexIndexes [3]int
}

// Texture はテクスチャパスを表す。
type Texture struct {
	Name string
}
