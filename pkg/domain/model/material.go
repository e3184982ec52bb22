// 指示: miu200521358
package model

import "github.com/miu200521358/mu_pmxmerge/pkg/domain/mmath"

// DrawFlag は材質描画フラグを表す。未知ビットもそのまま保持する。
type DrawFlag byte

const (
	DRAW_FLAG_DOUBLE_SIDED_DRAWING DrawFlag = 0x01
	DRAW_FLAG_GROUND_SHADOW        DrawFlag = 0x02
	DRAW_FLAG_DRAWING_ON_SELF      DrawFlag = 0x04
	DRAW_FLAG_DRAWING_SELF_SHADOWS DrawFlag = 0x08
	DRAW_FLAG_DRAWING_EDGE         DrawFlag = 0x10
)

// SphereMode はスフィアテクスチャの合成方式を表す。
type SphereMode byte

const (
	SPHERE_MODE_INVALID        SphereMode = 0
	SPHERE_MODE_MULTIPLICATION SphereMode = 1
	SPHERE_MODE_ADDITION       SphereMode = 2
	SPHERE_MODE_SUBTEXTURE     SphereMode = 3
)

// ToonSharing はToonテクスチャの共有方式を表す。
type ToonSharing byte

const (
	// TOON_SHARING_INDIVIDUAL はテクスチャ表参照。
	TOON_SHARING_INDIVIDUAL ToonSharing = 0
	// TOON_SHARING_SHARING は共有Toon(toon01-10)参照。
	TOON_SHARING_SHARING ToonSharing = 1
)

// Material は材質を表す。
// Specular のWは反射強度。VerticesCount は面数×3で、面リスト上の連続区間の長さを宣言する。
type Material struct {
	Name               string
	EnglishName        string
	Diffuse            mmath.Vec4
	Specular           mmath.Vec4
	Ambient            mmath.Vec3
	DrawFlag           DrawFlag
	Edge               mmath.Vec4
	EdgeSize           float32
	TextureIndex       int
	SphereTextureIndex int
	SphereMode         SphereMode
	ToonSharingFlag    ToonSharing
	ToonTextureIndex   int
	Memo               string
	VerticesCount      int
}

// GetName は材質名を返す。
func (m *Material) GetName() string {
	if m == nil {
		return ""
	}
	return m.Name
}

// FaceCount は材質が持つ面数を返す。
func (m *Material) FaceCount() int {
	return m.VerticesCount / 3
}

// UsesToonTexture はToonがテクスチャ表を参照するか判定する。
func (m *Material) UsesToonTexture() bool {
	return m.ToonSharingFlag == TOON_SHARING_INDIVIDUAL
}
