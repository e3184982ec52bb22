// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"
)

// Category はマージ対象のレコード種別を表す。
type Category string

const (
	CategoryTexture     Category = "texture"
	CategoryVertex      Category = "vertex"
	CategoryFace        Category = "face"
	CategoryMaterial    Category = "material"
	CategoryBone        Category = "bone"
	CategoryMorph       Category = "morph"
	CategoryRigidBody   Category = "rigid_body"
	CategoryJoint       Category = "joint"
	CategoryDisplaySlot Category = "display_slot"
)

// 追加ポリシーのキー。
const (
	AppendKeyMorph   = "MORPH"
	AppendKeyPhysics = "PHYSICS"
	AppendKeyDisplay = "DISPLAY"
)

// 更新ポリシーのキー。UpdateKeyBone はボーンの2観点をまとめて指定する。
const (
	UpdateKeyBone            = "BONE"
	UpdateKeyBoneLocation    = "BONE_LOCATION"
	UpdateKeyBoneSetting     = "BONE_SETTING"
	UpdateKeyMaterialSetting = "MAT_SETTING"
	UpdateKeyMaterialMesh    = "MAT_MESH"
	UpdateKeyMorph           = "MORPH"
	UpdateKeyPhysics         = "PHYSICS"
	UpdateKeyDisplay         = "DISPLAY"
)

// MergeOptions はカテゴリごとの追加/更新ポリシーを表す。
// ボーンと材質は新規なら常に追加する。
type MergeOptions struct {
	AppendMorph   bool
	AppendPhysics bool
	AppendDisplay bool

	UpdateBoneLocation    bool
	UpdateBoneSetting     bool
	UpdateMaterialSetting bool
	// UpdateMaterialMesh は一致した材質の面区間をパッチ側で丸ごと差し替えるかを表す。
	// 無効ならベースの区間をそのまま残す。どちらでも要素単位の混在はしない。
	// 既定は有効で、MAT_MESH キーで切り替えられる拡張ポリシー。
	UpdateMaterialMesh bool
	UpdateMorph        bool
	UpdatePhysics      bool
	UpdateDisplay      bool

	// BaseDir と PatchDir はテクスチャ相対パスの基準ディレクトリ。
	// 指定時はテクスチャの重複判定を解決後のパスで行う。空なら名前をそのまま比較する。
	BaseDir  string
	PatchDir string
}

// DefaultMergeOptions は全ポリシーを有効にした既定値を返す。
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{
		AppendMorph:           true,
		AppendPhysics:         true,
		AppendDisplay:         true,
		UpdateBoneLocation:    true,
		UpdateBoneSetting:     true,
		UpdateMaterialSetting: true,
		UpdateMaterialMesh:    true,
		UpdateMorph:           true,
		UpdatePhysics:         true,
		UpdateDisplay:         true,
	}
}

// DefaultAppendKeys は既定の追加ポリシーキーを返す。
func DefaultAppendKeys() []string {
	return DefaultMergeOptions().AppendKeys()
}

// DefaultUpdateKeys は既定の更新ポリシーキーを返す。
func DefaultUpdateKeys() []string {
	return DefaultMergeOptions().UpdateKeys()
}

// ParseMergeOptions はポリシーキーからオプションを組み立てる。
// キーは大文字小文字を区別しない。未知のキーはエラーとする。
func ParseMergeOptions(appendKeys []string, updateKeys []string) (MergeOptions, error) {
	opts := MergeOptions{}
	for _, key := range appendKeys {
		switch normalizePolicyKey(key) {
		case "":
			continue
		case AppendKeyMorph:
			opts.AppendMorph = true
		case AppendKeyPhysics:
			opts.AppendPhysics = true
		case AppendKeyDisplay:
			opts.AppendDisplay = true
		default:
			return MergeOptions{}, fmt.Errorf("追加ポリシーのキーが不正です: %s", key)
		}
	}
	for _, key := range updateKeys {
		switch normalizePolicyKey(key) {
		case "":
			continue
		case UpdateKeyBone:
			opts.UpdateBoneLocation = true
			opts.UpdateBoneSetting = true
		case UpdateKeyBoneLocation:
			opts.UpdateBoneLocation = true
		case UpdateKeyBoneSetting:
			opts.UpdateBoneSetting = true
		case UpdateKeyMaterialSetting:
			opts.UpdateMaterialSetting = true
		case UpdateKeyMaterialMesh:
			opts.UpdateMaterialMesh = true
		case UpdateKeyMorph:
			opts.UpdateMorph = true
		case UpdateKeyPhysics:
			opts.UpdatePhysics = true
		case UpdateKeyDisplay:
			opts.UpdateDisplay = true
		default:
			return MergeOptions{}, fmt.Errorf("更新ポリシーのキーが不正です: %s", key)
		}
	}
	return opts, nil
}

// AppendKeys は有効な追加ポリシーキーを返す。
func (o MergeOptions) AppendKeys() []string {
	keys := make([]string, 0, 3)
	if o.AppendMorph {
		keys = append(keys, AppendKeyMorph)
	}
	if o.AppendPhysics {
		keys = append(keys, AppendKeyPhysics)
	}
	if o.AppendDisplay {
		keys = append(keys, AppendKeyDisplay)
	}
	return keys
}

// UpdateKeys は有効な更新ポリシーキーを返す。
func (o MergeOptions) UpdateKeys() []string {
	keys := make([]string, 0, 7)
	if o.UpdateBoneLocation {
		keys = append(keys, UpdateKeyBoneLocation)
	}
	if o.UpdateBoneSetting {
		keys = append(keys, UpdateKeyBoneSetting)
	}
	if o.UpdateMaterialSetting {
		keys = append(keys, UpdateKeyMaterialSetting)
	}
	if o.UpdateMaterialMesh {
		keys = append(keys, UpdateKeyMaterialMesh)
	}
	if o.UpdateMorph {
		keys = append(keys, UpdateKeyMorph)
	}
	if o.UpdatePhysics {
		keys = append(keys, UpdateKeyPhysics)
	}
	if o.UpdateDisplay {
		keys = append(keys, UpdateKeyDisplay)
	}
	return keys
}

func normalizePolicyKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}
