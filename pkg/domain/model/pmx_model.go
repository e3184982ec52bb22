// 指示: miu200521358
// Package model はPMX 2.0 モデルのレコード構造を提供する。
package model

import "github.com/miu200521358/mu_pmxmerge/pkg/domain/model/collection"

// TextEncoding はPMXテキストのエンコード種別を表す。
type TextEncoding byte

const (
	// TextEncodingUtf16 はUTF-16LEを表す。
	TextEncodingUtf16 TextEncoding = 0
	// TextEncodingUtf8 はUTF-8を表す。
	TextEncodingUtf8 TextEncoding = 1
)

// PmxVersion は対応するPMXバージョン。
const PmxVersion float32 = 2.0

// MaxExtendedUvCount は追加UVの最大数。
const MaxExtendedUvCount = 4

// PmxModel はPMXモデル全体を表す。
// 各リストの順序は意味を持ち、レコード間の参照はすべてリスト上の位置で表す。
type PmxModel struct {
	Path            string
	Version         float32
	TextEncoding    TextEncoding
	ExtendedUvCount int
	Name            string
	EnglishName     string
	Comment         string
	EnglishComment  string
	Vertices        []*Vertex
	Faces           []*Face
	Textures        []*Texture
	Materials       []*Material
	Bones           []*Bone
	Morphs          []*Morph
	DisplaySlots    []*DisplaySlot
	RigidBodies     []*RigidBody
	Joints          []*Joint
}

// NewPmxModel は空のPMXモデルを生成する。
func NewPmxModel() *PmxModel {
	return &PmxModel{
		Version:      PmxVersion,
		TextEncoding: TextEncodingUtf16,
		Vertices:     []*Vertex{},
		Faces:        []*Face{},
		Textures:     []*Texture{},
		Materials:    []*Material{},
		Bones:        []*Bone{},
		Morphs:       []*Morph{},
		DisplaySlots: []*DisplaySlot{},
		RigidBodies:  []*RigidBody{},
		Joints:       []*Joint{},
	}
}

// MaterialIndexByName は材質名から位置を返す。見つからない場合は -1。
func (m *PmxModel) MaterialIndexByName(name string) int {
	return collection.IndexOfName(m.Materials, name)
}

// BoneIndexByName はボーン名から位置を返す。見つからない場合は -1。
func (m *PmxModel) BoneIndexByName(name string) int {
	return collection.IndexOfName(m.Bones, name)
}

// MorphIndexByName はモーフ名から位置を返す。見つからない場合は -1。
func (m *PmxModel) MorphIndexByName(name string) int {
	return collection.IndexOfName(m.Morphs, name)
}

// RigidBodyIndexByName は剛体名から位置を返す。見つからない場合は -1。
func (m *PmxModel) RigidBodyIndexByName(name string) int {
	return collection.IndexOfName(m.RigidBodies, name)
}

// JointIndexByName はジョイント名から位置を返す。見つからない場合は -1。
func (m *PmxModel) JointIndexByName(name string) int {
	return collection.IndexOfName(m.Joints, name)
}

// DisplaySlotIndexByName は表示枠名から位置を返す。見つからない場合は -1。
func (m *PmxModel) DisplaySlotIndexByName(name string) int {
	return collection.IndexOfName(m.DisplaySlots, name)
}

// TotalMaterialFaceCount は材質が宣言する面数の合計を返す。
func (m *PmxModel) TotalMaterialFaceCount() int {
	total := 0
	for _, material := range m.Materials {
		if material == nil {
			continue
		}
		total += material.FaceCount()
	}
	return total
}
