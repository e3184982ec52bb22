// 指示: miu200521358
// Package pmx はPMX 2.0 バイナリの読み書きを提供する。
package pmx

import (
	"github.com/miu200521358/mu_pmxmerge/pkg/domain/model"
	"github.com/miu200521358/mu_pmxmerge/pkg/shared/base/merr"
)

const (
	pmxSignature      = "PMX "
	pmxHeaderDataSize = 8
)

// pmxHeader はPMXヘッダのグローバル設定を表す。
type pmxHeader struct {
	Version            float32
	Encoding           model.TextEncoding
	ExtendedUvCount    int
	VertexIndexSize    int
	TextureIndexSize   int
	MaterialIndexSize  int
	BoneIndexSize      int
	MorphIndexSize     int
	RigidBodyIndexSize int
}

// indexSize はレコード数から参照のバイト幅を求める。
// 符号付き参照は -1 を表せるよう半分の範囲で判定する。
func indexSize(count int, signed bool) int {
	span := 1
	if signed {
		span = 2
	}
	if count < 256/span {
		return 1
	}
	if count < 65536/span {
		return 2
	}
	return 4
}

// resolveHeader は保存対象モデルの最終件数からヘッダを組み立てる。
func resolveHeader(modelData *model.PmxModel, encoding model.TextEncoding) (pmxHeader, error) {
	extendedUvCount := modelData.ExtendedUvCount
	for _, vertex := range modelData.Vertices {
		if vertex != nil && len(vertex.ExtendedUvs) > extendedUvCount {
			extendedUvCount = len(vertex.ExtendedUvs)
		}
	}
	if extendedUvCount < 0 || extendedUvCount > model.MaxExtendedUvCount {
		return pmxHeader{}, merr.NewMalformedInput("追加UV数が範囲外です: %d", nil, extendedUvCount)
	}
	if encoding != model.TextEncodingUtf16 && encoding != model.TextEncodingUtf8 {
		return pmxHeader{}, merr.NewMalformedInput("テキストエンコードが不正です: %d", nil, encoding)
	}

	return pmxHeader{
		Version:            model.PmxVersion,
		Encoding:           encoding,
		ExtendedUvCount:    extendedUvCount,
		VertexIndexSize:    indexSize(len(modelData.Vertices), false),
		TextureIndexSize:   indexSize(len(modelData.Textures), true),
		MaterialIndexSize:  indexSize(len(modelData.Materials), true),
		BoneIndexSize:      indexSize(len(modelData.Bones), true),
		MorphIndexSize:     indexSize(len(modelData.Morphs), true),
		RigidBodyIndexSize: indexSize(len(modelData.RigidBodies), true),
	}, nil
}

func isValidIndexSize(size int) bool {
	return size == 1 || size == 2 || size == 4
}
