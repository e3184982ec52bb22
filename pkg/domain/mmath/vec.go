// 指示: miu200521358
// Package mmath はモデルレコードで使うベクトル型を提供する。
package mmath

import "github.com/go-gl/mathgl/mgl32"

// Vec2 は2次元ベクトルを表す。
type Vec2 = mgl32.Vec2

// Vec3 は3次元ベクトルを表す。
type Vec3 = mgl32.Vec3

// Vec4 は4次元ベクトルを表す。
type Vec4 = mgl32.Vec4

// Quaternion はボーンモーフ回転で使うクォータニオン(x, y, z, w)を表す。
type Quaternion = mgl32.Vec4

// IdentityQuaternion は無回転クォータニオンを返す。
func IdentityQuaternion() Quaternion {
	return Quaternion{0, 0, 0, 1}
}

// PadVec4 は不足分をゼロ埋めした長さ n のVec4列を返す。
func PadVec4(values []Vec4, n int) []Vec4 {
	if len(values) >= n {
		return values[:n]
	}
	padded := make([]Vec4, n)
	copy(padded, values)
	return padded
}
