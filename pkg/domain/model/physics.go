// 指示: miu200521358
package model

import "github.com/miu200521358/mu_pmxmerge/pkg/domain/mmath"

// Shape は剛体形状を表す。
type Shape byte

const (
	SHAPE_SPHERE  Shape = 0
	SHAPE_BOX     Shape = 1
	SHAPE_CAPSULE Shape = 2
)

// PhysicsType は剛体の物理演算種別を表す。
type PhysicsType byte

const (
	PHYSICS_TYPE_STATIC       PhysicsType = 0
	PHYSICS_TYPE_DYNAMIC      PhysicsType = 1
	PHYSICS_TYPE_DYNAMIC_BONE PhysicsType = 2
)

// RigidBodyParam は剛体の物理パラメータを表す。
type RigidBodyParam struct {
	Mass           float32
	LinearDamping  float32
	AngularDamping float32
	Restitution    float32
	Friction       float32
}

// RigidBody は剛体を表す。BoneIndex は -1 で関連ボーンなし。
type RigidBody struct {
	Name           string
	EnglishName    string
	BoneIndex      int
	CollisionGroup byte
	CollisionMask  uint16
	ShapeType      Shape
	Size           mmath.Vec3
	Position       mmath.Vec3
	Rotation       mmath.Vec3
	Param          RigidBodyParam
	PhysicsType    PhysicsType
}

// GetName は剛体名を返す。
func (r *RigidBody) GetName() string {
	if r == nil {
		return ""
	}
	return r.Name
}

// JointParam はジョイントの拘束パラメータを表す。
type JointParam struct {
	TranslationLimitMin       mmath.Vec3
	TranslationLimitMax       mmath.Vec3
	RotationLimitMin          mmath.Vec3
	RotationLimitMax          mmath.Vec3
	SpringConstantTranslation mmath.Vec3
	SpringConstantRotation    mmath.Vec3
}

// Joint はジョイントを表す。
type Joint struct {
	Name            string
	EnglishName     string
	JointType       byte
	RigidBodyIndexA int
	RigidBodyIndexB int
	Position        mmath.Vec3
	Rotation        mmath.Vec3
	Param           JointParam
}

// GetName はジョイント名を返す。
func (j *Joint) GetName() string {
	if j == nil {
		return ""
	}
	return j.Name
}
