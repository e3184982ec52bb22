package mmath

import "testing"

func TestPadVec4(t *testing.T) {
	padded := PadVec4([]Vec4{{1, 2, 3, 4}}, 3)
	if len(padded) != 3 {
		t.Fatalf("length mismatch: %d", len(padded))
	}
	if padded[0] != (Vec4{1, 2, 3, 4}) {
		t.Fatalf("first value changed: %v", padded[0])
	}
	if padded[2] != (Vec4{}) {
		t.Fatalf("padding should be zero: %v", padded[2])
	}
	if got := PadVec4(padded, 1); len(got) != 1 {
		t.Fatalf("truncate failed: %d", len(got))
	}
}

func TestIdentityQuaternion(t *testing.T) {
	if IdentityQuaternion() != (Quaternion{0, 0, 0, 1}) {
		t.Fatalf("identity mismatch: %v", IdentityQuaternion())
	}
}
