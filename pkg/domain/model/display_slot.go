// 指示: miu200521358
package model

// DisplayType は表示枠要素の参照先種別を表す。
type DisplayType byte

const (
	DISPLAY_TYPE_BONE  DisplayType = 0
	DISPLAY_TYPE_MORPH DisplayType = 1
)

// SpecialFlag は表示枠の特殊枠フラグを表す。
type SpecialFlag byte

const (
	SPECIAL_FLAG_OFF SpecialFlag = 0
	SPECIAL_FLAG_ON  SpecialFlag = 1
)

// Reference は表示枠要素を表す。
type Reference struct {
	DisplayType  DisplayType
	DisplayIndex int
}

// DisplaySlot は表示枠を表す。
type DisplaySlot struct {
	Name        string
	EnglishName string
	SpecialFlag SpecialFlag
	References  []Reference
}

// GetName は表示枠名を返す。
func (d *DisplaySlot) GetName() string {
	if d == nil {
		return ""
	}
	return d.Name
}

// HasReference は同じ要素を持つか判定する。
func (d *DisplaySlot) HasReference(reference Reference) bool {
	for _, existing := range d.References {
		if existing == reference {
			return true
		}
	}
	return false
}
