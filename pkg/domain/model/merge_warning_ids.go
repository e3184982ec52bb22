// 指示: miu200521358
package model

const (
	// MergeWarningReferenceDropped は取り込まれなかったレコードへの参照を除去した警告。
	MergeWarningReferenceDropped = "MergeWarningReferenceDropped"
	// MergeWarningReferenceCleared は取り込まれなかったレコードへの参照を -1 にした警告。
	MergeWarningReferenceCleared = "MergeWarningReferenceCleared"
	// MergeWarningMorphTypeReplaced は同名異種モーフを置換した警告。
	MergeWarningMorphTypeReplaced = "MergeWarningMorphTypeReplaced"
	// MergeWarningMorphOffsetPruned は削除頂点を参照するモーフオフセットを除去した警告。
	MergeWarningMorphOffsetPruned = "MergeWarningMorphOffsetPruned"
	// MergeWarningExtendedUvPadded は追加UV数の不足を0埋めした警告。
	MergeWarningExtendedUvPadded = "MergeWarningExtendedUvPadded"
	// MergeWarningTextEncodingChanged はテキストエンコードが入力間で異なる警告。
	MergeWarningTextEncodingChanged = "MergeWarningTextEncodingChanged"
)
