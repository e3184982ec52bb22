// 指示: miu200521358
// Package collection は名前付きレコード列の参照補助を提供する。
package collection

// INameable は名前を持つレコードの契約を表す。
// nil レシーバでは空文字を返すこと。
type INameable interface {
	GetName() string
}

// NameIssue は名前の不正箇所を表す。
type NameIssue struct {
	Index      int
	Name       string
	FirstIndex int
}

// IndexOfName は名前に一致する最初の位置を返す。見つからない場合は -1。
func IndexOfName[T INameable](values []T, name string) int {
	for i, value := range values {
		if value.GetName() == name {
			return i
		}
	}
	return -1
}

// NameIndexes は名前から最初の位置への対応表を返す。
func NameIndexes[T INameable](values []T) map[string]int {
	indexes := make(map[string]int, len(values))
	for i, value := range values {
		if _, exists := indexes[value.GetName()]; exists {
			continue
		}
		indexes[value.GetName()] = i
	}
	return indexes
}

// DuplicateNames は2件目以降に現れた重複名を返す。
func DuplicateNames[T INameable](values []T) []NameIssue {
	issues := make([]NameIssue, 0)
	firstIndexes := make(map[string]int, len(values))
	for i, value := range values {
		if isBlank(value.GetName()) {
			continue
		}
		name := value.GetName()
		if first, exists := firstIndexes[name]; exists {
			issues = append(issues, NameIssue{Index: i, Name: name, FirstIndex: first})
			continue
		}
		firstIndexes[name] = i
	}
	return issues
}

// EmptyNames は空名(nil含む)のレコード位置を返す。
func EmptyNames[T INameable](values []T) []NameIssue {
	issues := make([]NameIssue, 0)
	for i, value := range values {
		if isBlank(value.GetName()) {
			issues = append(issues, NameIssue{Index: i, FirstIndex: -1})
		}
	}
	return issues
}

func isBlank(name string) bool {
	return name == ""
}
