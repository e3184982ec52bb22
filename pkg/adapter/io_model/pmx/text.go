// 指示: miu200521358
package pmx

import (
	"fmt"

	"github.com/miu200521358/mu_pmxmerge/pkg/domain/model"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// textCodec はヘッダ宣言のエンコードでテキストを変換する。
type textCodec struct {
	encoding model.TextEncoding
	codec    encoding.Encoding
}

func newTextCodec(textEncoding model.TextEncoding) *textCodec {
	codec := &textCodec{encoding: textEncoding}
	if textEncoding == model.TextEncodingUtf16 {
		codec.codec = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	}
	return codec
}

// decode はバイト列を文字列へ変換する。UTF-8 はバイト列をそのまま保持する。
func (c *textCodec) decode(data []byte) (string, error) {
	if c.codec == nil {
		return string(data), nil
	}
	if len(data)%2 != 0 {
		return "", fmt.Errorf("UTF-16テキスト長が奇数です: %d", len(data))
	}
	decoded, err := c.codec.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("UTF-16テキストの変換に失敗しました: %w", err)
	}
	return string(decoded), nil
}

// encode は文字列をバイト列へ変換する。
func (c *textCodec) encode(text string) ([]byte, error) {
	if c.codec == nil {
		return []byte(text), nil
	}
	encoded, err := c.codec.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("UTF-16テキストへの変換に失敗しました: %w", err)
	}
	return encoded, nil
}
