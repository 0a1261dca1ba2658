package marc

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

// 常见的 CJK 目录数据编码，按尝试顺序排列
var cjkEncodings = []encoding.Encoding{
	simplifiedchinese.GBK,
	traditionalchinese.Big5,
	japanese.ShiftJIS,
	japanese.EUCJP,
	korean.EUCKR,
}

// Decoder turns field bytes into UTF-8. A Decoder built with a charset label
// uses that encoding; otherwise it sniffs.
type Decoder struct {
	enc encoding.Encoding
}

// NewDecoder returns a decoder for label, an IANA or WHATWG charset name such
// as "gbk" or "iso-8859-1". An empty or unknown label sniffs each value.
func NewDecoder(label string) *Decoder {
	if label == "" {
		return &Decoder{}
	}
	enc, _ := charset.Lookup(label)
	return &Decoder{enc: enc}
}

// Decode converts data to a UTF-8 string.
func (d *Decoder) Decode(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if d != nil && d.enc != nil {
		if s, err := doDecode(data, d.enc); err == nil {
			return s
		}
	}
	return DecodeText(data)
}

// DecodeText 智能尝试将字节流转换为 UTF-8 字符串
func DecodeText(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if utf8.Valid(data) {
		return string(data)
	}

	// 探测器经常把 GBK 误判为 windows-1252，所以先试 CJK
	for _, enc := range cjkEncodings {
		decoded, err := doDecode(data, enc)
		if err == nil && !strings.Contains(decoded, "�") {
			return decoded
		}
	}

	if e, _, _ := charset.DetermineEncoding(data, ""); e != nil {
		decoded, err := doDecode(data, e)
		if err == nil && !strings.Contains(decoded, "�") {
			return decoded
		}
	}
	return string(data)
}

func doDecode(data []byte, enc encoding.Encoding) (string, error) {
	d, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return "", err
	}
	return string(d), nil
}
