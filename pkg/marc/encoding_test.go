package marc

import (
	"bytes"
	"io"
	"testing"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

func TestDecodeText(t *testing.T) {
	utf8Str := "ISBN 978-7-02-000220-7 (精装)"
	if got := DecodeText([]byte(utf8Str)); got != utf8Str {
		t.Errorf("UTF-8 decode failed. Got %q, want %q", got, utf8Str)
	}

	gbkStr := "人民文学出版社出版的红楼梦，国际书号用于验证编码识别。"
	gbkBytes := encode(t, gbkStr, simplifiedchinese.GBK)
	if got := DecodeText(gbkBytes); got != gbkStr {
		t.Errorf("GBK decode failed.\nGot:  %q\nWant: %q", got, gbkStr)
	}

	if got := DecodeText(nil); got != "" {
		t.Errorf("Empty decode failed. Got %q", got)
	}
}

func TestDecoderWithLabel(t *testing.T) {
	latin := "Éditions Gallimard"
	data := encode(t, latin, charmap.ISO8859_1)

	if got := NewDecoder("iso-8859-1").Decode(data); got != latin {
		t.Errorf("Labelled decode failed. Got %q, want %q", got, latin)
	}
	if got := NewDecoder("no-such-charset").Decode([]byte("abc")); got != "abc" {
		t.Errorf("Unknown label should fall back to sniffing. Got %q", got)
	}
}

func encode(t *testing.T, s string, enc encoding.Encoding) []byte {
	t.Helper()
	b, err := io.ReadAll(transform.NewReader(bytes.NewReader([]byte(s)), enc.NewEncoder()))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	return b
}
