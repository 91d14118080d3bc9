package security

import (
	"bytes"
	"testing"
)

func TestSealOpen_往返一致(t *testing.T) {
	key := "0123456789abcdef"
	plain := []byte(`{"seq":1,"name":"empire.join","msg":{"empire_id":"e1"}}`)

	sealed, err := Seal(plain, key)
	if err != nil {
		t.Fatalf("Seal err=%v", err)
	}
	if bytes.Contains(sealed, []byte("empire.join")) {
		t.Fatalf("密文不应包含明文")
	}
	got, err := Open(sealed, key)
	if err != nil {
		t.Fatalf("Open err=%v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("往返结果不一致, got=%q", got)
	}
}

func TestUnZip_非gzip数据报错(t *testing.T) {
	if _, err := UnZip([]byte("plain text")); err == nil {
		t.Fatalf("期望非 gzip 数据报错")
	}
}
