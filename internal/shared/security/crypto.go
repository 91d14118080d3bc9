package security

import (
	"bytes"
	"io"

	"github.com/go-think/openssl"
	"github.com/klauspost/compress/gzip"
)

// Zip gzip 压缩，ws 二进制帧统一先压缩再发送。
func Zip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func UnZip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// AesCBCEncrypt key 长度决定 AES-128/192/256，iv 必须与块长度一致。
func AesCBCEncrypt(src, key, iv []byte, padding string) ([]byte, error) {
	return openssl.AesCBCEncrypt(src, key, iv, padding)
}

func AesCBCDecrypt(src, key, iv []byte, padding string) ([]byte, error) {
	return openssl.AesCBCDecrypt(src, key, iv, padding)
}

// Seal 加密后压缩；Open 为其逆过程。key 同时作为 iv。
func Seal(plain []byte, key string) ([]byte, error) {
	enc, err := AesCBCEncrypt(plain, []byte(key), []byte(key), openssl.ZEROS_PADDING)
	if err != nil {
		return nil, err
	}
	return Zip(enc)
}

func Open(data []byte, key string) ([]byte, error) {
	enc, err := UnZip(data)
	if err != nil {
		return nil, err
	}
	return AesCBCDecrypt(enc, []byte(key), []byte(key), openssl.ZEROS_PADDING)
}
