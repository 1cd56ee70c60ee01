package crypto_util

import (
	"bytes"
	"testing"
)

func TestSealOpenDetached(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)
	iv := bytes.Repeat([]byte{9}, GCMNonceSize)

	ct, tag, err := SealDetached(key, iv, []byte("detached"))
	if err != nil {
		t.Fatalf("SealDetached 失败: %v", err)
	}
	if len(ct) != len("detached") || len(tag) != GCMTagSize {
		t.Fatalf("长度不对: ct=%d tag=%d", len(ct), len(tag))
	}

	pt, err := OpenDetached(key, iv, ct, tag)
	if err != nil {
		t.Fatalf("OpenDetached 失败: %v", err)
	}
	if string(pt) != "detached" {
		t.Errorf("得到 %q", pt)
	}

	tag[0] ^= 0x80
	if _, err := OpenDetached(key, iv, ct, tag); err == nil {
		t.Error("tag 被篡改时应返回错误")
	}
}

func TestSealDetached_InvalidInput(t *testing.T) {
	iv := bytes.Repeat([]byte{9}, GCMNonceSize)

	if _, _, err := SealDetached([]byte("shortkey"), iv, []byte("test")); err == nil {
		t.Error("期望因密钥长度无效而报错，但未收到错误")
	}
	if _, _, err := SealDetached(bytes.Repeat([]byte{1}, 32), iv[:8], nil); err == nil {
		t.Error("iv 长度错误时应返回错误")
	}
}

func TestOpenDetached_ShortTag(t *testing.T) {
	key := bytes.Repeat([]byte{1}, 32)
	iv := bytes.Repeat([]byte{2}, GCMNonceSize)
	if _, err := OpenDetached(key, iv, []byte{1, 2, 3}, []byte{4}); err != ErrCiphertextTooShort {
		t.Errorf("期望 ErrCiphertextTooShort, 得到 %v", err)
	}
}
