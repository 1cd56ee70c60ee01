package safe_random

import (
	"crypto/rand"
	"fmt"
	"io"
)

// Reader 是加密消息、密钥生成共用的随机源，测试中可以替换。
var Reader io.Reader = rand.Reader

// GenerateRandomBytes 从 Reader 读取 n 个字节。
// 读取不足 n 个字节视为失败，调用方不应继续使用部分结果。
func GenerateRandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("长度必须为正数: %d", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(Reader, b); err != nil {
		return nil, fmt.Errorf("生成随机字节失败: %w", err)
	}
	return b, nil
}
