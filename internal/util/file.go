package util

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SniffMimeType 按文件头 512 字节判断内容类型，读取后回到文件开头。
// allowed 为允许的 MIME 前缀，不匹配时返回 ErrInvalidFileType。
func SniffMimeType(rs io.ReadSeeker, allowed []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(rs, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	// 去掉 "; charset=utf-8" 之类的参数
	mimeType, _, _ := strings.Cut(http.DetectContentType(buffer[:n]), ";")
	mimeType = strings.TrimSpace(mimeType)

	for _, prefix := range allowed {
		if strings.HasPrefix(mimeType, prefix) {
			return mimeType, nil
		}
	}
	return mimeType, fmt.Errorf("%w: %s", ErrInvalidFileType, mimeType)
}
