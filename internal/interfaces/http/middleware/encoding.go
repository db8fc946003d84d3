package middleware

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// maxTranscodeBody 超过该大小的请求体不做转码
const maxTranscodeBody = 1 << 20

// EnsureUTF8Body 将非 UTF-8 的请求体按 GBK 解码为 UTF-8
// Windows 中文环境下的命令行工具常以 GBK 发送清单名与任务内容
func EnsureUTF8Body() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.ContentLength == 0 || c.Request.ContentLength > maxTranscodeBody {
			c.Next()
			return
		}

		// 分块传输时 ContentLength 为 -1，读取时同样受上限约束
		orig := c.Request.Body
		body, err := io.ReadAll(io.LimitReader(orig, maxTranscodeBody+1))
		if err != nil || len(body) > maxTranscodeBody {
			// 读取失败或超出上限：原样拼回未读部分，不做转码
			c.Request.Body = &joinedBody{
				Reader: io.MultiReader(bytes.NewReader(body), orig),
				closer: orig,
			}
			c.Next()
			return
		}
		orig.Close()

		if !utf8.Valid(body) {
			if decoded, err := decodeGBK(body); err == nil && utf8.Valid(decoded) {
				body = decoded
			}
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Request.ContentLength = int64(len(body))
		c.Next()
	}
}

// decodeGBK GBK 转 UTF-8
func decodeGBK(data []byte) ([]byte, error) {
	return io.ReadAll(transform.NewReader(bytes.NewReader(data), simplifiedchinese.GBK.NewDecoder()))
}

// joinedBody 已读前缀与剩余原始请求体的组合
type joinedBody struct {
	io.Reader
	closer io.Closer
}

func (b *joinedBody) Close() error {
	return b.closer.Close()
}
