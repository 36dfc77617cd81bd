/*
 * Copyright (c) 2025 ivfzhou
 * tencent-cos-upload-api is licensed under Mulan PSL v2.
 * You can use this software according to the terms and conditions of the Mulan PSL v2.
 * You may obtain a copy of Mulan PSL v2 at:
 *          http://license.coscl.org.cn/MulanPSL2
 * THIS SOFTWARE IS PROVIDED ON AN "AS IS" BASIS, WITHOUT WARRANTIES OF ANY KIND,
 * EITHER EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO NON-INFRINGEMENT,
 * MERCHANTABILITY OR FIT FOR A PARTICULAR PURPOSE.
 * See the Mulan PSL v2 for more details.
 */

package cos

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"unsafe"
)

// 用户自定义元数据的请求头前缀。
const metaHeaderPrefix = "x-cos-meta-"

var (
	requestPool = sync.Pool{New: func() any {
		return &http.Request{
			ProtoMajor: 1,
			ProtoMinor: 1,
		}
	}}
	bytesPool = sync.Pool{New: func() any { return make([]byte, getPartSize()) }}
)

// 获取请求体。
func getRequest() *http.Request {
	return requestPool.Get().(*http.Request)
}

// 回收请求体。
func rollbackRequest(req *http.Request) {
	if req != nil {
		req.Method = ""
		req.URL = nil
		req.Proto = ""
		req.Header = nil
		req.Body = nil
		req.GetBody = nil
		req.TransferEncoding = nil
		req.Close = false
		req.Form = nil
		req.PostForm = nil
		req.MultipartForm = nil
		req.Trailer = nil
		req.RemoteAddr = ""
		req.RequestURI = ""
		req.TLS = nil
		req.Cancel = nil
		req.Response = nil
		req.Pattern = ""
		requestPool.Put(req)
	}
}

// 获取字节数组。
func makeBytes() []byte {
	return bytesPool.Get().([]byte)
}

// 回收字节数组。
func rollbackBytes(data []byte) {
	if int64(cap(data)) != getPartSize() {
		data = nil
		return
	}
	if cap(data) > len(data) {
		data = unsafe.Slice(&data[0], cap(data))
	}
	bytesPool.Put(data)
}

// 获取分片大小。
func getPartSize() int64 {
	partSize := PartSize
	if partSize < 1024*1024 {
		return 1024 * 1024 * 8 // 一个分片最小 1MiB。
	} else if partSize > 5*1024*1024*1024 {
		return 5 * 1024 * 1024 * 1024 // 一个分片最大 5GiB。
	}
	return int64(partSize)
}

// 获取分片模式阈值。
func getMultiThreshold() int64 {
	threshold := int64(MultiThreshold)
	if threshold < getPartSize() {
		return getPartSize() // 阈值最小为一个分片大小，保证非末尾分片不会小于服务端下限。
	}
	return threshold
}

// 判断文件大小是否用分片模式传输。
func useMultipart(size int64) bool {
	return size > getMultiThreshold() || size > 5*1024*1024*1024 // 大于 5GiB，必须要用分片上传。
}

// 读取响应体并关闭。
func readAndClose(rsp *http.Response) []byte {
	if rsp != nil && rsp.Body != nil {
		bs, _ := io.ReadAll(rsp.Body)
		closeRsp(rsp)
		return bs
	}
	return nil
}

// 关闭流。
func closeIO(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// 关闭 HTTP 响应对象的响应体。
func closeRsp(r *http.Response) {
	if r != nil && r.Body != nil {
		_ = r.Body.Close()
	}
}

// URL 编码。
func urlEncode(s string) string {
	var b bytes.Buffer
	written := 0
	for i, n := 0, len(s); i < n; i++ {
		ch := s[i]
		switch ch {
		case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
			continue
		default:
			if 'a' <= ch && ch <= 'z' {
				continue
			}
			if 'A' <= ch && ch <= 'Z' {
				continue
			}
			if '0' <= ch && ch <= '9' {
				continue
			}
		}
		b.WriteString(s[written:i])
		_, _ = fmt.Fprintf(&b, "%%%02X", ch)
		written = i + 1
	}

	if written == 0 {
		return s
	} else {
		b.WriteString(s[written:])
		s = b.String()
	}

	s = strings.ReplaceAll(s, "!", "%21")
	s = strings.ReplaceAll(s, "'", "%27")
	s = strings.ReplaceAll(s, "(", "%28")
	s = strings.ReplaceAll(s, ")", "%29")
	s = strings.ReplaceAll(s, "*", "%2A")

	return s
}

// 纠正文件 ID。
func suitFileId(fileId string) string {
	return strings.TrimLeft(strings.TrimLeft(filepath.Clean(strings.Trim(fileId, "/")), "."), "/")
}

// 把用户自定义元数据写入请求头，一条元数据一个请求头。
func applyMetadata(header http.Header, md Metadata) {
	for k, v := range md {
		header.Set(metaHeaderPrefix+k, v)
	}
}

// 从响应头中取出用户自定义元数据。
func metadataFromHeader(header http.Header) Metadata {
	md := Metadata{}
	for k, v := range header {
		if len(v) <= 0 {
			continue
		}
		n := strings.ToLower(k)
		if strings.HasPrefix(n, metaHeaderPrefix) {
			md[strings.TrimPrefix(n, metaHeaderPrefix)] = v[0]
		}
	}
	return md
}

// 按文件 ID 的扩展名推断 Content-Type。
func contentTypeOf(fileId string) string {
	ct := mime.TypeByExtension(filepath.Ext(fileId))
	if len(ct) <= 0 {
		return "application/octet-stream"
	}
	return ct
}
