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
	"context"
	"io"
)

// Metadata 用户自定义元数据。上传时一条元数据编码为一个 x-cos-meta- 前缀的请求头。
type Metadata map[string]string

type Uploader interface {
	// Upload 上传文件，按大小自动选择普通上传或分片上传，返回对象访问链接。
	Upload(ctx context.Context, fileId string, content []byte, md Metadata) (string, error)

	// UploadFromReader 上传文件。文件大小未知，始终使用分片模式上传。
	UploadFromReader(ctx context.Context, fileId string, r io.Reader, md Metadata) (string, error)

	// UploadFromReaderWithSize 上传文件，按大小自动选择普通上传或分片上传。
	UploadFromReaderWithSize(ctx context.Context, fileId string, contentLength int64, r io.Reader,
		md Metadata) (string, error)

	// UploadFromDisk 上传本地文件，按大小自动选择普通上传或分片上传。
	UploadFromDisk(ctx context.Context, fileId, filePath string, md Metadata) (string, error)

	MultiUploader
}
