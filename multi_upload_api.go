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

// FilePartInfo 文件分片信息。
type FilePartInfo struct {
	// PartNumber 分片号。
	PartNumber int64
	// EntityTag 分片上传成功后，服务端返回的内容标签。合并分片时必须回传。
	EntityTag string
	// Size 分片大小。
	Size int64
}

type MultiUploader interface {
	// InitMultiUpload 初始化分片上传区域，用户自定义元数据在此时附加。
	InitMultiUpload(ctx context.Context, fileId string, md Metadata) (uploadId string, err error)

	// UploadPart 上传分片，返回服务端响应的 ETag。
	UploadPart(ctx context.Context, fileId, uploadId string, partNumber int64, reqBody []byte) (etag string, err error)

	// UploadPartByReader 上传分片，返回服务端响应的 ETag。
	UploadPartByReader(ctx context.Context, fileId, uploadId string, partNumber, contentLength int64,
		r io.Reader) (etag string, err error)

	// ListFileParts 获取已上传的分片信息。
	ListFileParts(ctx context.Context, fileId, uploadId string) ([]*FilePartInfo, error)

	// CompleteMultiUpload 结束分片上传。parts 必须恰好覆盖分片号一到分片总数，缺失或重复则返回
	// ErrIncompleteParts，不发起请求。
	CompleteMultiUpload(ctx context.Context, fileId, uploadId string, parts []*FilePartInfo) error

	// AbortMultiUpload 丢弃上传的分片。
	AbortMultiUpload(ctx context.Context, fileId, uploadId string) error
}
