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
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	gu "gitee.com/ivfzhou/goroutine-util"
)

type uploadImpl struct {
	*baseImpl
	MultiUploader
}

// Upload 上传文件，按大小自动选择普通上传或分片上传，返回对象访问链接。
func (c *uploadImpl) Upload(ctx context.Context, fileId string, content []byte, md Metadata) (string, error) {
	fileId = suitFileId(fileId)
	if len(fileId) <= 0 {
		return "", errors.New("fileId is invalid")
	}

	// 是否启用分片模式上传。
	plan, err := PlanUpload(int64(len(content)))
	if err != nil {
		return "", err
	}
	if plan.Strategy == StrategyMultipart {
		return c.multiUploadFromReaderAt(ctx, fileId, plan, bytes.NewReader(content), md)
	}

	return c.upload(ctx, fileId, content, md)
}

// UploadFromReader 上传文件。文件大小未知，始终使用分片模式上传。
func (c *uploadImpl) UploadFromReader(ctx context.Context, fileId string, r io.Reader, md Metadata) (
	string, error) {

	fileId = suitFileId(fileId)
	if len(fileId) <= 0 {
		return "", errors.New("fileId is invalid")
	}

	// 初始化分片上传。
	uploadId, err := c.InitMultiUpload(ctx, fileId, md)
	if err != nil {
		return "", err
	}

	type task struct {
		buf []byte
		num int64
	}
	results := make(chan *FilePartInfo, NumRoutines)
	run, wait := gu.NewRunner(ctx, NumRoutines, func(ctx context.Context, t *task) error {
		defer rollbackBytes(t.buf)
		etag, err := c.UploadPart(ctx, fileId, uploadId, t.num, t.buf)
		if err != nil {
			return err
		}
		results <- &FilePartInfo{PartNumber: t.num, EntityTag: etag, Size: int64(len(t.buf))}
		return nil
	})

	// 结果由单独协程收集。收集协程只能在所有上传协程退出后关停。
	var collected []*FilePartInfo
	done := make(chan struct{})
	go func() {
		defer close(done)
		for v := range results {
			collected = append(collected, v)
		}
	}()
	closed := false
	closeResults := func() {
		if !closed {
			closed = true
			close(results)
			<-done
		}
	}
	defer closeResults()

	// 读取流，并发上传分片。
	count := int64(0)
	for next, n := true, 0; next; count++ {
		buf := makeBytes()
		n, err = io.ReadFull(r, buf)
		if err != nil {
			if errors.Is(err, io.EOF) {
				rollbackBytes(buf)
				break
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				next = false
			} else {
				rollbackBytes(buf)
				return "", c.abortUpload(ctx, fileId, uploadId, err, wait)
			}
		}
		if err = run(&task{buf[:n], count + 1}, false); err != nil {
			return "", c.abortUpload(ctx, fileId, uploadId, err, wait)
		}
	}

	if err = wait(true); err != nil {
		return "", c.abortUpload(ctx, fileId, uploadId, err, wait)
	}
	closeResults()

	// 流里没有数据，会话作废，退回普通上传一个空文件。
	if count <= 0 {
		if err = c.AbortMultiUpload(ctx, fileId, uploadId); err != nil {
			return "", err
		}
		return c.upload(ctx, fileId, nil, md)
	}

	return c.completeUpload(ctx, fileId, uploadId, collected, count)
}

// UploadFromReaderWithSize 上传文件，按大小自动选择普通上传或分片上传。
func (c *uploadImpl) UploadFromReaderWithSize(ctx context.Context, fileId string, contentLength int64,
	r io.Reader, md Metadata) (string, error) {

	fileId = suitFileId(fileId)
	if len(fileId) <= 0 {
		return "", errors.New("fileId is invalid")
	}

	// 是否启用分片模式上传。
	plan, err := PlanUpload(contentLength)
	if err != nil {
		return "", err
	}
	if plan.Strategy == StrategyMultipart {
		return c.multiUploadFromReader(ctx, fileId, plan, r, md)
	}

	return c.uploadFromReaderWithSize(ctx, fileId, contentLength, io.NopCloser(r), md)
}

// UploadFromDisk 上传本地文件，按大小自动选择普通上传或分片上传。
func (c *uploadImpl) UploadFromDisk(ctx context.Context, fileId, filePath string, md Metadata) (string, error) {
	fileId = suitFileId(fileId)
	if len(fileId) <= 0 {
		return "", errors.New("fileId is invalid")
	}

	// 获取文件信息。
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return "", err
	}
	plan, err := PlanUpload(fileInfo.Size())
	if err != nil {
		return "", err
	}

	// 打开文件流。
	fileObj, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer closeIO(fileObj)

	// 是否启用分片模式上传。每个分片按偏移读取，不共享读取游标。
	if plan.Strategy == StrategyMultipart {
		return c.multiUploadFromReaderAt(ctx, fileId, plan, fileObj, md)
	}

	return c.uploadFromReaderWithSize(ctx, fileId, fileInfo.Size(), fileObj, md)
}

// 普通上传。
func (c *uploadImpl) upload(ctx context.Context, fileId string, content []byte, md Metadata) (string, error) {
	header := http.Header{}
	header.Set("Content-Type", contentTypeOf(fileId))
	applyMetadata(header, md)
	req := c.genReq(http.MethodPut, fileId, nil, header, content)
	rsp, err := c.sendHttp(ctx, req)
	if err != nil {
		return "", err
	}
	closeRsp(rsp)
	return c.objectUrl(fileId), nil
}

// 普通上传。
func (c *uploadImpl) uploadFromReaderWithSize(ctx context.Context, fileId string, contentLength int64,
	rc io.ReadCloser, md Metadata) (string, error) {

	header := http.Header{}
	header.Set("Content-Type", contentTypeOf(fileId))
	applyMetadata(header, md)
	req := c.genReqForReader(http.MethodPut, fileId, nil, header, contentLength, rc)
	rsp, err := c.sendHttp(ctx, req)
	if err != nil {
		return "", err
	}
	closeRsp(rsp)
	return c.objectUrl(fileId), nil
}

// 分片上传。每个分片从 ra 按计划的偏移读取，并发上传。
func (c *uploadImpl) multiUploadFromReaderAt(ctx context.Context, fileId string, plan *UploadPlan,
	ra io.ReaderAt, md Metadata) (string, error) {

	// 初始化分片上传。
	uploadId, err := c.InitMultiUpload(ctx, fileId, md)
	if err != nil {
		return "", err
	}

	parts := plan.Parts()
	results := make(chan *FilePartInfo, len(parts))
	run, wait := gu.NewRunner(ctx, NumRoutines, func(ctx context.Context, t *PartRange) error {
		buf := makeBytes()[:t.Length]
		defer rollbackBytes(buf)
		if _, err := ra.ReadAt(buf, t.Offset); err != nil {
			return err
		}
		etag, err := c.UploadPart(ctx, fileId, uploadId, t.PartNumber, buf)
		if err != nil {
			return err
		}
		results <- &FilePartInfo{PartNumber: t.PartNumber, EntityTag: etag, Size: t.Length}
		return nil
	})

	// 并发上传分片。
	for i := range parts {
		if err = run(&parts[i], false); err != nil {
			return "", c.abortUpload(ctx, fileId, uploadId, err, wait)
		}
	}
	if err = wait(true); err != nil {
		return "", c.abortUpload(ctx, fileId, uploadId, err, wait)
	}

	// 收集分片结果。所有协程都已退出，通道中恰好缓存了每个分片的结果。
	close(results)
	collected := make([]*FilePartInfo, 0, len(parts))
	for v := range results {
		collected = append(collected, v)
	}

	return c.completeUpload(ctx, fileId, uploadId, collected, int64(len(parts)))
}

// 分片上传。从 r 中按分片大小顺序读取，并发上传。
func (c *uploadImpl) multiUploadFromReader(ctx context.Context, fileId string, plan *UploadPlan,
	r io.Reader, md Metadata) (string, error) {

	// 初始化分片上传。
	uploadId, err := c.InitMultiUpload(ctx, fileId, md)
	if err != nil {
		return "", err
	}

	parts := plan.Parts()
	type task struct {
		buf []byte
		num int64
	}
	results := make(chan *FilePartInfo, len(parts))
	run, wait := gu.NewRunner(ctx, NumRoutines, func(ctx context.Context, t *task) error {
		defer rollbackBytes(t.buf)
		etag, err := c.UploadPart(ctx, fileId, uploadId, t.num, t.buf)
		if err != nil {
			return err
		}
		results <- &FilePartInfo{PartNumber: t.num, EntityTag: etag, Size: int64(len(t.buf))}
		return nil
	})

	// 并发上传分片。
	for i := range parts {
		var buf []byte
		if parts[i].Length < plan.PartSize {
			buf = make([]byte, parts[i].Length)
		} else {
			buf = makeBytes()
		}
		if _, err = io.ReadFull(r, buf); err != nil {
			return "", c.abortUpload(ctx, fileId, uploadId, err, wait)
		}
		if err = run(&task{buf, parts[i].PartNumber}, false); err != nil {
			return "", c.abortUpload(ctx, fileId, uploadId, err, wait)
		}
	}
	if err = wait(true); err != nil {
		return "", c.abortUpload(ctx, fileId, uploadId, err, wait)
	}

	// 收集分片结果。所有协程都已退出，通道中恰好缓存了每个分片的结果。
	close(results)
	collected := make([]*FilePartInfo, 0, len(parts))
	for v := range results {
		collected = append(collected, v)
	}

	return c.completeUpload(ctx, fileId, uploadId, collected, int64(len(parts)))
}

// 合并分片。每个分片都必须有结果，缺失则不发起合并请求。失败则丢弃会话。
func (c *uploadImpl) completeUpload(ctx context.Context, fileId, uploadId string,
	collected []*FilePartInfo, count int64) (string, error) {

	if int64(len(collected)) != count {
		err := fmt.Errorf("%w: want %d parts, got %d", ErrIncompleteParts, count, len(collected))
		return "", c.abortUpload(ctx, fileId, uploadId, err, nil)
	}
	if err := c.CompleteMultiUpload(ctx, fileId, uploadId, collected); err != nil {
		return "", c.abortUpload(ctx, fileId, uploadId, err, nil)
	}

	return c.objectUrl(fileId), nil
}

// 丢弃已上传的分片，再向调用方返回终止原因。每个会话只会走到这里一次。
// wait 非空时先等待所有上传协程退出，保证会话不再被写入。
func (c *uploadImpl) abortUpload(ctx context.Context, fileId, uploadId string, cause error,
	wait func(bool) error) error {

	if wait != nil {
		_ = wait(false)
	}
	abortErr := c.AbortMultiUpload(context.WithoutCancel(ctx), fileId, uploadId)
	return &IncompleteUploadError{
		UploadId: uploadId,
		Err:      cause,
		AbortErr: abortErr,
	}
}
