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
	"errors"
	"fmt"
)

var (
	// ErrNotExists 文件不存在。
	ErrNotExists = errors.New("file not found")
	// ErrIncompleteParts 分片结果没有覆盖所有分片，不能合并分片。
	ErrIncompleteParts = errors.New("part results do not cover the upload")
)

// ConfigError 配置缺失或非法，不发起任何网络请求。
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", e.Reason)
}

// TransportError 网络请求未能送达，或响应未能读出。
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteServiceError 服务端返回了非成功的响应码。Code 与 Message 取自响应体。
type RemoteServiceError struct {
	StatusCode int
	Code       string
	Message    string
	Method     string
	Path       string
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("status code is %d, method is %v, reqPath is %v, code is %s, message is %s",
		e.StatusCode, e.Method, e.Path, e.Code, e.Message)
}

// IncompleteUploadError 分片上传会话被终止。Err 是终止原因。
// AbortErr 非空表示丢弃分片的请求也失败了，服务端可能残留未合并的分片，需要人工清理。
type IncompleteUploadError struct {
	UploadId string
	Err      error
	AbortErr error
}

func (e *IncompleteUploadError) Error() string {
	if e.AbortErr != nil {
		return fmt.Sprintf("multipart upload %s failed: %v (abort also failed: %v)",
			e.UploadId, e.Err, e.AbortErr)
	}
	return fmt.Sprintf("multipart upload %s aborted: %v", e.UploadId, e.Err)
}

func (e *IncompleteUploadError) Unwrap() error {
	return e.Err
}

// Aborted 已上传的分片是否被成功丢弃。
func (e *IncompleteUploadError) Aborted() bool {
	return e.AbortErr == nil
}

// InvalidPlanError 文件大小无法生成合法的上传计划。
type InvalidPlanError struct {
	Size int64
}

func (e *InvalidPlanError) Error() string {
	return fmt.Sprintf("cannot plan upload for size %d", e.Size)
}
