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
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
)

type multiUploadImpl struct {
	*baseImpl
}

// InitMultiUpload 初始化分片上传区域，用户自定义元数据在此时附加。
func (c *multiUploadImpl) InitMultiUpload(ctx context.Context, fileId string, md Metadata) (string, error) {
	fileId = suitFileId(fileId)
	if len(fileId) <= 0 {
		return "", errors.New("fileId is invalid")
	}

	// 生成请求体。
	query := url.Values{}
	query.Set("uploads", "")
	header := http.Header{}
	header.Set("Content-Length", "0")
	header.Set("Content-Type", contentTypeOf(fileId))
	applyMetadata(header, md)
	req := c.genReq(http.MethodPost, fileId, query, header, nil)

	// 发送 HTTP 请求。
	rsp, err := c.sendHttp(ctx, req)
	if err != nil {
		return "", err
	}

	// 读取出响应体。
	rspBody, err := io.ReadAll(rsp.Body)
	closeRsp(rsp)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	// 解析响应体。
	var rspData struct {
		XMLName  xml.Name `xml:"InitiateMultipartUploadResult"`
		UploadId string
	}
	if err = xml.Unmarshal(rspBody, &rspData); err != nil {
		return "", err
	}
	if len(rspData.UploadId) <= 0 {
		return "", errors.New("remote returned empty upload id")
	}

	return rspData.UploadId, nil
}

// UploadPart 上传分片，返回服务端响应的 ETag。
func (c *multiUploadImpl) UploadPart(ctx context.Context, fileId, uploadId string, partNumber int64,
	reqBody []byte) (string, error) {

	fileId = suitFileId(fileId)
	if len(fileId) <= 0 {
		return "", errors.New("fileId is invalid")
	}
	if partNumber < 1 {
		return "", fmt.Errorf("partNumber %d is invalid", partNumber)
	}

	// 生成请求体。
	query := url.Values{}
	query.Set("partNumber", strconv.FormatInt(partNumber, 10))
	query.Set("uploadId", uploadId)
	req := c.genReq(http.MethodPut, fileId, query, nil, reqBody)

	// 发送 HTTP 请求。
	rsp, err := c.sendHttp(ctx, req)
	if err != nil {
		return "", err
	}
	etag := rsp.Header.Get("Etag")
	closeRsp(rsp)

	return etag, nil
}

// UploadPartByReader 上传分片，返回服务端响应的 ETag。
func (c *multiUploadImpl) UploadPartByReader(ctx context.Context, fileId, uploadId string, partNumber,
	contentLength int64, r io.Reader) (string, error) {

	fileId = suitFileId(fileId)
	if len(fileId) <= 0 {
		return "", errors.New("fileId is invalid")
	}
	if partNumber < 1 {
		return "", fmt.Errorf("partNumber %d is invalid", partNumber)
	}

	// 生成请求体。
	query := url.Values{}
	query.Set("uploadId", uploadId)
	query.Set("partNumber", strconv.FormatInt(partNumber, 10))
	req := c.genReqForReader(http.MethodPut, fileId, query, nil, contentLength, r)

	// 发送 HTTP 请求。
	rsp, err := c.sendHttp(ctx, req)
	if err != nil {
		return "", err
	}
	etag := rsp.Header.Get("Etag")
	closeRsp(rsp)

	return etag, nil
}

// ListFileParts 获取已上传的分片信息。
func (c *multiUploadImpl) ListFileParts(ctx context.Context, fileId, uploadId string) ([]*FilePartInfo, error) {
	fileId = suitFileId(fileId)
	if len(fileId) <= 0 {
		return nil, errors.New("fileId is invalid")
	}

	var parts []*FilePartInfo
	next := ""
	for {
		// 生成请求体。
		query := url.Values{}
		query.Set("uploadId", uploadId)
		if len(next) > 0 {
			query.Set("part-number-marker", next)
		}
		req := c.genReq(http.MethodGet, fileId, query, nil, nil)

		// 发送请求。
		rsp, err := c.sendHttp(ctx, req)
		if err != nil {
			return nil, err
		}

		// 读取出响应体。
		rspBody, err := io.ReadAll(rsp.Body)
		closeRsp(rsp)
		if err != nil {
			return nil, &TransportError{Err: err}
		}

		// 解析响应体。
		var rspData struct {
			ListPartResultParts []struct {
				PartNumber string
				ETag       string
				Size       string
			} `xml:"Part"`
			NextPartNumberMarker string
		}
		if err = xml.Unmarshal(rspBody, &rspData); err != nil {
			return nil, err
		}

		// 组装分片信息。
		next = rspData.NextPartNumberMarker
		for _, v := range rspData.ListPartResultParts {
			partNum, err := strconv.ParseInt(v.PartNumber, 10, 64)
			if err != nil {
				return nil, err
			}
			size, err := strconv.ParseInt(v.Size, 10, 64)
			if err != nil {
				return nil, err
			}
			parts = append(parts, &FilePartInfo{
				PartNumber: partNum,
				EntityTag:  v.ETag,
				Size:       size,
			})
		}

		// 没有更多分片了就跳出循环。
		if len(next) <= 0 {
			break
		}
	}

	// 分片信息排序。
	sort.Slice(parts, func(i, j int) bool { return parts[i].PartNumber < parts[j].PartNumber })

	return parts, nil
}

// CompleteMultiUpload 结束分片上传。parts 必须恰好覆盖分片号一到分片总数。
func (c *multiUploadImpl) CompleteMultiUpload(ctx context.Context, fileId, uploadId string,
	parts []*FilePartInfo) error {

	fileId = suitFileId(fileId)
	if len(fileId) <= 0 {
		return errors.New("fileId is invalid")
	}
	sorted, err := sortParts(parts, int64(len(parts)))
	if err != nil {
		return err
	}

	// 生成请求体，分片号必须升序排列。
	type PartInfo struct {
		PartNumber string
		ETag       string
	}
	type CompleteMultipartUpload struct {
		Parts []*PartInfo `xml:"Part"`
	}
	var reqObj CompleteMultipartUpload
	reqObj.Parts = make([]*PartInfo, len(sorted))
	for i, v := range sorted {
		reqObj.Parts[i] = &PartInfo{
			PartNumber: strconv.FormatInt(v.PartNumber, 10),
			ETag:       v.EntityTag,
		}
	}
	reqBody, _ := xml.Marshal(reqObj)

	// 发送 HTTP 请求。
	query := url.Values{}
	query.Set("uploadId", uploadId)
	rsp, err := c.sendHttp(ctx, c.genReq(http.MethodPost, fileId, query, nil, reqBody))
	if err != nil {
		return err
	}
	closeRsp(rsp)

	return nil
}

// AbortMultiUpload 丢弃上传的分片。
func (c *multiUploadImpl) AbortMultiUpload(ctx context.Context, fileId, uploadId string) error {
	fileId = suitFileId(fileId)
	if len(fileId) <= 0 {
		return errors.New("fileId is invalid")
	}

	// 发送 HTTP 请求。
	query := url.Values{}
	query.Set("uploadId", uploadId)
	req := c.genReq(http.MethodDelete, fileId, query, nil, nil)

	rsp, err := c.sendHttp(ctx, req)
	if err != nil {
		return err
	}
	closeRsp(rsp)

	return nil
}

// 校验分片结果恰好覆盖分片号一到 count 且无重复，返回按分片号升序的副本。
func sortParts(parts []*FilePartInfo, count int64) ([]*FilePartInfo, error) {
	if int64(len(parts)) != count || count <= 0 {
		return nil, fmt.Errorf("%w: want %d parts, got %d", ErrIncompleteParts, count, len(parts))
	}
	seen := make(map[int64]struct{}, len(parts))
	sorted := make([]*FilePartInfo, len(parts))
	copy(sorted, parts)
	for _, v := range sorted {
		if v.PartNumber < 1 || v.PartNumber > count {
			return nil, fmt.Errorf("%w: part number %d out of range", ErrIncompleteParts, v.PartNumber)
		}
		if _, ok := seen[v.PartNumber]; ok {
			return nil, fmt.Errorf("%w: duplicate part number %d", ErrIncompleteParts, v.PartNumber)
		}
		seen[v.PartNumber] = struct{}{}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PartNumber < sorted[j].PartNumber })
	return sorted, nil
}
