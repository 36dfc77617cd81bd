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
	"time"
)

var (
	// PartSize 分片上传时，每个分片的大小。不可在文件上传期间修改值。
	PartSize = 10 * 1024 * 1024
	// MultiThreshold 文件大小超过多少字节后，启用分片模式上传。
	MultiThreshold = 32 * 1024 * 1024
	// NumRoutines 分片上传时，并发运行协程的数量。
	NumRoutines = 5
	// AuthExpirationTime 每一个 HTTP 请求的凭证时效。
	AuthExpirationTime = 10 * time.Minute
)

type Api interface {
	Baser
	Uploader
	Deleter
	Querier
}

type impl struct {
	Baser
	Uploader
	Deleter
	Querier
}

// NewClient 创建 COS Object 操作客户端。配置非法时返回 *ConfigError。
func NewClient(cfg *Config, opts ...option) (Api, error) {
	if cfg == nil {
		return nil, &ConfigError{Reason: "config is nil"}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &baseImpl{
		cfg:  *cfg,
		host: cfg.host(),
	}

	// 设置参数。
	for _, v := range opts {
		if v == nil {
			continue
		}
		v(&c.options)
	}

	multiUploader := &multiUploadImpl{c}
	uploader := &uploadImpl{c, multiUploader}
	querier := &queryImpl{c}
	deleter := &deleteImpl{c}

	return &impl{c, uploader, deleter, querier}, nil
}
