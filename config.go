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
	"fmt"
	"os"
	"strings"
)

// Config COS 客户端配置。创建后不可变。
type Config struct {
	// SecretId 腾讯云 SecretId。
	SecretId string
	// SecretKey 腾讯云 SecretKey。
	SecretKey string
	// Region COS 地域。
	Region string
	// Bucket COS 桶名称。
	Bucket string
}

// NewConfigFromEnv 从环境变量创建配置。
//
// 需要设置以下环境变量：
//
//	TENCENT_SECRET_ID
//	TENCENT_SECRET_KEY
//	TENCENT_COS_REGION
//	TENCENT_COS_BUCKET
func NewConfigFromEnv() (*Config, error) {
	cfg := &Config{
		SecretId:  os.Getenv("TENCENT_SECRET_ID"),
		SecretKey: os.Getenv("TENCENT_SECRET_KEY"),
		Region:    os.Getenv("TENCENT_COS_REGION"),
		Bucket:    os.Getenv("TENCENT_COS_BUCKET"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// 校验配置。非法时返回 *ConfigError。
func (c *Config) validate() error {
	switch {
	case len(strings.TrimSpace(c.SecretId)) <= 0:
		return &ConfigError{Reason: "secret id is empty"}
	case len(strings.TrimSpace(c.SecretKey)) <= 0:
		return &ConfigError{Reason: "secret key is empty"}
	case len(strings.TrimSpace(c.Region)) <= 0:
		return &ConfigError{Reason: "region is empty"}
	case len(strings.TrimSpace(c.Bucket)) <= 0:
		return &ConfigError{Reason: "bucket is empty"}
	}
	// 地域和桶名会拼进域名。
	for _, v := range []string{c.Region, c.Bucket} {
		if strings.ContainsAny(v, "/ \t\r\n") {
			return &ConfigError{Reason: fmt.Sprintf("%q is not a valid host segment", v)}
		}
	}
	return nil
}

// 生成桶的访问域名。
func (c *Config) host() string {
	return fmt.Sprintf("%s.cos.%s.myqcloud.com", c.Bucket, c.Region)
}
