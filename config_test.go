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

package cos_test

import (
	"errors"
	"testing"

	cos "gitee.com/ivfzhou/tencent-cos-upload-api"
)

func TestNewClientConfig(t *testing.T) {
	t.Run("正常运行", func(t *testing.T) {
		client, err := cos.NewClient(NewTestConfig())
		if err != nil {
			t.Fatalf("unexpected error: want nil, got %v", err)
		}
		wantUrl := "https://" + host + "/a/b.txt"
		if u := client.GetObjectUrl("/a/b.txt"); u != wantUrl {
			t.Errorf("unexpected url: want %v, got %v", wantUrl, u)
		}
	})

	t.Run("配置缺失", func(t *testing.T) {
		cfgs := []*cos.Config{
			nil,
			{},
			{SecretKey: secretKey, Region: region, Bucket: bucket},
			{SecretId: secretId, Region: region, Bucket: bucket},
			{SecretId: secretId, SecretKey: secretKey, Bucket: bucket},
			{SecretId: secretId, SecretKey: secretKey, Region: region},
		}
		for _, cfg := range cfgs {
			_, err := cos.NewClient(cfg)
			var ce *cos.ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("unexpected error type for %+v: want ConfigError, got %T", cfg, err)
			}
		}
	})

	t.Run("配置非法", func(t *testing.T) {
		cfg := NewTestConfig()
		cfg.Bucket = "bad/bucket"
		_, err := cos.NewClient(cfg)
		var ce *cos.ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("unexpected error type: want ConfigError, got %T", err)
		}
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("正常运行", func(t *testing.T) {
		t.Setenv("TENCENT_SECRET_ID", secretId)
		t.Setenv("TENCENT_SECRET_KEY", secretKey)
		t.Setenv("TENCENT_COS_REGION", region)
		t.Setenv("TENCENT_COS_BUCKET", bucket)
		cfg, err := cos.NewConfigFromEnv()
		if err != nil {
			t.Fatalf("unexpected error: want nil, got %v", err)
		}
		if cfg.SecretId != secretId || cfg.SecretKey != secretKey ||
			cfg.Region != region || cfg.Bucket != bucket {
			t.Errorf("unexpected config: got %+v", cfg)
		}
	})

	t.Run("环境变量缺失", func(t *testing.T) {
		t.Setenv("TENCENT_SECRET_ID", secretId)
		t.Setenv("TENCENT_SECRET_KEY", secretKey)
		t.Setenv("TENCENT_COS_REGION", region)
		t.Setenv("TENCENT_COS_BUCKET", "")
		_, err := cos.NewConfigFromEnv()
		var ce *cos.ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("unexpected error type: want ConfigError, got %T", err)
		}
	})
}
