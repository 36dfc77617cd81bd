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
	"bytes"
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	cos "gitee.com/ivfzhou/tencent-cos-upload-api"
)

// 置为 true 并配置好环境变量后，跑真实环境测试。
const actualTest = false

func TestActual(t *testing.T) {
	if !actualTest {
		return
	}
	cfg, err := cos.NewConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: want nil, got %v", err)
	}
	client, err := cos.NewClient(cfg)
	if err != nil {
		t.Fatalf("unexpected error: want nil, got %v", err)
	}
	ctx := context.Background()
	if err = client.Ping(ctx); err != nil {
		t.Errorf("unexpected error: want nil, got %v", err)
	}

	threshold := int64(cos.MultiThreshold)
	size := int64(cos.PartSize * cos.NumRoutines * 2)
	if size <= threshold {
		size = threshold + 1
	}
	size += rand.Int63n(int64(cos.PartSize)/2) + 1
	datas := [][]byte{
		MakeBytesWithSize(int(threshold/2 + rand.Int63n(threshold/2) + 1)),
		MakeBytesWithSize(int(size)),
	}
	fileId := "ivfzhou_test_file"
	md := cos.Metadata{"owner": "ivfzhou", "purpose": "integration"}
	for _, data := range datas {
		var u string
		if u, err = client.Upload(ctx, fileId, data, md); err != nil {
			t.Errorf("unexpected error: want nil, got %v", err)
		}
		if u != client.GetObjectUrl(fileId) {
			t.Errorf("unexpected url: want %v, got %v", client.GetObjectUrl(fileId), u)
		}
		var exist bool
		if exist, err = client.Exist(ctx, fileId); err != nil {
			t.Errorf("unexpected error: want nil, got %v", err)
		}
		if !exist {
			t.Errorf("unexpected exist: want true, got %v", exist)
		}
		var fileInfo *cos.FileInfo
		if fileInfo, err = client.Info(ctx, fileId); err != nil {
			t.Errorf("unexpected error: want nil, got %v", err)
		}
		if fileInfo.Size != int64(len(data)) {
			t.Errorf("unexpected size: want %d, got %d", len(data), fileInfo.Size)
		}
		for k, v := range md {
			if fileInfo.Metadata[k] != v {
				t.Errorf("unexpected metadata %v: want %v, got %v", k, v, fileInfo.Metadata[k])
			}
		}
		if err = client.Delete(ctx, fileId); err != nil {
			t.Errorf("unexpected error: want nil, got %v", err)
		}
		if _, err = client.UploadFromReader(ctx, fileId, bytes.NewReader(data), nil); err != nil {
			t.Errorf("unexpected error: want nil, got %v", err)
		}
		fileId2 := fileId + "_2"
		if _, err = client.UploadFromReaderWithSize(ctx, fileId2, int64(len(data)),
			bytes.NewReader(data), nil); err != nil {
			t.Errorf("unexpected error: want nil, got %v", err)
		}
		fileId3 := fileId + "_3"
		filePath := filepath.Join(os.TempDir(), fileId)
		if err = os.WriteFile(filePath, data, 0600); err != nil {
			t.Fatalf("unexpected error: want nil, got %v", err)
		}
		if _, err = client.UploadFromDisk(ctx, fileId3, filePath, nil); err != nil {
			t.Errorf("unexpected error: want nil, got %v", err)
		}
		undeleted := client.Deletes(ctx, fileId, fileId2, fileId3)
		if len(undeleted) != 0 {
			t.Errorf("unexpected undeleted: want empty, got %v", undeleted)
		}
	}
	if _, err = client.Info(ctx, fileId); !errors.Is(err, cos.ErrNotExists) {
		t.Errorf("unexpected error: want ErrNotExists, got %v", err)
	}
}
