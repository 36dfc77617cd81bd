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
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	cos "gitee.com/ivfzhou/tencent-cos-upload-api"
)

func TestDelete(t *testing.T) {
	t.Run("正常运行", func(t *testing.T) {
		fileId := "/ivfzhou_test_file"
		fn := func(req *http.Request) (*http.Response, error) {
			if req.Method != http.MethodDelete {
				t.Errorf("unexpected method: want %v, got %v", http.MethodDelete, req.Method)
			}
			if req.URL.Path != fileId {
				t.Errorf("unexpected req path: want %v, got %v", fileId, req.URL.Path)
			}
			auth := req.Header.Get("Authorization")
			if !CheckAuthorization(auth, req.URL.Path, req.Method, req.Header, req.URL.Query()) {
				t.Errorf("unexpected auth: got %v", auth)
			}
			return &http.Response{
				StatusCode: http.StatusNoContent,
				Body:       NewReader(nil, nil, nil, nil),
			}, nil
		}
		err := NewTestClient(t, fn).Delete(context.Background(), fileId)
		if err != nil {
			t.Errorf("unexpected error: want nil, got %v", err)
		}
	})

	t.Run("文件不存在", func(t *testing.T) {
		fn := func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusNotFound,
				Body:       NewReader(nil, nil, nil, nil),
			}, nil
		}
		// 重复删除得到同样的结果。
		client := NewTestClient(t, fn)
		for i := 0; i < 2; i++ {
			err := client.Delete(context.Background(), "/ivfzhou_test_file")
			if !errors.Is(err, cos.ErrNotExists) {
				t.Errorf("unexpected error: want ErrNotExists, got %v", err)
			}
		}
	})
}

func TestDeletes(t *testing.T) {
	t.Run("正常运行", func(t *testing.T) {
		fileIds := []string{"/a.txt", "/b.txt", "/c.txt"}
		fn := func(req *http.Request) (*http.Response, error) {
			if req.Method != http.MethodPost {
				t.Errorf("unexpected method: want %v, got %v", http.MethodPost, req.Method)
			}
			if !req.URL.Query().Has("delete") {
				t.Errorf("unexpected query: want delete, got %v", req.URL.RawQuery)
			}
			bs, err := io.ReadAll(req.Body)
			if err != nil {
				t.Errorf("unexpected error: want nil, got %v", err)
			}
			sum := md5.Sum(bs)
			if want := base64.StdEncoding.EncodeToString(sum[:]); req.Header.Get("Content-MD5") != want {
				t.Errorf("unexpected content md5: want %v, got %v", want, req.Header.Get("Content-MD5"))
			}
			var reqObj struct {
				Quiet  bool     `xml:"Quiet"`
				Object []string `xml:"Object>Key"`
			}
			if err = xml.Unmarshal(bs, &reqObj); err != nil {
				t.Errorf("unexpected unmarshal: want nil, got %v", err)
			}
			if !reqObj.Quiet {
				t.Errorf("unexpected quiet: want true, got false")
			}
			if len(reqObj.Object) != len(fileIds) {
				t.Errorf("unexpected key count: want %d, got %d", len(fileIds), len(reqObj.Object))
			}
			for i, v := range reqObj.Object {
				if want := strings.TrimPrefix(fileIds[i], "/"); v != want {
					t.Errorf("unexpected key: want %v, got %v", want, v)
				}
			}
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       NewReader([]byte("<DeleteResult></DeleteResult>"), nil, nil, nil),
			}, nil
		}
		undeleted := NewTestClient(t, fn).Deletes(context.Background(), fileIds...)
		if len(undeleted) != 0 {
			t.Errorf("unexpected undeleted: want empty, got %v", undeleted)
		}
	})

	t.Run("部分失败", func(t *testing.T) {
		rspBody := `<DeleteResult>
			<Error><Key>b.txt</Key><Code>AccessDenied</Code><Message>access denied</Message></Error>
		</DeleteResult>`
		fn := func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       NewReader([]byte(rspBody), nil, nil, nil),
			}, nil
		}
		undeleted := NewTestClient(t, fn).Deletes(context.Background(), "/a.txt", "/b.txt")
		if len(undeleted) != 1 {
			t.Fatalf("unexpected undeleted count: want 1, got %v", undeleted)
		}
		err := undeleted["b.txt"]
		if err == nil || !strings.Contains(err.Error(), "AccessDenied") {
			t.Errorf("unexpected error: got %v", err)
		}
	})

	t.Run("分批删除", func(t *testing.T) {
		fileIds := make([]string, 0, 1234)
		for i := 0; i < 1234; i++ {
			fileIds = append(fileIds, "/file_"+strconv.Itoa(i))
		}
		reqCount := 0
		keyCount := 0
		fn := func(req *http.Request) (*http.Response, error) {
			reqCount++
			bs, err := io.ReadAll(req.Body)
			if err != nil {
				t.Errorf("unexpected error: want nil, got %v", err)
			}
			var reqObj struct {
				Object []string `xml:"Object>Key"`
			}
			if err = xml.Unmarshal(bs, &reqObj); err != nil {
				t.Errorf("unexpected unmarshal: want nil, got %v", err)
			}
			// 单次请求最多一千个。
			if len(reqObj.Object) > 1000 {
				t.Errorf("unexpected key count: want at most 1000, got %d", len(reqObj.Object))
			}
			keyCount += len(reqObj.Object)
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       NewReader([]byte("<DeleteResult></DeleteResult>"), nil, nil, nil),
			}, nil
		}
		undeleted := NewTestClient(t, fn).Deletes(context.Background(), fileIds...)
		if len(undeleted) != 0 {
			t.Errorf("unexpected undeleted: want empty, got %v", undeleted)
		}
		if reqCount != 2 {
			t.Errorf("unexpected request count: want 2, got %v", reqCount)
		}
		if keyCount != len(fileIds) {
			t.Errorf("unexpected total key count: want %d, got %d", len(fileIds), keyCount)
		}
	})

	t.Run("响应失败", func(t *testing.T) {
		fn := func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusInternalServerError,
				Body:       NewReader([]byte("expected error"), nil, nil, nil),
			}, nil
		}
		undeleted := NewTestClient(t, fn).Deletes(context.Background(), "/a.txt", "/b.txt")
		if len(undeleted) != 2 {
			t.Fatalf("unexpected undeleted count: want 2, got %v", undeleted)
		}
		for _, err := range undeleted {
			var rse *cos.RemoteServiceError
			if !errors.As(err, &rse) {
				t.Errorf("unexpected error type: want RemoteServiceError, got %T", err)
			}
		}
	})
}
