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

// Strategy 上传策略。
type Strategy int

const (
	// StrategySimple 单请求上传整个文件。
	StrategySimple Strategy = iota
	// StrategyMultipart 分片模式上传。
	StrategyMultipart
)

func (s Strategy) String() string {
	if s == StrategyMultipart {
		return "multipart"
	}
	return "simple"
}

// UploadPlan 由文件大小推导出的上传计划。计算后不可变。
type UploadPlan struct {
	// Strategy 上传策略。
	Strategy Strategy
	// TotalSize 文件大小。
	TotalSize int64
	// PartSize 分片模式下每个分片的大小。
	PartSize int64
}

// PartRange 一个分片对应的文件字节区间。分片号从一开始，区间连续无空洞地覆盖整个文件。
type PartRange struct {
	// PartNumber 分片号。
	PartNumber int64
	// Offset 分片在文件中的起始偏移。
	Offset int64
	// Length 分片的字节数。
	Length int64
}

// PlanUpload 根据文件大小生成上传计划。无副作用。
func PlanUpload(size int64) (*UploadPlan, error) {
	if size < 0 {
		return nil, &InvalidPlanError{Size: size}
	}
	p := &UploadPlan{
		Strategy:  StrategySimple,
		TotalSize: size,
		PartSize:  getPartSize(),
	}
	if useMultipart(size) {
		p.Strategy = StrategyMultipart
	}
	return p, nil
}

// PartCount 分片数量。
func (p *UploadPlan) PartCount() int64 {
	if p.TotalSize <= 0 {
		return 0
	}
	return (p.TotalSize + p.PartSize - 1) / p.PartSize
}

// Parts 生成所有分片的字节区间。只有最后一个分片允许小于分片大小。
func (p *UploadPlan) Parts() []PartRange {
	count := p.PartCount()
	parts := make([]PartRange, count)
	for i := int64(0); i < count; i++ {
		offset := i * p.PartSize
		length := p.PartSize
		if offset+length > p.TotalSize {
			length = p.TotalSize - offset
		}
		parts[i] = PartRange{
			PartNumber: i + 1,
			Offset:     offset,
			Length:     length,
		}
	}
	return parts
}
