package bootstrap

import (
	"encoding/json"
)

// Document 是解析后的 bootstrap 文件。Raw 保留解析所用的原始字节，
// 便于 HTTP 层原样输出；Value 为通用 JSON 值（map/slice/float64/...）。
type Document struct {
	Raw   json.RawMessage
	Value any
}

func parseDocument(body []byte) (*Document, error) {
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, err
	}
	raw := make(json.RawMessage, len(body))
	copy(raw, body)
	return &Document{Raw: raw, Value: value}, nil
}
