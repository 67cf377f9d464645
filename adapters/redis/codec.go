package redis

import (
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

const messageDataField = "data"

var (
	ErrPointerType   = errors.New("pointer type is not allowed")
	ErrMissingData   = errors.New("data field not found or invalid type")
	ErrPayloadFormat = errors.New("invalid payload format")
)

// encodePayload 以 msgpack 序列化後做 base64 編碼
func encodePayload[T any](data T) (string, error) {
	if reflect.TypeOf(data).Kind() == reflect.Ptr {
		return "", ErrPointerType
	}
	bytes, err := msgpack.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("msgpack marshal error: %w", err)
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}

// decodePayload 是 encodePayload 的反向操作
func decodePayload[T any](payload string) (T, error) {
	var result T
	if reflect.TypeOf(result).Kind() == reflect.Ptr {
		return result, ErrPointerType
	}
	bytes, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return result, fmt.Errorf("base64 decode error: %w: %w", ErrPayloadFormat, err)
	}
	if err := msgpack.Unmarshal(bytes, &result); err != nil {
		return result, fmt.Errorf("msgpack unmarshal error: %w: %w", ErrPayloadFormat, err)
	}
	return result, nil
}

// EncodeMessage 將 struct 轉換為 stream 訊息的欄位
func EncodeMessage[T any](data T) (map[string]any, error) {
	payload, err := encodePayload(data)
	if err != nil {
		return nil, err
	}
	return map[string]any{messageDataField: payload}, nil
}

// DecodeMessage 將 stream 訊息的欄位轉換為 struct
func DecodeMessage[T any](values map[string]any) (T, error) {
	payload, ok := values[messageDataField].(string)
	if !ok {
		var zero T
		return zero, ErrMissingData
	}
	return decodePayload[T](payload)
}
