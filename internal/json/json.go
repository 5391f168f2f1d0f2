// SPDX-License-Identifier: Apache-2.0

package json

import (
	json "github.com/bytedance/sonic"
)

// api keeps the standard library behaviour of sorting map keys, so that
// encodings of the same value are byte identical across runs.
var api = json.Config{
	SortMapKeys: true,
}.Froze()

// numberAPI decodes JSON numbers into json.Number instead of float64.
var numberAPI = json.Config{
	SortMapKeys: true,
	UseNumber:   true,
}.Froze()

func Unmarshal(b []byte, v any) error {
	return api.Unmarshal(b, v)
}

func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

func MarshalString(v any) (string, error) {
	return api.MarshalToString(v)
}

func UnmarshalString(s string, v any) error {
	return api.UnmarshalFromString(s, v)
}

// UnmarshalUseNumber behaves like Unmarshal, but numbers decoded into an
// interface value are json.Number, preserving integer precision.
func UnmarshalUseNumber(b []byte, v any) error {
	return numberAPI.Unmarshal(b, v)
}

func Valid(b []byte) bool {
	return api.Valid(b)
}

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}
