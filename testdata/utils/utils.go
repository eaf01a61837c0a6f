package utils

import "github.com/lib/pq"

func Ptr[T any](v T) *T {
	return &v
}

func StringArray(values []string) pq.StringArray {
	return pq.StringArray(values)
}
