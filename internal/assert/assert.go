// Package assert panics on wiring mistakes, it is meant for constructors and
// never for validating input.
package assert

import (
	"fmt"
	"reflect"
)

func NotNil(value any, name string) {
	if isNil(value) {
		panic(fmt.Sprintf("expected %s to be not nil", name))
	}
}

func NotEmptyStr(str string, name string) {
	if str == "" {
		panic(fmt.Sprintf("expected %s to be non-empty", name))
	}
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
