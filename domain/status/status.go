// Package status defines the two-part numeric status codes carried by every
// response envelope.
//
// A code is composed as segment*1000 + value. The segment identifies the
// owning module and the value, in [0, 1000), the condition inside it. Code 0
// is the generic success code and the range [100000, 200000) is reserved for
// the cross-cutting codes declared in this package.
package status

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Code is an immutable status code definition.
type Code struct {
	segment int
	value   int
	msg     string
}

var (
	registryMu sync.RWMutex
	registry   = map[int]Code{}
)

// Compose returns segment*1000 + value.
func Compose(segment, value int) int {
	return segment*1000 + value
}

// Define declares a status code. It is meant for package-level variables and
// panics when the value is out of range or the composed code is already taken.
func Define(segment, value int, msg string) Code {
	if segment < 0 {
		panic(fmt.Sprintf("status: negative segment %d", segment))
	}
	if value < 0 || value >= 1000 {
		panic(fmt.Sprintf("status: value %d out of range [0,1000)", value))
	}

	c := Code{segment: segment, value: value, msg: msg}
	code := c.Code()

	registryMu.Lock()
	defer registryMu.Unlock()
	if existing, ok := registry[code]; ok {
		panic(fmt.Sprintf("status: code %d already defined as %q", code, existing.msg))
	}
	registry[code] = c
	return c
}

// Lookup returns the definition registered for a composed code.
func Lookup(code int) (Code, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[code]
	return c, ok
}

// Segment returns the category portion of the code.
func (c Code) Segment() int { return c.segment }

// Value returns the condition portion of the code.
func (c Code) Value() int { return c.value }

// Code returns the composed numeric code.
func (c Code) Code() int { return Compose(c.segment, c.value) }

// Msg returns the message template.
func (c Code) Msg() string { return c.msg }

// Describe fills {0}, {1}, ... placeholders in the message template.
// Placeholders without a matching argument are left untouched.
func (c Code) Describe(args ...any) string {
	if len(args) == 0 || !strings.Contains(c.msg, "{") {
		return c.msg
	}
	pairs := make([]string, 0, len(args)*2)
	for i, arg := range args {
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", fmt.Sprint(arg))
	}
	return strings.NewReplacer(pairs...).Replace(c.msg)
}

// IsSuccess reports whether c is the generic success code.
func (c Code) IsSuccess() bool { return IsSuccess(c.Code()) }

// String implements fmt.Stringer.
func (c Code) String() string {
	return strconv.Itoa(c.Code()) + " " + c.msg
}

// IsSuccess reports whether code equals the generic success code.
func IsSuccess(code int) bool {
	return code == Success.Code()
}

// IsFailure is the negation of IsSuccess.
func IsFailure(code int) bool {
	return !IsSuccess(code)
}
