// Package result provides the uniform response envelope returned by every
// endpoint: a status code, a message, optional page metadata, an optional
// payload and an optional diagnostic message.
//
// Envelopes are immutable. They are built by the factory functions of this
// package and only read afterwards.
package result

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/prasetyowira/starter/domain/status"
)

// Pager is implemented by paginated payloads.
type Pager interface {
	PageNumber() int
	PageSize() int
	TotalCount() int64
}

// PageInfo describes the page a paginated payload belongs to.
type PageInfo struct {
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	PageCount  int64 `json:"pageCount"`
	Total      int64 `json:"total"`
}

// NewPageInfo computes the page count as ceil(total / pageSize).
func NewPageInfo(pageNumber, pageSize int, total int64) PageInfo {
	var pageCount int64
	if pageSize > 0 && total > 0 {
		pageCount = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return PageInfo{
		PageNumber: pageNumber,
		PageSize:   pageSize,
		PageCount:  pageCount,
		Total:      total,
	}
}

// Data holds the page metadata and the payload of an envelope.
type Data[T any] struct {
	pageInfo   *PageInfo
	payload    T
	hasPayload bool
}

// PageInfo returns the page metadata, if any.
func (d *Data[T]) PageInfo() (PageInfo, bool) {
	if d == nil || d.pageInfo == nil {
		return PageInfo{}, false
	}
	return *d.pageInfo, true
}

// Payload returns the wrapped payload, if any.
func (d *Data[T]) Payload() (T, bool) {
	if d == nil {
		var zero T
		return zero, false
	}
	return d.payload, d.hasPayload
}

// Envelope is the response wrapper.
type Envelope[T any] struct {
	code  int
	msg   *string
	data  *Data[T]
	debug *string
}

// Code returns the composed status code.
func (e Envelope[T]) Code() int { return e.code }

// Msg returns the message, or "" when it is null.
func (e Envelope[T]) Msg() string {
	if e.msg == nil {
		return ""
	}
	return *e.msg
}

// Data returns the data section, nil when the envelope carries neither a
// payload nor page metadata.
func (e Envelope[T]) Data() *Data[T] { return e.data }

// Payload is a shortcut for Data().Payload().
func (e Envelope[T]) Payload() (T, bool) { return e.data.Payload() }

// DebugMsg returns the diagnostic message. It is meant for operators only.
func (e Envelope[T]) DebugMsg() (string, bool) {
	if e.debug == nil {
		return "", false
	}
	return *e.debug, true
}

// IsSuccess reports whether the envelope carries the success code.
func (e Envelope[T]) IsSuccess() bool { return status.IsSuccess(e.code) }

// WithoutDebug returns a copy of the envelope without the diagnostic message.
func (e Envelope[T]) WithoutDebug() Envelope[T] {
	e.debug = nil
	return e
}

// Any erases the payload type.
func (e Envelope[T]) Any() Envelope[any] {
	out := Envelope[any]{code: e.code, msg: e.msg, debug: e.debug}
	if e.data != nil {
		out.data = &Data[any]{pageInfo: e.data.pageInfo, hasPayload: e.data.hasPayload}
		if e.data.hasPayload {
			out.data.payload = e.data.payload
		}
	}
	return out
}

// Success returns a success envelope without payload.
func Success[T any]() Envelope[T] {
	return build[T](status.Success, status.Success.Msg(), nil)
}

// SuccessWith returns a success envelope wrapping payload. Paginated payloads
// get a PageInfo; slices and maps are copied so later changes made by the
// caller do not leak into the envelope.
func SuccessWith[T any](payload T) Envelope[T] {
	e := build[T](status.Success, status.Success.Msg(), nil)

	if isNil(payload) {
		return e
	}

	var info *PageInfo
	if p, ok := any(payload).(Pager); ok {
		pi := NewPageInfo(p.PageNumber(), p.PageSize(), p.TotalCount())
		info = &pi
	}

	e.data = &Data[T]{
		pageInfo:   info,
		payload:    detach(payload),
		hasPayload: true,
	}
	return e
}

// Fail returns the generic failure envelope.
func Fail[T any]() Envelope[T] {
	return build[T](status.Error, status.Error.Msg(), nil)
}

// FailWith returns a failure envelope for code.
func FailWith[T any](code status.Code) Envelope[T] {
	return build[T](code, code.Msg(), nil)
}

// FailWithCause returns a failure envelope for code whose diagnostic message
// is derived from cause. The client-facing message stays the code's message.
func FailWithCause[T any](code status.Code, cause error) Envelope[T] {
	return build[T](code, code.Msg(), cause)
}

// FailWithDetail is FailWithCause with an explicit client-facing message,
// typically a described status template.
func FailWithDetail[T any](code status.Code, msg string, cause error) Envelope[T] {
	return build[T](code, msg, cause)
}

func build[T any](code status.Code, msg string, cause error) Envelope[T] {
	e := Envelope[T]{code: code.Code(), msg: &msg}
	if cause != nil {
		d := Debug(cause)
		e.debug = &d
	}
	return e
}

// Debug renders cause as "{TypeName}: {message}", or "{TypeName}" when the
// message is empty.
func Debug(cause error) string {
	name := typeName(cause)
	if msg := cause.Error(); msg != "" {
		return name + ": " + msg
	}
	return name
}

func typeName(v any) string {
	name := fmt.Sprintf("%T", v)
	name = strings.TrimLeft(name, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// detach copies top-level slices and maps, and the exported slice and map
// fields of struct payloads. Pointers are returned as they are.
func detach[T any](payload T) T {
	rv := reflect.ValueOf(any(payload))
	if !rv.IsValid() {
		return payload
	}
	out := reflect.New(rv.Type()).Elem()
	out.Set(rv)

	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		out.Set(cloneCollection(rv))
	case reflect.Struct:
		for i := 0; i < out.NumField(); i++ {
			f := out.Field(i)
			if !f.CanSet() {
				continue
			}
			if k := f.Kind(); k == reflect.Slice || k == reflect.Map {
				f.Set(cloneCollection(f))
			}
		}
	}
	return out.Interface().(T)
}

func cloneCollection(v reflect.Value) reflect.Value {
	if v.IsNil() {
		return v
	}
	switch v.Kind() {
	case reflect.Slice:
		cp := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(cp, v)
		return cp
	case reflect.Map:
		cp := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			cp.SetMapIndex(iter.Key(), iter.Value())
		}
		return cp
	}
	return v
}

type wireData[T any] struct {
	PageInfo *PageInfo `json:"pageInfo,omitempty"`
	DataInfo *T        `json:"dataInfo"`
}

type wireEnvelope[T any] struct {
	Code     int          `json:"code"`
	Msg      *string      `json:"msg"`
	Data     *wireData[T] `json:"data"`
	DebugMsg *string      `json:"debugMsg,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	w := wireEnvelope[T]{Code: e.code, Msg: e.msg, DebugMsg: e.debug}
	if e.data != nil {
		w.Data = &wireData[T]{PageInfo: e.data.pageInfo}
		if e.data.hasPayload {
			p := e.data.payload
			w.Data.DataInfo = &p
		}
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. It is used by clients decoding
// responses; server code builds envelopes through the factories.
func (e *Envelope[T]) UnmarshalJSON(b []byte) error {
	var w wireEnvelope[T]
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*e = Envelope[T]{code: w.Code, msg: w.Msg, debug: w.DebugMsg}
	if w.Data != nil {
		e.data = &Data[T]{pageInfo: w.Data.PageInfo}
		if w.Data.DataInfo != nil {
			e.data.payload = *w.Data.DataInfo
			e.data.hasPayload = true
		}
	}
	return nil
}
