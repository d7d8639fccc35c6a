package result

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/prasetyowira/starter/domain/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPage struct {
	Items  []string
	Number int
	Size   int
	Total  int64
}

func (p testPage) PageNumber() int   { return p.Number }
func (p testPage) PageSize() int     { return p.Size }
func (p testPage) TotalCount() int64 { return p.Total }

type plainError struct{}

func (plainError) Error() string { return "" }

func TestSuccess(t *testing.T) {
	// Act
	env := Success[any]()

	// Assert
	assert.Equal(t, 0, env.Code())
	assert.Equal(t, status.Success.Msg(), env.Msg())
	assert.Nil(t, env.Data())
	assert.True(t, env.IsSuccess())
	_, ok := env.DebugMsg()
	assert.False(t, ok)
}

func TestSuccessWith_Payload(t *testing.T) {
	type item struct{ Name string }

	env := SuccessWith(item{Name: "a"})

	require.NotNil(t, env.Data())
	payload, ok := env.Payload()
	assert.True(t, ok)
	assert.Equal(t, "a", payload.Name)
	_, hasPage := env.Data().PageInfo()
	assert.False(t, hasPage)
}

func TestSuccessWith_NilPayload(t *testing.T) {
	var items []string

	env := SuccessWith(items)

	assert.Equal(t, 0, env.Code())
	assert.Nil(t, env.Data())
}

func TestSuccessWith_Paginated(t *testing.T) {
	page := testPage{Items: []string{"a", "b"}, Number: 2, Size: 10, Total: 95}

	env := SuccessWith(page)

	info, ok := env.Data().PageInfo()
	require.True(t, ok)
	assert.Equal(t, PageInfo{PageNumber: 2, PageSize: 10, PageCount: 10, Total: 95}, info)
	payload, _ := env.Payload()
	assert.Equal(t, []string{"a", "b"}, payload.Items)
}

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name      string
		pageSize  int
		total     int64
		wantCount int64
	}{
		{"partial last page", 10, 95, 10},
		{"exact pages", 10, 100, 10},
		{"empty", 10, 0, 0},
		{"single item", 10, 1, 1},
		{"page size one", 1, 3, 3},
		{"invalid page size", 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(1, tt.pageSize, tt.total)
			assert.Equal(t, tt.wantCount, info.PageCount)
			assert.Equal(t, tt.total, info.Total)
		})
	}
}

func TestSuccessWith_DetachesCallerCollections(t *testing.T) {
	// Arrange
	items := []string{"a", "b"}
	attrs := map[string]int{"x": 1}
	page := testPage{Items: []string{"p"}, Number: 1, Size: 1, Total: 1}

	// Act
	sliceEnv := SuccessWith(items)
	mapEnv := SuccessWith(attrs)
	pageEnv := SuccessWith(page)
	items[0] = "changed"
	attrs["x"] = 2
	page.Items[0] = "changed"

	// Assert
	gotItems, _ := sliceEnv.Payload()
	gotAttrs, _ := mapEnv.Payload()
	gotPage, _ := pageEnv.Payload()
	assert.Equal(t, []string{"a", "b"}, gotItems)
	assert.Equal(t, map[string]int{"x": 1}, gotAttrs)
	assert.Equal(t, []string{"p"}, gotPage.Items)
}

func TestFail(t *testing.T) {
	env := Fail[any]()

	assert.Equal(t, status.Error.Code(), env.Code())
	assert.Equal(t, status.Error.Msg(), env.Msg())
	assert.Nil(t, env.Data())
	assert.False(t, env.IsSuccess())
}

func TestFailWith(t *testing.T) {
	for _, code := range []status.Code{status.ResourceNotFound, status.ParamValidate, status.InternalException} {
		env := FailWith[any](code)

		assert.Equal(t, code.Code(), env.Code())
		assert.Equal(t, code.Msg(), env.Msg())
		assert.Nil(t, env.Data())
		_, ok := env.DebugMsg()
		assert.False(t, ok)
	}
}

func TestFailWithCause(t *testing.T) {
	env := FailWithCause[any](status.InternalException, errors.New("boom"))

	assert.Equal(t, status.InternalException.Code(), env.Code())
	assert.Equal(t, status.InternalException.Msg(), env.Msg())
	assert.Nil(t, env.Data())
	debug, ok := env.DebugMsg()
	assert.True(t, ok)
	assert.Equal(t, "errorString: boom", debug)
}

func TestFailWithCause_EmptyMessage(t *testing.T) {
	env := FailWithCause[any](status.Error, plainError{})

	debug, ok := env.DebugMsg()
	assert.True(t, ok)
	assert.Equal(t, "plainError", debug)
}

func TestFailWithDetail(t *testing.T) {
	env := FailWithDetail[any](status.ConfigValidate, status.ConfigValidate.Describe("PORT"), errors.New("bad"))

	assert.Equal(t, "invalid configuration parameter: PORT", env.Msg())
	assert.Equal(t, 100012, env.Code())
}

func TestWithoutDebug(t *testing.T) {
	env := FailWithCause[any](status.Error, errors.New("boom"))

	stripped := env.WithoutDebug()

	_, ok := stripped.DebugMsg()
	assert.False(t, ok)
	_, ok = env.DebugMsg()
	assert.True(t, ok, "original envelope must stay untouched")
}

func TestMarshalJSON_FieldPresence(t *testing.T) {
	tests := []struct {
		name      string
		env       Envelope[any]
		wantDebug bool
		wantData  bool
		wantPage  bool
	}{
		{"success", Success[any](), false, false, false},
		{"fail", FailWith[any](status.ResourceNotFound), false, false, false},
		{"fail with cause", FailWithCause[any](status.Error, errors.New("x")), true, false, false},
		{"payload", SuccessWith[any]("value"), false, true, false},
		{"page", SuccessWith[any](testPage{Items: []string{}, Number: 1, Size: 10, Total: 0}), false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.env)
			require.NoError(t, err)

			var raw map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(b, &raw))

			assert.Contains(t, raw, "code")
			assert.Contains(t, raw, "msg")
			assert.Contains(t, raw, "data")
			_, hasDebug := raw["debugMsg"]
			assert.Equal(t, tt.wantDebug, hasDebug)

			if !tt.wantData {
				assert.Equal(t, "null", string(raw["data"]))
				return
			}
			var data map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(raw["data"], &data))
			assert.Contains(t, data, "dataInfo")
			_, hasPage := data["pageInfo"]
			assert.Equal(t, tt.wantPage, hasPage)
		})
	}
}

func TestJSONRoundTrip_DebugAbsent(t *testing.T) {
	// Arrange
	b, err := json.Marshal(SuccessWith(map[string]string{"k": "v"}))
	require.NoError(t, err)

	// Act
	var decoded Envelope[map[string]string]
	require.NoError(t, json.Unmarshal(b, &decoded))

	// Assert
	_, ok := decoded.DebugMsg()
	assert.False(t, ok)
	payload, ok := decoded.Payload()
	assert.True(t, ok)
	assert.Equal(t, "v", payload["k"])
}

func TestJSONRoundTrip_DebugPresent(t *testing.T) {
	b, err := json.Marshal(FailWithCause[any](status.TimeoutOrSystemError, errors.New("deadline")))
	require.NoError(t, err)

	var decoded Envelope[any]
	require.NoError(t, json.Unmarshal(b, &decoded))

	debug, ok := decoded.DebugMsg()
	assert.True(t, ok)
	assert.Equal(t, "errorString: deadline", debug)
	assert.Equal(t, 100014, decoded.Code())
	assert.Nil(t, decoded.Data())
}

func TestUnmarshalJSON_NullMsg(t *testing.T) {
	var decoded Envelope[any]
	require.NoError(t, json.Unmarshal([]byte(`{"code":100001,"msg":null,"data":null}`), &decoded))

	assert.Equal(t, "", decoded.Msg())
	assert.Equal(t, 100001, decoded.Code())
}

func TestAny(t *testing.T) {
	env := SuccessWith(testPage{Items: []string{"a"}, Number: 1, Size: 5, Total: 6})

	erased := env.Any()

	assert.Equal(t, env.Code(), erased.Code())
	info, ok := erased.Data().PageInfo()
	assert.True(t, ok)
	assert.Equal(t, int64(2), info.PageCount)
	payload, ok := erased.Payload()
	assert.True(t, ok)
	assert.IsType(t, testPage{}, payload)
}
