package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_Accessors(t *testing.T) {
	d := Dict()
	d.Set("n", Int(5))
	d.Set("s", String("x"))

	l := List(Int(1))
	l.Append(String("two"))

	tests := []struct {
		name string
		v    Value
		kind Kind
		size int
	}{
		{"bytes", String("abc"), KindBytes, 3},
		{"int", Int(1), KindInt, 0},
		{"list", l, KindList, 2},
		{"dict", d, KindDict, 2},
		{"zero", Value{}, KindInvalid, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.v.Kind())
			assert.Equal(t, tt.size, tt.v.Len())
			assert.Equal(t, tt.kind != KindInvalid, tt.v.IsValid())
		})
	}

	// 类型不匹配时返回 false
	_, ok := Int(1).AsBytes()
	assert.False(t, ok)
	_, ok = String("x").AsInt64()
	assert.False(t, ok)
	_, ok = String("x").AsList()
	assert.False(t, ok)
	_, ok = List().AsDict()
	assert.False(t, ok)
	_, ok = List().Get("k")
	assert.False(t, ok)
	assert.Nil(t, List().Keys())
}

func TestValue_SetOnNonDictPanics(t *testing.T) {
	v := List()
	assert.Panics(t, func() { v.Set("k", Int(1)) })

	s := String("x")
	assert.Panics(t, func() { s.Append(Int(1)) })
}

func TestValue_BytesAreCopied(t *testing.T) {
	raw := []byte("abc")
	v := Bytes(raw)
	raw[0] = 'z'

	got, _ := v.AsString()
	assert.Equal(t, "abc", got)
}

func TestValue_Equal(t *testing.T) {
	a := Dict()
	a.Set("k", List(Int(1), String("v")))
	b := Dict()
	b.Set("k", List(Int(1), String("v")))
	assert.True(t, a.Equal(b))

	b.Set("k", List(Int(2), String("v")))
	assert.False(t, a.Equal(b))

	assert.False(t, String("1").Equal(Int(1)))
	assert.False(t, List(Int(1)).Equal(List(Int(1), Int(1))))
	assert.True(t, Value{}.Equal(Value{}))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "bytes", KindBytes.String())
	assert.Equal(t, "int", KindInt.String())
	assert.Equal(t, "list", KindList.String())
	assert.Equal(t, "dict", KindDict.String())
	assert.Equal(t, "invalid", KindInvalid.String())
}
