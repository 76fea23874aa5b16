package transistor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgsEncode(t *testing.T) {
	tests := []struct {
		name string
		args *Args
		want string
	}{
		{name: "nil", args: nil, want: ""},
		{name: "empty", args: NewArgs(), want: ""},
		{name: "insertion order", args: NewArgs("b", "2", "a", "1"), want: "b=2&a=1"},
		{name: "escaping", args: NewArgs("q", "hello world&more"), want: "q=hello+world%26more"},
		{name: "numbers", args: NewArgs("page", 2, "ratio", 0.5), want: "page=2&ratio=0.5"},
		{name: "booleans", args: NewArgs("private", true, "draft", false), want: "private=1&draft=0"},
		{name: "nil values skipped", args: NewArgs("a", nil, "b", "x"), want: "b=x"},
		{
			name: "nested args",
			args: NewArgs("pagination", NewArgs("page", 1, "per", 20)),
			want: "pagination%5Bpage%5D=1&pagination%5Bper%5D=20",
		},
		{
			name: "slices",
			args: NewArgs("ids", []string{"1", "2"}),
			want: "ids%5B0%5D=1&ids%5B1%5D=2",
		},
		{
			name: "maps sorted by key",
			args: NewArgs("fields", map[string]any{"show": "title", "episode": "number"}),
			want: "fields%5Bepisode%5D=number&fields%5Bshow%5D=title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.args.Encode())
		})
	}
}

func TestArgsSetKeepsPosition(t *testing.T) {
	args := NewArgs("a", "1", "b", "2")
	args.Set("a", "3")

	assert.Equal(t, []string{"a", "b"}, args.Keys())
	assert.Equal(t, "a=3&b=2", args.Encode())
	assert.Equal(t, 2, args.Len())

	v, ok := args.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
}

func TestArgsZeroValue(t *testing.T) {
	var args Args
	args.Set("x", "y")
	assert.Equal(t, "x=y", args.Encode())
}

func TestArgsMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		args *Args
		want string
	}{
		{name: "empty", args: NewArgs(), want: `{}`},
		{name: "single", args: NewArgs("title", "Hello"), want: `{"title":"Hello"}`},
		{name: "order kept", args: NewArgs("z", 1, "a", true), want: `{"z":1,"a":true}`},
		{
			name: "nested",
			args: NewArgs("episode", NewArgs("show_id", "9", "title", "Pilot"), "tags", []string{"a"}),
			want: `{"episode":{"show_id":"9","title":"Pilot"},"tags":["a"]}`,
		},
		{name: "trailing key", args: NewArgs("orphan"), want: `{"orphan":null}`},
		{
			name: "nested value",
			args: NewArgs("episode", *NewArgs("title", "Hello")),
			want: `{"episode":{"title":"Hello"}}`,
		},
		{
			name: "values inside map and slice",
			args: NewArgs("m", map[string]any{"e": *NewArgs("t", "x")}, "s", []Args{*NewArgs("n", 1)}),
			want: `{"m":{"e":{"t":"x"}},"s":[{"n":1}]}`,
		},
		{name: "nil nested pointer", args: NewArgs("episode", (*Args)(nil)), want: `{"episode":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.args.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestArgsMarshalJSONError(t *testing.T) {
	_, err := NewArgs("ch", make(chan int)).MarshalJSON()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `argument "ch"`)
}

func TestArgsClone(t *testing.T) {
	original := NewArgs("a", "1", "nested", NewArgs("b", "2"), "value", *NewArgs("c", "3"))
	copied := original.clone()
	require.Equal(t, original.Encode(), copied.Encode())

	original.Set("a", "changed")
	nested, _ := original.Get("nested")
	nested.(*Args).Set("b", "changed")

	assert.Equal(t, "a=1&nested%5Bb%5D=2&value%5Bc%5D=3", copied.Encode())
	assert.Nil(t, (*Args)(nil).clone())
}

func TestArgsFromMap(t *testing.T) {
	args := ArgsFromMap(map[string]any{"b": "2", "a": "1", "c": "3"})
	assert.Equal(t, "a=1&b=2&c=3", args.Encode())
}

func TestStructArgs(t *testing.T) {
	type listEpisodes struct {
		ShowID string   `url:"show_id"`
		Query  string   `url:"query,omitempty"`
		Status []string `url:"status"`
		Page   int      `url:"pagination[page]"`
	}

	args, err := StructArgs(listEpisodes{ShowID: "12", Status: []string{"published", "draft"}, Page: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"pagination[page]", "show_id", "status"}, args.Keys())

	showID, _ := args.Get("show_id")
	assert.Equal(t, "12", showID)
	status, _ := args.Get("status")
	assert.Equal(t, []string{"published", "draft"}, status)

	_, err = StructArgs("not a struct")
	assert.Error(t, err)
}
