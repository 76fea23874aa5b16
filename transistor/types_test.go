package transistor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentResources(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantIDs []string
		wantErr bool
	}{
		{
			name:    "list",
			body:    `{"data":[{"id":"1","type":"show"},{"id":"2","type":"show"}]}`,
			wantIDs: []string{"1", "2"},
		},
		{
			name:    "single resource",
			body:    `{"data":{"id":"7","type":"episode","attributes":{"title":"Pilot"}}}`,
			wantIDs: []string{"7"},
		},
		{
			name: "null data",
			body: `{"data":null}`,
		},
		{
			name: "no data",
			body: `{"meta":{"count":0}}`,
		},
		{
			name:    "malformed data",
			body:    `{"data":"nope"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeDocument(&Outcome{Response: Response{Body: tt.body}})
			require.NoError(t, err)

			resources, err := doc.Resources()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var ids []string
			for _, r := range resources {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestDecodeDocumentEmptyBody(t *testing.T) {
	_, err := DecodeDocument(&Outcome{})
	assert.ErrorIs(t, err, ErrNotStructured)
}

func TestResourceAttr(t *testing.T) {
	r := Resource{Attributes: map[string]any{"title": "Pilot"}}
	assert.Equal(t, "Pilot", r.Attr("title"))
	assert.Nil(t, r.Attr("missing"))
	assert.Nil(t, (&Resource{}).Attr("title"))
}

func TestDecodeDocumentErrors(t *testing.T) {
	out := &Outcome{Response: Response{
		StatusCode: 404,
		Body:       `{"errors":[{"status":"404","title":"Not Found","detail":"Show not found"}]}`,
	}}

	doc, err := DecodeDocument(out)
	require.NoError(t, err)
	require.Len(t, doc.Errors, 1)
	assert.Equal(t, ErrorObject{Status: "404", Title: "Not Found", Detail: "Show not found"}, doc.Errors[0])

	resources, err := doc.Resources()
	require.NoError(t, err)
	assert.Empty(t, resources)
}
