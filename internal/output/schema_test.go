package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestWriteSchema_IsValidDraft07(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSchema(&buf))

	sl := gojsonschema.NewSchemaLoader()
	sl.Validate = true
	_, err := sl.Compile(gojsonschema.NewBytesLoader(buf.Bytes()))
	require.NoError(t, err, "schema must satisfy the draft-07 meta-schema")
}

func TestSchema_CoversRecordFields(t *testing.T) {
	s := Schema()
	props, ok := s["properties"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, props, 27)

	tone := props["tone"].(map[string]any)
	assert.Equal(t, []any{"object", "null"}, tone["type"])

	locs := props["v2_enhanced_locations"].(map[string]any)
	items := locs["items"].(map[string]any)
	assert.Contains(t, items["properties"], "adm2_code")
}

func TestSchema_ValidatesEncodedRecords(t *testing.T) {
	schema, err := json.Marshal(Schema())
	require.NoError(t, err)
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema))
	require.NoError(t, err)

	for _, rec := range sampleRecords(t) {
		doc, err := json.Marshal(rec)
		require.NoError(t, err)

		result, err := compiled.Validate(gojsonschema.NewBytesLoader(doc))
		require.NoError(t, err)
		assert.True(t, result.Valid(), "record %s: %v", rec.RecordID, result.Errors())
	}

	result, err := compiled.Validate(gojsonschema.NewStringLoader(`{"gkg_record_id": 5}`))
	require.NoError(t, err)
	assert.False(t, result.Valid())
}
