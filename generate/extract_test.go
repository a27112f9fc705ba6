package generate

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersArray = `[
  {"user_id": "U001", "user_fname": "Ava", "user_lname": "Reed", "loyalty_reward_member": true},
  {"user_id": "U002", "user_fname": "Ben", "user_lname": "Cole", "loyalty_reward_member": false}
]`

func TestExtractRecordsStrict(t *testing.T) {
	ext, err := ExtractRecords(usersArray)
	require.NoError(t, err)
	assert.Equal(t, StrategyStrict, ext.Strategy)
	require.Len(t, ext.Records, 2)
	assert.Equal(t, "U001", ext.Records[0]["user_id"])
	assert.Equal(t, true, ext.Records[0]["loyalty_reward_member"])
}

func TestExtractRecordsFencedEqualsUnfenced(t *testing.T) {
	plain, err := ExtractRecords(usersArray)
	require.NoError(t, err)

	for _, fenced := range []string{
		"```json\n" + usersArray + "\n```",
		"```\n" + usersArray + "\n```",
		"  ```json" + usersArray + "```  \n",
	} {
		got, err := ExtractRecords(fenced)
		require.NoError(t, err, fenced)
		assert.Equal(t, plain, got)
	}
}

func TestExtractRecordsScanFallback(t *testing.T) {
	text := "Sure! Here are your users:\n" + usersArray + "\nLet me know if you need more."
	ext, err := ExtractRecords(text)
	require.NoError(t, err)
	assert.Equal(t, StrategyScan, ext.Strategy)
	assert.Len(t, ext.Records, 2)
}

func TestExtractRecordsWrappedObjectFallsBackToScan(t *testing.T) {
	ext, err := ExtractRecords(`{"users": ` + usersArray + `}`)
	require.NoError(t, err)
	assert.Equal(t, StrategyScan, ext.Strategy)
	assert.Len(t, ext.Records, 2)
}

func TestExtractRecordsEmptyArrayIsSuccess(t *testing.T) {
	ext, err := ExtractRecords("[]")
	require.NoError(t, err)
	assert.Empty(t, ext.Records)
	assert.NotNil(t, ext.Records)
}

func TestExtractRecordsNoArray(t *testing.T) {
	for _, text := range []string{
		"",
		"I cannot help with that.",
		`{"user_id": "U001"}`,
		"] backwards [",
		"null",
	} {
		_, err := ExtractRecords(text)
		require.Error(t, err, text)
		assert.True(t, errors.Is(err, ErrNoJSON), text)
	}
}

func TestExtractRecordsBrokenArray(t *testing.T) {
	_, err := ExtractRecords(`Here: [{"user_id": "U001",}] done`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtractRecordsGreedySpan(t *testing.T) {
	// the span runs from the first '[' to the last ']', so two arrays
	// separated by prose do not parse
	_, err := ExtractRecords(`first [{"a":1}] and second [{"b":2}]`)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtractRecordsSkipsNonObjects(t *testing.T) {
	ext, err := ExtractRecords(`[{"product_id": "P001"}, "P002", 3, null, ["x"], {"product_id": "P004"}]`)
	require.NoError(t, err)
	assert.Len(t, ext.Records, 2)
	assert.Equal(t, 4, ext.Skipped)
}

func TestExtractRecordsKeepsNumbersAndLists(t *testing.T) {
	ext, err := ExtractRecords(`[{"product_id": "P001", "price": 19.99, "active_ingredients": ["creatine", "BCAAs"]}]`)
	require.NoError(t, err)
	rec := ext.Records[0]
	assert.Equal(t, json.Number("19.99"), rec["price"])
	assert.Equal(t, []any{"creatine", "BCAAs"}, rec["active_ingredients"])
}

func TestExtractRecordsErrorPreviewTruncated(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	_, err := ExtractRecords(string(long))
	require.Error(t, err)
	assert.Less(t, len(err.Error()), 300)
}
