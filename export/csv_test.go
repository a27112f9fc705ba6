package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	supplegen "github.com/Paranoid-AF/supplegen"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteTableFormatsValues(t *testing.T) {
	tbl := supplegen.NewTable(supplegen.KindProducts)
	tbl.Append(
		supplegen.Record{
			"product_id":         "P001",
			"product_name":       "Joint Flex, Extra",
			"product_brand":      "Acme",
			"active_ingredients": []any{"glucosamine", "collagen"},
		},
		supplegen.Record{
			"product_id": "P002",
			"price":      json.Number("19.99"),
			"vegan":      true,
			"notes":      nil,
		},
	)

	var sb strings.Builder
	require.NoError(t, WriteTable(&sb, tbl))

	rows, err := csv.NewReader(strings.NewReader(sb.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"product_id", "product_name", "product_brand", "active_ingredients", "notes", "price", "vegan"}, rows[0])
	assert.Equal(t, []string{"P001", "Joint Flex, Extra", "Acme", `["glucosamine","collagen"]`, "", "", ""}, rows[1])
	assert.Equal(t, []string{"P002", "", "", "", "", "19.99", "true"}, rows[2])
}

func TestWriteTableEmpty(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, WriteTable(&sb, supplegen.NewTable(supplegen.KindTransactions)))
	assert.Empty(t, sb.String())
}

func TestWriteTablesCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	users := supplegen.NewTable(supplegen.KindUsers)
	users.Append(supplegen.Record{"user_id": "U001", "user_fname": "Ava", "user_lname": "Reed", "loyalty_reward_member": false})
	txns := supplegen.NewTable(supplegen.KindTransactions)
	txns.Append(supplegen.Record{"user_id": "U001", "product_id": "P001"})

	paths, err := WriteTables(dir, users, txns)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "users.csv"), filepath.Join(dir, "transactions.csv")}, paths)

	rows := readCSV(t, paths[0])
	assert.Equal(t, [][]string{
		{"user_id", "user_fname", "user_lname", "loyalty_reward_member"},
		{"U001", "Ava", "Reed", "false"},
	}, rows)

	rows = readCSV(t, paths[1])
	assert.Equal(t, [][]string{{"user_id", "product_id"}, {"U001", "P001"}}, rows)

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestWriteCSVOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	tbl := supplegen.NewTable(supplegen.KindUsers)
	tbl.Append(supplegen.Record{"user_id": "U009"})
	require.NoError(t, WriteCSV(path, tbl))

	assert.Equal(t, [][]string{{"user_id"}, {"U009"}}, readCSV(t, path))
}

func TestFormatValue(t *testing.T) {
	for _, tc := range []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{false, "false"},
		{json.Number("7"), "7"},
		{1.5, "1.5"},
		{3, "3"},
		{map[string]any{"a": "b"}, `{"a":"b"}`},
	} {
		got, err := formatValue(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}
