// Package supplegen defines the record and table types produced by the
// supplement-store data generator, along with its configuration.
// Records are decoded from model output as loose JSON objects; the typed
// structs below describe the shape the prompts ask for.
package supplegen

import "slices"

// Kind names one of the generated entity tables.
type Kind string

const (
	KindUsers        Kind = "users"
	KindProducts     Kind = "products"
	KindTransactions Kind = "transactions"
)

// Kinds lists the entity kinds in generation order.
var Kinds = []Kind{KindUsers, KindProducts, KindTransactions}

// Field names requested from the model.
const (
	FieldUserID        = "user_id"
	FieldUserFirstName = "user_fname"
	FieldUserLastName  = "user_lname"
	FieldLoyaltyMember = "loyalty_reward_member"

	FieldProductID         = "product_id"
	FieldProductName       = "product_name"
	FieldProductBrand      = "product_brand"
	FieldActiveIngredients = "active_ingredients"
)

// MaxIngredients bounds the active_ingredients list a product may carry.
const MaxIngredients = 5

// User is a store customer.
type User struct {
	// UserID starts with "U" followed by a number.
	UserID    string `json:"user_id"`
	FirstName string `json:"user_fname"`
	LastName  string `json:"user_lname"`
	// LoyaltyMember marks loyalty program membership. Generated content only.
	LoyaltyMember bool `json:"loyalty_reward_member"`
}

// Product is a supplement sold by the store.
type Product struct {
	// ProductID starts with "P" followed by a number.
	ProductID string `json:"product_id"`
	Name      string `json:"product_name"`
	Brand     string `json:"product_brand"`
	// ActiveIngredients holds at most MaxIngredients entries.
	ActiveIngredients []string `json:"active_ingredients"`
}

// Transaction is a single purchase of a product by a user.
type Transaction struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

// Record is one generated row. Keys and value types are whatever the model
// produced; numbers are kept as json.Number.
type Record map[string]any

// String returns the value of key if it is a string.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Table accumulates records in emission order.
type Table struct {
	Kind    Kind
	Records []Record
}

// NewTable returns an empty table for kind.
func NewTable(kind Kind) *Table {
	return &Table{Kind: kind}
}

// Append adds records to the end of the table.
func (t *Table) Append(records ...Record) {
	t.Records = append(t.Records, records...)
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Columns returns the union of record keys in first-seen order. Keys within
// a single record are visited in preferred order for the table's kind first,
// then alphabetically, since Go maps carry no insertion order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	preferred := preferredColumns[t.Kind]
	seen := make(map[string]bool)
	var cols []string
	for _, r := range t.Records {
		for _, key := range orderedKeys(r, preferred) {
			if !seen[key] {
				seen[key] = true
				cols = append(cols, key)
			}
		}
	}
	return cols
}

// IDs returns the string values of field across the table, in table order.
// Records without a string value for field are skipped.
func (t *Table) IDs(field string) []string {
	if t == nil {
		return nil
	}
	ids := make([]string, 0, len(t.Records))
	for _, r := range t.Records {
		if id, ok := r.String(field); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

var preferredColumns = map[Kind][]string{
	KindUsers:        {FieldUserID, FieldUserFirstName, FieldUserLastName, FieldLoyaltyMember},
	KindProducts:     {FieldProductID, FieldProductName, FieldProductBrand, FieldActiveIngredients},
	KindTransactions: {FieldUserID, FieldProductID},
}

func orderedKeys(r Record, preferred []string) []string {
	keys := make([]string, 0, len(r))
	for _, p := range preferred {
		if _, ok := r[p]; ok {
			keys = append(keys, p)
		}
	}
	var extra []string
	for k := range r {
		if !slices.Contains(preferred, k) {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	return append(keys, extra...)
}
