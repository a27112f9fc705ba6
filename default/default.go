// Package defaults provides embedded default assets (config and prompt templates).
package defaults

import _ "embed"

//go:embed default_config.toml
var DefaultConfigTOML []byte

//go:embed users.tmpl
var UsersPrompt string

//go:embed products.tmpl
var ProductsPrompt string

//go:embed transactions.tmpl
var TransactionsPrompt string
