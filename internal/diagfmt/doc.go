// Package diagfmt renders diagnostic bags: Pretty for terminals (source line
// plus caret underline), JSON for tools and SARIF 2.1.0 for code scanning.
package diagfmt
