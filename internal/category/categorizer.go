// Package category maps free-text transaction descriptions onto the fixed
// category taxonomy via keyword matching.
package category

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is returned when no keyword matches a description.
const Fallback = "Outros"

// keywordRule binds a normalized keyword to a category name. Rules are kept
// in a slice, not a map: table order is the tie-break when several keywords
// are substrings of the same description.
type keywordRule struct {
	keyword  string
	category string
}

var keywordTable = []keywordRule{
	{"ifood", "Alimentação"},
	{"rappi", "Alimentação"},
	{"restaurante", "Alimentação"},
	{"lanchonete", "Alimentação"},
	{"padaria", "Alimentação"},
	{"mercado", "Alimentação"},
	{"supermercado", "Alimentação"},
	{"acougue", "Alimentação"},
	{"pizzaria", "Alimentação"},
	{"uber", "Transporte"},
	{"99app", "Transporte"},
	{"99 tecnologia", "Transporte"},
	{"posto", "Transporte"},
	{"combustivel", "Transporte"},
	{"gasolina", "Transporte"},
	{"estacionamento", "Transporte"},
	{"pedagio", "Transporte"},
	{"metro", "Transporte"},
	{"onibus", "Transporte"},
	{"aluguel", "Moradia"},
	{"condominio", "Moradia"},
	{"energia", "Moradia"},
	{"luz", "Moradia"},
	{"agua", "Moradia"},
	{"gas", "Moradia"},
	{"internet", "Moradia"},
	{"telefone", "Moradia"},
	{"farmacia", "Saúde"},
	{"drogaria", "Saúde"},
	{"hospital", "Saúde"},
	{"clinica", "Saúde"},
	{"laboratorio", "Saúde"},
	{"plano de saude", "Saúde"},
	{"academia", "Saúde"},
	{"netflix", "Lazer"},
	{"spotify", "Lazer"},
	{"cinema", "Lazer"},
	{"teatro", "Lazer"},
	{"show", "Lazer"},
	{"viagem", "Lazer"},
	{"hotel", "Lazer"},
	{"escola", "Educação"},
	{"faculdade", "Educação"},
	{"curso", "Educação"},
	{"livraria", "Educação"},
	{"udemy", "Educação"},
	{"amazon", "Compras"},
	{"mercado livre", "Compras"},
	{"mercadolivre", "Compras"},
	{"magalu", "Compras"},
	{"magazine", "Compras"},
	{"shopee", "Compras"},
	{"aliexpress", "Compras"},
	{"shopping", "Compras"},
	{"cartorio", "Serviços"},
	{"seguro", "Serviços"},
	{"assinatura", "Serviços"},
	{"salario", "Salário"},
	{"pagamento salario", "Salário"},
	{"rendimento", "Investimentos"},
	{"dividendo", "Investimentos"},
	{"tesouro", "Investimentos"},
	{"cdb", "Investimentos"},
}

// stripDiacritics removes combining marks so "Alimentação" and "alimentacao"
// compare equal.
var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases, removes diacritics and trims a description or
// category name for matching.
func Normalize(s string) string {
	out, _, err := transform.String(stripDiacritics, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Categorize maps a description to a category name. Exact keyword match wins,
// then the first substring match in table order, then the Fallback category.
// Pure and deterministic.
func Categorize(description string) string {
	normalized := Normalize(description)
	if normalized == "" {
		return Fallback
	}

	for _, rule := range keywordTable {
		if normalized == rule.keyword {
			return rule.category
		}
	}
	for _, rule := range keywordTable {
		if strings.Contains(normalized, rule.keyword) {
			return rule.category
		}
	}
	return Fallback
}
