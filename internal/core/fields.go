package core

// fields.go holds the field-name alias tables for the upstream exports.
//
// Every export names the same concept differently ("Código" vs "SKU" vs
// "Referência", accented vs plain, abbreviated vs full), so each logical
// field carries the list of header names observed in the wild. Matching is
// done through the normalized-key fallback in PickField, so casing and
// accents in this table are cosmetic.

// Catalog identity field aliases, checked by the identity tier of the
// matcher cascade.
var catalogIDAliases = []string{
	"ID",
	"Id Produto",
	"ID do Produto",
	"Código",
	"Identificador",
}

// Catalog SKU/code field aliases, checked by the code tier.
var catalogCodeAliases = []string{
	"Código",
	"Código (SKU)",
	"SKU",
	"Referência",
	"Ref",
}

// Catalog name/description aliases, checked by the name tier.
var catalogNameAliases = []string{
	"Descrição",
	"Nome",
	"Nome do Produto",
	"Produto",
}

var catalogBrandAliases = []string{
	"Marca",
	"Fabricante",
}

// Linkage export aliases.
var linkageProductIDAliases = []string{
	"ID Produto",
	"ID do Produto",
	"Produto",
	"ID",
}

var linkageStoreIDAliases = []string{
	"ID Anúncio",
	"ID do Anúncio",
	"Identificador",
	"ID na Loja",
	"Anúncio",
}

var linkageNameAliases = []string{
	"Descrição",
	"Nome",
	"Título",
	"Nome do Anúncio",
}

var linkageRefAliases = []string{
	"Código (SKU)",
	"Código",
	"SKU",
	"Referência",
}

// Dimensional numeric aliases. The per-store exports disagree on units in
// the header text ("Peso" vs "Peso Líq. (kg)") but not on meaning, so each
// list starts with the most common spelling.
var (
	weightAliases = []string{"Peso", "Peso líquido", "Peso Líq. (kg)", "Peso (kg)", "Peso Bruto"}
	widthAliases  = []string{"Largura", "Largura (cm)", "Largura do produto"}
	heightAliases = []string{"Altura", "Altura (cm)", "Altura do produto"}
	lengthAliases = []string{"Comprimento", "Profundidade", "Comprimento (cm)", "Profundidade (cm)"}
)
