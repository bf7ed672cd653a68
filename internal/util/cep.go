package util

// CEPInfo is the validation result for a Brazilian postal code.
// Field names are part of the public API contract and kept in
// Portuguese for compatibility with existing clients.
type CEPInfo struct {
	Valido       bool     `json:"valido"`
	CEPLimpo     *string  `json:"cep_limpo"`
	CEPFormatado *string  `json:"cep_formatado"`
	Regiao       *string  `json:"regiao"`
	Erros        []string `json:"erros"`
}

// cepRegions maps the first CEP digit to its postal region.
var cepRegions = map[byte]string{
	'0': "Grande São Paulo",
	'1': "Interior de São Paulo",
	'2': "Rio de Janeiro e Espírito Santo",
	'3': "Minas Gerais",
	'4': "Bahia e Sergipe",
	'5': "Pernambuco, Alagoas, Paraíba e Rio Grande do Norte",
	'6': "Ceará, Piauí, Maranhão e Pará",
	'7': "Amazonas, Acre, Rondônia, Roraima e Amapá",
	'8': "Paraná e Santa Catarina",
	'9': "Rio Grande do Sul",
}

// ValidateCEP validates a CEP, accepting formatted ("01310-100") or
// bare ("01310100") input. On success it returns the cleaned digits,
// the canonical formatted form and the postal region.
func ValidateCEP(raw string) CEPInfo {
	if raw == "" {
		return CEPInfo{
			Valido: false,
			Erros:  []string{"Cep deve ser uma string nao vazia"},
		}
	}

	var digits []byte
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}

	var erros []string
	if len(digits) != 8 {
		erros = append(erros, "Cep deve conter exatamente 8 digitos")
	}

	if len(erros) > 0 {
		return CEPInfo{Valido: false, Erros: erros}
	}

	clean := string(digits)
	formatted := clean[0:5] + "-" + clean[5:8]

	info := CEPInfo{
		Valido:       true,
		CEPLimpo:     &clean,
		CEPFormatado: &formatted,
		Erros:        []string{},
	}
	if region, ok := cepRegions[clean[0]]; ok {
		info.Regiao = &region
	}
	return info
}
