package util

import "testing"

func TestValidateCEP(t *testing.T) {
	t.Parallel()

	t.Run("formatted input", func(t *testing.T) {
		t.Parallel()

		info := ValidateCEP("01310-100")
		if !info.Valido {
			t.Fatalf("expected valid, got errors %v", info.Erros)
		}
		if info.CEPLimpo == nil || *info.CEPLimpo != "01310100" {
			t.Errorf("cep_limpo = %v, want 01310100", info.CEPLimpo)
		}
		if info.CEPFormatado == nil || *info.CEPFormatado != "01310-100" {
			t.Errorf("cep_formatado = %v, want 01310-100", info.CEPFormatado)
		}
		if info.Regiao == nil || *info.Regiao != "Grande São Paulo" {
			t.Errorf("regiao = %v, want Grande São Paulo", info.Regiao)
		}
		if len(info.Erros) != 0 {
			t.Errorf("erros = %v, want empty", info.Erros)
		}
	})

	t.Run("bare input gets formatted", func(t *testing.T) {
		t.Parallel()

		info := ValidateCEP("90040000")
		if !info.Valido {
			t.Fatalf("expected valid, got errors %v", info.Erros)
		}
		if info.CEPFormatado == nil || *info.CEPFormatado != "90040-000" {
			t.Errorf("cep_formatado = %v, want 90040-000", info.CEPFormatado)
		}
		if info.Regiao == nil || *info.Regiao != "Rio Grande do Sul" {
			t.Errorf("regiao = %v, want Rio Grande do Sul", info.Regiao)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()

		info := ValidateCEP("")
		if info.Valido {
			t.Fatal("expected invalid")
		}
		if len(info.Erros) != 1 || info.Erros[0] != "Cep deve ser uma string nao vazia" {
			t.Errorf("erros = %v", info.Erros)
		}
	})

	t.Run("wrong length", func(t *testing.T) {
		t.Parallel()

		for _, in := range []string{"123", "013101000", "abc"} {
			info := ValidateCEP(in)
			if info.Valido {
				t.Errorf("ValidateCEP(%q) should be invalid", in)
				continue
			}
			if len(info.Erros) != 1 || info.Erros[0] != "Cep deve conter exatamente 8 digitos" {
				t.Errorf("ValidateCEP(%q) erros = %v", in, info.Erros)
			}
			if info.CEPLimpo != nil || info.CEPFormatado != nil || info.Regiao != nil {
				t.Errorf("ValidateCEP(%q) should not carry derived fields", in)
			}
		}
	})
}
