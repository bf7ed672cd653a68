package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func sendUtil(t *testing.T, h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHashEndpoint(t *testing.T) {
	t.Parallel()

	h := NewUtilHandler()

	t.Run("default algorithm", func(t *testing.T) {
		t.Parallel()

		rec := sendUtil(t, h.Hash, http.MethodGet, "/hash?text=hello", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["algorithm"] != "sha256" {
			t.Errorf("algorithm = %v", body["algorithm"])
		}
		if body["hash"] != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" {
			t.Errorf("hash = %v", body["hash"])
		}
	})

	t.Run("explicit algorithm", func(t *testing.T) {
		t.Parallel()

		rec := sendUtil(t, h.Hash, http.MethodGet, "/hash?text=hello&algorithm=md5", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if body := decodeBody(t, rec); body["hash"] != "5d41402abc4b2a76b9719d911017c592" {
			t.Errorf("hash = %v", body["hash"])
		}
	})

	t.Run("missing text", func(t *testing.T) {
		t.Parallel()

		rec := sendUtil(t, h.Hash, http.MethodGet, "/hash", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		if body := decodeBody(t, rec); body["error"] != "text is required" {
			t.Errorf("error = %v", body["error"])
		}
	})

	t.Run("bad algorithm", func(t *testing.T) {
		t.Parallel()

		rec := sendUtil(t, h.Hash, http.MethodGet, "/hash?text=hello&algorithm=rot13", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		if body := decodeBody(t, rec); body["error"] != "invalid algorithm, use one of: md5, sha1, sha256, sha512" {
			t.Errorf("error = %v", body["error"])
		}
	})
}

func TestCompareEndpoint(t *testing.T) {
	t.Parallel()

	h := NewUtilHandler()

	rec := sendUtil(t, h.Compare, http.MethodPost, "/compare",
		`{"text":"hello","hash":"5d41402abc4b2a76b9719d911017c592","algorithm":"md5"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body)
	}
	if body := decodeBody(t, rec); body["match"] != true {
		t.Errorf("match = %v", body["match"])
	}

	rec = sendUtil(t, h.Compare, http.MethodPost, "/compare",
		`{"text":"hello","hash":"wrong","algorithm":"md5"}`)
	if body := decodeBody(t, rec); body["match"] != false {
		t.Errorf("match = %v, want false", body["match"])
	}

	rec = sendUtil(t, h.Compare, http.MethodPost, "/compare", `{"text":"hello"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "text and hash are required" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestBase64Endpoints(t *testing.T) {
	t.Parallel()

	h := NewUtilHandler()

	rec := sendUtil(t, h.Base64Encode, http.MethodPost, "/base64/encode", `{"text":"hello world"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("encode status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["encoded"] != "aGVsbG8gd29ybGQ=" {
		t.Errorf("encoded = %v", body["encoded"])
	}

	rec = sendUtil(t, h.Base64Decode, http.MethodPost, "/base64/decode", `{"base64":"aGVsbG8gd29ybGQ="}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("decode status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["decoded"] != "hello world" {
		t.Errorf("decoded = %v", body["decoded"])
	}

	rec = sendUtil(t, h.Base64Decode, http.MethodPost, "/base64/decode", `{"base64":"!!!"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid input status = %d", rec.Code)
	}

	rec = sendUtil(t, h.Base64Encode, http.MethodPost, "/base64/encode", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing field status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "text is required" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestHexEndpoints(t *testing.T) {
	t.Parallel()

	h := NewUtilHandler()

	rec := sendUtil(t, h.HexEncode, http.MethodPost, "/hex/encode", `{"text":"hi"}`)
	if body := decodeBody(t, rec); body["encoded"] != "6869" {
		t.Errorf("encoded = %v", body["encoded"])
	}

	rec = sendUtil(t, h.HexDecode, http.MethodPost, "/hex/decode", `{"hex":"6869"}`)
	if body := decodeBody(t, rec); body["decoded"] != "hi" {
		t.Errorf("decoded = %v", body["decoded"])
	}

	rec = sendUtil(t, h.HexDecode, http.MethodPost, "/hex/decode", `{"hex":"zz"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid input status = %d", rec.Code)
	}
}

func TestCPFEndpoint(t *testing.T) {
	t.Parallel()

	h := NewUtilHandler()

	rec := sendUtil(t, h.CPF, http.MethodPost, "/cpf", `{"cpf":"11144477735"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["valid"] != true {
		t.Errorf("valid = %v", body["valid"])
	}
	if body["formatted"] != "111.444.777-35" {
		t.Errorf("formatted = %v", body["formatted"])
	}

	rec = sendUtil(t, h.CPF, http.MethodPost, "/cpf", `{"cpf":"11111111111"}`)
	if body := decodeBody(t, rec); body["valid"] != false {
		t.Errorf("repeated digits should be invalid")
	}
}

func TestCEPEndpoint(t *testing.T) {
	t.Parallel()

	h := NewUtilHandler()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		rec := sendUtil(t, h.CEP, http.MethodPost, "/cep", `{"cep":"01310-100"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d (body %s)", rec.Code, rec.Body)
		}
		body := decodeBody(t, rec)
		if body["valido"] != true {
			t.Errorf("valido = %v", body["valido"])
		}
		if body["cep_limpo"] != "01310100" {
			t.Errorf("cep_limpo = %v", body["cep_limpo"])
		}
		if body["cep_formatado"] != "01310-100" {
			t.Errorf("cep_formatado = %v", body["cep_formatado"])
		}
		if body["regiao"] != "Grande São Paulo" {
			t.Errorf("regiao = %v", body["regiao"])
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		rec := sendUtil(t, h.CEP, http.MethodPost, "/cep", `{"cep":"123"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		body := decodeBody(t, rec)
		if body["valido"] != false {
			t.Errorf("valido = %v", body["valido"])
		}
		erros, _ := body["erros"].([]any)
		if len(erros) != 1 || erros[0] != "Cep deve conter exatamente 8 digitos" {
			t.Errorf("erros = %v", body["erros"])
		}
	})

	t.Run("missing field", func(t *testing.T) {
		t.Parallel()

		rec := sendUtil(t, h.CEP, http.MethodPost, "/cep", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if body := decodeBody(t, rec); body["error"] != "cep is required" {
			t.Errorf("error = %v", body["error"])
		}
	})
}

func TestTimestampEndpoint(t *testing.T) {
	t.Parallel()

	h := NewUtilHandler()

	rec := sendUtil(t, h.Timestamp, http.MethodGet, "/timestamp?ts=1700000000", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["input"] != "1700000000" {
		t.Errorf("input = %v", body["input"])
	}
	if body["unix"] != float64(1700000000) {
		t.Errorf("unix = %v", body["unix"])
	}
	if body["iso"] != "2023-11-14T22:13:20.000Z" {
		t.Errorf("iso = %v", body["iso"])
	}

	// Millisecond input resolves to the same instant.
	rec = sendUtil(t, h.Timestamp, http.MethodGet, "/timestamp?ts=1700000000000", "")
	if body := decodeBody(t, rec); body["unix"] != float64(1700000000) {
		t.Errorf("ms unix = %v", body["unix"])
	}

	rec = sendUtil(t, h.Timestamp, http.MethodGet, "/timestamp?ts=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid input status = %d", rec.Code)
	}

	rec = sendUtil(t, h.Timestamp, http.MethodGet, "/timestamp", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing ts status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "ts is required" {
		t.Errorf("error = %v", body["error"])
	}
}
