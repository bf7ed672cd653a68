package handler

import (
	"encoding/json"
	"net/http"

	"github.com/utilgate/utilgate/internal/util"
)

// UtilHandler exposes the stateless utility endpoints. All routes using
// it sit behind service auth.
type UtilHandler struct{}

// NewUtilHandler creates a new UtilHandler.
func NewUtilHandler() *UtilHandler {
	return &UtilHandler{}
}

// Hash handles GET /hash?text=...&algorithm=...
func (h *UtilHandler) Hash(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	algorithm := r.URL.Query().Get("algorithm")
	if algorithm == "" {
		algorithm = util.DefaultHashAlgorithm
	}

	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	digest, err := util.HashText(text, algorithm)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"algorithm": algorithm,
		"hash":      digest,
	})
}

// Compare handles POST /compare with body {text, hash, algorithm?}.
func (h *UtilHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text      string `json:"text"`
		Hash      string `json:"hash"`
		Algorithm string `json:"algorithm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Text == "" || req.Hash == "" {
		writeError(w, http.StatusBadRequest, "text and hash are required")
		return
	}
	if req.Algorithm == "" {
		req.Algorithm = util.DefaultHashAlgorithm
	}

	match, err := util.CompareHash(req.Text, req.Hash, req.Algorithm)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"algorithm": req.Algorithm,
		"match":     match,
	})
}

// Base64Encode handles POST /base64/encode with body {text}.
func (h *UtilHandler) Base64Encode(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeTextField(w, r, "text")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"encoded": util.EncodeBase64(text)})
}

// Base64Decode handles POST /base64/decode with body {base64}.
func (h *UtilHandler) Base64Decode(w http.ResponseWriter, r *http.Request) {
	encoded, ok := decodeTextField(w, r, "base64")
	if !ok {
		return
	}

	decoded, err := util.DecodeBase64(encoded)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"decoded": decoded})
}

// HexEncode handles POST /hex/encode with body {text}.
func (h *UtilHandler) HexEncode(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeTextField(w, r, "text")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"encoded": util.EncodeHex(text)})
}

// HexDecode handles POST /hex/decode with body {hex}.
func (h *UtilHandler) HexDecode(w http.ResponseWriter, r *http.Request) {
	encoded, ok := decodeTextField(w, r, "hex")
	if !ok {
		return
	}

	decoded, err := util.DecodeHex(encoded)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"decoded": decoded})
}

// CPF handles POST /cpf with body {cpf}.
func (h *UtilHandler) CPF(w http.ResponseWriter, r *http.Request) {
	cpf, ok := decodeTextField(w, r, "cpf")
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":     util.ValidCPF(cpf),
		"formatted": util.FormatCPF(cpf),
	})
}

// CEP handles POST /cep with body {cep}. The response envelope keeps
// its original field names, including the erros list on failure.
func (h *UtilHandler) CEP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CEP string `json:"cep"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CEP == "" {
		writeError(w, http.StatusBadRequest, "cep is required")
		return
	}

	info := util.ValidateCEP(req.CEP)
	if !info.Valido {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"valido": false,
			"erros":  info.Erros,
		})
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// Timestamp handles GET /timestamp?ts=...
func (h *UtilHandler) Timestamp(w http.ResponseWriter, r *http.Request) {
	ts := r.URL.Query().Get("ts")
	if ts == "" {
		writeError(w, http.StatusBadRequest, "ts is required")
		return
	}

	parsed, err := util.ParseTimestamp(ts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"input": ts,
		"iso":   parsed.Format("2006-01-02T15:04:05.000Z07:00"),
		"unix":  parsed.Unix(),
		"utc":   parsed.Format(http.TimeFormat),
	})
}

// decodeTextField reads a single required string field from the body,
// writing the 400 response itself when missing or malformed.
func decodeTextField(w http.ResponseWriter, r *http.Request, field string) (string, bool) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}

	value := body[field]
	if value == "" {
		writeError(w, http.StatusBadRequest, field+" is required")
		return "", false
	}
	return value, true
}
