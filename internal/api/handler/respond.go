package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mikrobrand/mikro1/internal/domain/apperr"
)

// SuccessJSON 統一的成功回應
func SuccessJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("encode response failed")
	}
}

// ErrorJSON 統一的錯誤回應
// error欄位維持 "KIND: message"，code另外給machine-readable的分類
func ErrorJSON(w http.ResponseWriter, err error) {
	status := apperr.StatusOf(err)
	kind := apperr.KindOf(err)

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
		"code":  string(kind),
	})
}

// BadRequestJSON body解析失敗等純格式錯誤
func BadRequestJSON(w http.ResponseWriter, message string) {
	ErrorJSON(w, apperr.New(apperr.KindBadRequest, message))
}
