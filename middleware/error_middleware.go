package middleware

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"skillswap/backend/models"
)

// HTTPError 是處理器回傳的帶狀態碼錯誤
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError 建立帶狀態碼的錯誤
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// AppHandler 是會回傳錯誤的處理器型別。
// 處理器只負責回傳錯誤，轉換成 HTTP 回應的工作統一由 Handle 完成。
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// Handle 將 AppHandler 包裝成標準的 http.HandlerFunc，
// 是整個 API 唯一把錯誤轉成回應的地方
func Handle(h AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			WriteJSONError(w, httpErr.Message, httpErr.Status)
			return
		}

		// 未分類的錯誤一律視為 500，細節只記在 log，不外洩給呼叫端
		log.Printf("Unhandled error on %s %s: %v", r.Method, r.URL.Path, err)
		WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Recover 攔截處理器中的 panic，讓單一請求的意外不會弄死整個行程
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("Panic on %s %s: %v", r.Method, r.URL.Path, rec)
				WriteJSONError(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// WriteJSONError 統一發送 JSON 格式錯誤響應
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	var errorResponse models.ErrorResponse
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	errorResponse.Message = message
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("Failed to write error response: %v", err)
	}
}
