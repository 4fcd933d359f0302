package apiserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"hobbies-go/internal/services"
)

// HobbyHandler handles HTTP requests for the hobby registry.
type HobbyHandler struct {
	hobbyService services.HobbyService
}

// NewHobbyHandler creates a new HobbyHandler.
func NewHobbyHandler(hobbyService services.HobbyService) *HobbyHandler {
	return &HobbyHandler{hobbyService: hobbyService}
}

// CreateHobbyPayload defines the expected JSON body for creating a hobby.
type CreateHobbyPayload struct {
	HobbyName string `json:"hobby_name"`
}

// ListHobbiesHandler 返回全部爱好。GET /api/hobbies/
func (h *HobbyHandler) ListHobbiesHandler(w http.ResponseWriter, r *http.Request) {
	hobbies, err := h.hobbyService.List(r.Context())
	if err != nil {
		log.Printf("Error listing hobbies: %v", err)
		writeJSONError(w, "获取爱好列表失败", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{"hobbies": hobbies})
}

// CreateHobbyHandler 按名称 get-or-create 一个爱好。POST /api/hobbies/
// 新建返回 201，已存在返回 200，两者都带上爱好本身。
func (h *HobbyHandler) CreateHobbyHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateHobbyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, "请求体无效", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	hobby, created, err := h.hobbyService.GetOrCreate(r.Context(), payload.HobbyName)
	if err != nil {
		if errors.Is(err, services.ErrHobbyNameRequired) {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
		} else {
			log.Printf("Error creating hobby %q: %v", payload.HobbyName, err)
			writeJSONError(w, "创建爱好失败", http.StatusInternalServerError)
		}
		return
	}

	if created {
		writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
			"message": "爱好创建成功",
			"hobby":   hobby.Info(),
		})
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"message": "爱好已存在",
		"hobby":   hobby.Info(),
	})
}
