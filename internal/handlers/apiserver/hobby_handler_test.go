package apiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hobbies-go/internal/models"
	"hobbies-go/internal/services"
)

func TestCreateHobbyHandler_CreatedVersusExisting(t *testing.T) {
	tests := []struct {
		name       string
		created    bool
		wantStatus int
	}{
		{"新建返回 201", true, http.StatusCreated},
		{"已存在返回 200", false, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hobbySvc := &mockHobbyService{
				getOrCreateFn: func(ctx context.Context, name string) (*models.Hobby, bool, error) {
					assert.Equal(t, "摄影", name)
					h := &models.Hobby{Name: name}
					h.ID = 5
					return h, tt.created, nil
				},
			}
			h := NewHobbyHandler(hobbySvc)

			body := strings.NewReader(`{"hobby_name":"摄影"}`)
			r := withUser(httptest.NewRequest(http.MethodPost, "/api/hobbies/", body), 1)
			rr := doRequest(h.CreateHobbyHandler, r)

			require.Equal(t, tt.wantStatus, rr.Code)
			var resp struct {
				Message string           `json:"message"`
				Hobby   models.HobbyInfo `json:"hobby"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, uint(5), resp.Hobby.ID)
			assert.Equal(t, "摄影", resp.Hobby.Name)
		})
	}
}

func TestCreateHobbyHandler_EmptyName(t *testing.T) {
	hobbySvc := &mockHobbyService{
		getOrCreateFn: func(ctx context.Context, name string) (*models.Hobby, bool, error) {
			return nil, false, services.ErrHobbyNameRequired
		},
	}
	h := NewHobbyHandler(hobbySvc)

	body := strings.NewReader(`{"hobby_name":""}`)
	r := withUser(httptest.NewRequest(http.MethodPost, "/api/hobbies/", body), 1)
	rr := doRequest(h.CreateHobbyHandler, r)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListHobbiesHandler(t *testing.T) {
	hobbySvc := &mockHobbyService{
		listFn: func(ctx context.Context) ([]models.HobbyInfo, error) {
			return []models.HobbyInfo{{ID: 1, Name: "足球"}, {ID: 2, Name: "阅读"}}, nil
		},
	}
	h := NewHobbyHandler(hobbySvc)

	r := withUser(httptest.NewRequest(http.MethodGet, "/api/hobbies/", nil), 1)
	rr := doRequest(h.ListHobbiesHandler, r)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Hobbies []models.HobbyInfo `json:"hobbies"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Hobbies, 2)
	assert.Equal(t, "足球", resp.Hobbies[0].Name)
}
