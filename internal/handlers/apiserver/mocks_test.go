package apiserver

import (
	"context"
	"net/http"
	"net/http/httptest"

	"hobbies-go/internal/middleware"
	"hobbies-go/internal/models"
	"hobbies-go/internal/services"
)

// 处理器测试直接 mock service 接口，跳过真实的 JWT 中间件，
// 用 withUser 把用户ID注入请求上下文。

func withUser(r *http.Request, userID uint) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	return r.WithContext(ctx)
}

func doRequest(handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler(rr, r)
	return rr
}

type mockUserService struct {
	getProfileFn    func(ctx context.Context, userID uint) (*models.UserProfile, error)
	updateProfileFn func(ctx context.Context, actorID, targetID uint, update services.ProfileUpdate) (*models.UserProfile, error)
}

func (m *mockUserService) GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	return m.getProfileFn(ctx, userID)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, actorID, targetID uint, update services.ProfileUpdate) (*models.UserProfile, error) {
	return m.updateProfileFn(ctx, actorID, targetID, update)
}

type mockMatchService struct {
	listMatchesFn func(ctx context.Context, userID uint, query services.MatchQuery) (*services.MatchPage, error)
}

func (m *mockMatchService) ListMatches(ctx context.Context, userID uint, query services.MatchQuery) (*services.MatchPage, error) {
	return m.listMatchesFn(ctx, userID, query)
}

type mockFriendRequestService struct {
	sendFn        func(ctx context.Context, fromUserID, toUserID uint) (*models.FriendRequest, error)
	respondFn     func(ctx context.Context, actorID, requestID uint, action string) error
	listPendingFn func(ctx context.Context, userID uint) ([]*models.FriendRequestWithSender, error)
	friendsFn     func(ctx context.Context, userID uint) ([]*models.UserBasicInfo, error)
}

func (m *mockFriendRequestService) Send(ctx context.Context, fromUserID, toUserID uint) (*models.FriendRequest, error) {
	return m.sendFn(ctx, fromUserID, toUserID)
}

func (m *mockFriendRequestService) Respond(ctx context.Context, actorID, requestID uint, action string) error {
	return m.respondFn(ctx, actorID, requestID, action)
}

func (m *mockFriendRequestService) ListPending(ctx context.Context, userID uint) ([]*models.FriendRequestWithSender, error) {
	if m.listPendingFn != nil {
		return m.listPendingFn(ctx, userID)
	}
	return []*models.FriendRequestWithSender{}, nil
}

func (m *mockFriendRequestService) Friends(ctx context.Context, userID uint) ([]*models.UserBasicInfo, error) {
	if m.friendsFn != nil {
		return m.friendsFn(ctx, userID)
	}
	return []*models.UserBasicInfo{}, nil
}

type mockHobbyService struct {
	getOrCreateFn func(ctx context.Context, name string) (*models.Hobby, bool, error)
	listFn        func(ctx context.Context) ([]models.HobbyInfo, error)
}

func (m *mockHobbyService) GetOrCreate(ctx context.Context, name string) (*models.Hobby, bool, error) {
	return m.getOrCreateFn(ctx, name)
}

func (m *mockHobbyService) List(ctx context.Context) ([]models.HobbyInfo, error) {
	return m.listFn(ctx)
}
