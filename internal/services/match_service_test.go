package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hobbies-go/internal/models"
)

func hobby(id uint, name string) *models.Hobby {
	h := &models.Hobby{Name: name}
	h.ID = id
	return h
}

func candidate(id uint, username string, hobbies ...*models.Hobby) models.User {
	u := models.User{Username: username, Hobbies: hobbies}
	u.ID = id
	return u
}

func newMatchServiceForTest(repo *mockUserRepository, today time.Time) MatchService {
	svc := NewMatchService(repo).(*matchService)
	svc.now = func() time.Time { return today }
	return svc
}

func TestListMatches_RanksByCommonHobbies(t *testing.T) {
	football := hobby(1, "足球")
	reading := hobby(2, "阅读")
	chess := hobby(3, "国际象棋")
	cooking := hobby(4, "烹饪")

	requester := &models.User{Username: "alice", Hobbies: []*models.Hobby{football, reading, chess}}
	requester.ID = 1

	repo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id uint) (*models.User, error) {
			return requester, nil
		},
		listOthersFn: func(ctx context.Context, excludeUserID uint, _, _ *time.Time) ([]models.User, error) {
			assert.Equal(t, uint(1), excludeUserID)
			return []models.User{
				candidate(2, "bob", cooking),                  // 0 个共同爱好
				candidate(3, "carol", football, reading),      // 2 个
				candidate(4, "dave", chess),                   // 1 个
				candidate(5, "erin", football, reading, chess), // 3 个
			}, nil
		},
	}

	svc := newMatchServiceForTest(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	page, err := svc.ListMatches(context.Background(), 1, MatchQuery{Page: 1})
	require.NoError(t, err)

	require.Len(t, page.Users, 4)
	assert.Equal(t, "erin", page.Users[0].Username)
	assert.Equal(t, 3, page.Users[0].CommonHobbiesCount)
	assert.Equal(t, "carol", page.Users[1].Username)
	assert.Equal(t, 2, page.Users[1].CommonHobbiesCount)
	assert.Equal(t, "dave", page.Users[2].Username)
	assert.Equal(t, "bob", page.Users[3].Username)
	assert.Equal(t, 0, page.Users[3].CommonHobbiesCount)
}

func TestListMatches_TiesKeepRepositoryOrder(t *testing.T) {
	football := hobby(1, "足球")

	requester := &models.User{Username: "alice", Hobbies: []*models.Hobby{football}}
	requester.ID = 1

	repo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id uint) (*models.User, error) {
			return requester, nil
		},
		listOthersFn: func(ctx context.Context, _ uint, _, _ *time.Time) ([]models.User, error) {
			// 所有候选计数相同，排序必须保持传入顺序
			return []models.User{
				candidate(2, "bob", football),
				candidate(3, "carol", football),
				candidate(4, "dave", football),
			}, nil
		},
	}

	svc := newMatchServiceForTest(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	page, err := svc.ListMatches(context.Background(), 1, MatchQuery{Page: 1})
	require.NoError(t, err)

	require.Len(t, page.Users, 3)
	assert.Equal(t, "bob", page.Users[0].Username)
	assert.Equal(t, "carol", page.Users[1].Username)
	assert.Equal(t, "dave", page.Users[2].Username)
}

func TestListMatches_AgeFilterCutoffs(t *testing.T) {
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	minAge, maxAge := 20, 30

	requester := &models.User{Username: "alice"}
	requester.ID = 1

	var gotBefore, gotAfter *time.Time
	repo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id uint) (*models.User, error) {
			return requester, nil
		},
		listOthersFn: func(ctx context.Context, _ uint, bornOnOrBefore, bornOnOrAfter *time.Time) ([]models.User, error) {
			gotBefore, gotAfter = bornOnOrBefore, bornOnOrAfter
			return nil, nil
		},
	}

	svc := newMatchServiceForTest(repo, today)
	_, err := svc.ListMatches(context.Background(), 1, MatchQuery{MinAge: &minAge, MaxAge: &maxAge, Page: 1})
	require.NoError(t, err)

	// 年龄按 365 天/年换算，不做日历精确计算
	require.NotNil(t, gotBefore)
	require.NotNil(t, gotAfter)
	assert.Equal(t, today.AddDate(0, 0, -20*365), *gotBefore)
	assert.Equal(t, today.AddDate(0, 0, -30*365), *gotAfter)
}

func TestListMatches_NoAgeFilterPassesNil(t *testing.T) {
	requester := &models.User{Username: "alice"}
	requester.ID = 1

	repo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id uint) (*models.User, error) {
			return requester, nil
		},
		listOthersFn: func(ctx context.Context, _ uint, bornOnOrBefore, bornOnOrAfter *time.Time) ([]models.User, error) {
			assert.Nil(t, bornOnOrBefore)
			assert.Nil(t, bornOnOrAfter)
			return nil, nil
		},
	}

	svc := newMatchServiceForTest(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	_, err := svc.ListMatches(context.Background(), 1, MatchQuery{Page: 1})
	require.NoError(t, err)
}

func TestListMatches_Pagination(t *testing.T) {
	requester := &models.User{Username: "alice"}
	requester.ID = 1

	// 25 个候选 → 3 页
	candidates := make([]models.User, 0, 25)
	for i := 0; i < 25; i++ {
		candidates = append(candidates, candidate(uint(i+2), fmt.Sprintf("user%d", i+2)))
	}

	repo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id uint) (*models.User, error) {
			return requester, nil
		},
		listOthersFn: func(ctx context.Context, _ uint, _, _ *time.Time) ([]models.User, error) {
			return candidates, nil
		},
	}
	svc := newMatchServiceForTest(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name        string
		page        int
		wantPage    int
		wantLen     int
		wantHasNext bool
	}{
		{"第一页", 1, 1, 10, true},
		{"中间页", 2, 2, 10, true},
		{"最后一页", 3, 3, 5, false},
		{"页码过大钳制到最后一页", 99, 3, 5, false},
		{"页码过小钳制到第一页", 0, 1, 10, true},
		{"负数页码钳制到第一页", -5, 1, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.ListMatches(context.Background(), 1, MatchQuery{Page: tt.page})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, 3, page.TotalPages)
			assert.Len(t, page.Users, tt.wantLen)
			assert.Equal(t, tt.wantHasNext, page.HasNext)
		})
	}
}

func TestListMatches_EmptyResultIsStillOnePage(t *testing.T) {
	requester := &models.User{Username: "alice"}
	requester.ID = 1

	repo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id uint) (*models.User, error) {
			return requester, nil
		},
		listOthersFn: func(ctx context.Context, _ uint, _, _ *time.Time) ([]models.User, error) {
			return nil, nil
		},
	}

	svc := newMatchServiceForTest(repo, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	page, err := svc.ListMatches(context.Background(), 1, MatchQuery{Page: 1})
	require.NoError(t, err)

	assert.Empty(t, page.Users)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
}
