package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hobbies-go/internal/models"
	"hobbies-go/internal/storage"
)

// MatchPageSize 是用户匹配列表的固定每页条数。
const MatchPageSize = 10

// daysPerYear 年龄按每年 365 天近似换算，不做日历精确计算。
const daysPerYear = 365

// MatchQuery carries the optional filters of a user listing request.
// nil 表示调用方没有给出（或给出的值无法解析而被忽略）。
type MatchQuery struct {
	MinAge *int
	MaxAge *int
	Page   int // 无效值会被钳制到最近的有效页
}

// MatchPage is one page of ranked candidate users.
type MatchPage struct {
	Users      []models.RankedUser `json:"users"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"total_pages"`
	HasNext    bool                `json:"has_next"`
}

// MatchService 为请求用户计算按共同爱好数排序、按年龄过滤、分页的候选用户列表。
// 只读，无副作用。
type MatchService interface {
	ListMatches(ctx context.Context, userID uint, query MatchQuery) (*MatchPage, error)
}

type matchService struct {
	userRepo storage.UserRepository
	// now 可替换，便于测试固定“今天”
	now func() time.Time
}

// NewMatchService 创建一个新的 MatchService 实例。
func NewMatchService(userRepo storage.UserRepository) MatchService {
	return &matchService{userRepo: userRepo, now: time.Now}
}

// ListMatches 的执行顺序固定为：年龄过滤（SQL）→ 共同爱好计数 → 排序 → 分页。
func (s *matchService) ListMatches(ctx context.Context, userID uint, query MatchQuery) (*MatchPage, error) {
	requester, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("获取请求用户 %d 失败: %w", userID, err)
	}

	// 年龄换算成出生日期界限：min_age → 出生不晚于 today-min*365 天（至少这么大），
	// max_age → 出生不早于 today-max*365 天（至多这么大）。
	today := s.now()
	var bornOnOrBefore, bornOnOrAfter *time.Time
	if query.MinAge != nil {
		cutoff := today.AddDate(0, 0, -*query.MinAge*daysPerYear)
		bornOnOrBefore = &cutoff
	}
	if query.MaxAge != nil {
		cutoff := today.AddDate(0, 0, -*query.MaxAge*daysPerYear)
		bornOnOrAfter = &cutoff
	}

	candidates, err := s.userRepo.ListOthers(ctx, userID, bornOnOrBefore, bornOnOrAfter)
	if err != nil {
		return nil, fmt.Errorf("获取候选用户列表失败: %w", err)
	}

	ranked := rankByCommonHobbies(requester.Hobbies, candidates)
	return paginateRanked(ranked, query.Page), nil
}

// rankByCommonHobbies annotates every candidate with the number of hobbies it
// shares with the requester's hobby set and sorts descending by that count.
// 排序是稳定的：计数相同的用户保持数据库返回的先后顺序。
func rankByCommonHobbies(requesterHobbies []*models.Hobby, candidates []models.User) []models.RankedUser {
	hobbySet := make(map[uint]struct{}, len(requesterHobbies))
	for _, h := range requesterHobbies {
		hobbySet[h.ID] = struct{}{}
	}

	ranked := make([]models.RankedUser, 0, len(candidates))
	for i := range candidates {
		count := 0
		for _, h := range candidates[i].Hobbies {
			if _, ok := hobbySet[h.ID]; ok {
				count++
			}
		}
		ranked = append(ranked, models.RankedUser{
			UserProfile:        *candidates[i].Profile(),
			CommonHobbiesCount: count,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CommonHobbiesCount > ranked[j].CommonHobbiesCount
	})
	return ranked
}

// paginateRanked cuts one fixed-size page out of the ranked list.
// 无效页码钳制到最近的有效页；空结果仍算一页。
func paginateRanked(ranked []models.RankedUser, page int) *MatchPage {
	totalPages := (len(ranked) + MatchPageSize - 1) / MatchPageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * MatchPageSize
	end := start + MatchPageSize
	if start > len(ranked) {
		start = len(ranked)
	}
	if end > len(ranked) {
		end = len(ranked)
	}

	return &MatchPage{
		Users:      ranked[start:end],
		Page:       page,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
