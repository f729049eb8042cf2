package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/devhire/job-board/internal/model"
	"github.com/devhire/job-board/internal/repository"
)

// Composite weights for job recommendations. Skill fit dominates;
// location and job type only break near-ties.
const (
	weightSkills   = 0.7
	weightLocation = 0.2
	weightJobType  = 0.1
)

// JobStore is the slice of the job repository the recommender needs.
type JobStore interface {
	GetByID(ctx context.Context, id uint64) (model.Job, error)
	ListOpen(ctx context.Context) ([]model.Job, error)
	ListSorted(ctx context.Context, q repository.JobSortQuery) ([]model.Job, int64, error)
}

// CandidateStore supplies users and developer candidates with skills.
type CandidateStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
	ListDevelopers(ctx context.Context, excludeID uint64) ([]model.User, error)
}

// UserSkillStore supplies a user's held skills.
type UserSkillStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.UserSkill, error)
}

// ApplicationStore supplies the sorted-application query.
type ApplicationStore interface {
	ListSorted(ctx context.Context, q repository.ApplicationSortQuery) ([]model.Application, int64, error)
}

// Recommender scores jobs against candidates and produces paginated
// ranked result sets.
type Recommender struct {
	Users        CandidateStore
	Jobs         JobStore
	Skills       UserSkillStore
	Applications ApplicationStore
}

func NewRecommender(users CandidateStore, jobs JobStore, skills UserSkillStore, apps ApplicationStore) *Recommender {
	return &Recommender{Users: users, Jobs: jobs, Skills: skills, Applications: apps}
}

// SkillMatch scores how well held skills satisfy a job's requirements,
// normalized to [0,1]. Zero required or zero held skills is a score of 0:
// there is no basis for matching, not an error. A held skill at or above
// the required level earns full credit (3); below it earns the held
// level itself, so under-qualification is penalized but not zeroed.
func SkillMatch(required []model.JobSkill, held []model.UserSkill) float64 {
	if len(required) == 0 || len(held) == 0 {
		return 0
	}
	levels := make(map[uint64]int, len(held))
	for _, h := range held {
		levels[h.SkillID] = h.Level
	}
	total := 0
	for _, req := range required {
		lvl, ok := levels[req.SkillID]
		if !ok {
			continue
		}
		if lvl >= req.Level {
			total += model.LevelExpert
		} else {
			total += lvl
		}
	}
	return float64(total) / float64(len(required)*model.LevelExpert)
}

// ScoredJob is a job with its composite recommendation score.
type ScoredJob struct {
	Job   model.Job `json:"job"`
	Score float64   `json:"score"`
}

// ScoredCandidate is a developer with their skill-match score for a job.
type ScoredCandidate struct {
	UserID   uint64  `json:"user_id"`
	Email    string  `json:"email"`
	Location string  `json:"location"`
	Score    float64 `json:"score"`
}

// JobPage is a paginated ranked job result set.
type JobPage struct {
	Items      []ScoredJob `json:"items"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// CandidatePage is a paginated ranked candidate result set.
type CandidatePage struct {
	Items      []ScoredCandidate `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// RecommendedJobs ranks open jobs for a user by composite score:
// 0.7*skills + 0.2*location + 0.1*job type. The full set is materialized
// and sorted in memory because the score is derived, not a stored
// column; pagination slices afterwards. The sort is stable, so jobs with
// equal scores keep their retrieval order.
func (r *Recommender) RecommendedJobs(ctx context.Context, userID uint64, page, limit int) (JobPage, error) {
	u, err := r.Users.GetByID(ctx, userID)
	if err != nil {
		return JobPage{}, err
	}
	held, err := r.Skills.ListByUser(ctx, userID)
	if err != nil {
		return JobPage{}, err
	}
	jobs, err := r.Jobs.ListOpen(ctx)
	if err != nil {
		return JobPage{}, err
	}

	scored := make([]ScoredJob, len(jobs))
	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			j := jobs[i]
			score := weightSkills * SkillMatch(j.Skills, held)
			if strings.EqualFold(u.Location, j.Location) && u.Location != "" {
				score += weightLocation
			}
			if u.PreferredJobType == j.JobType && u.PreferredJobType != "" {
				score += weightJobType
			}
			scored[i] = ScoredJob{Job: j, Score: score}
		}(i)
	}
	wg.Wait()

	sort.SliceStable(scored, func(a, b int) bool { return scored[a].Score > scored[b].Score })
	items, total, totalPages, page, limit := sliceJobs(scored, page, limit)
	return JobPage{Items: items, Total: total, Page: page, Limit: limit, TotalPages: totalPages}, nil
}

// RecommendedCandidates ranks developers against a job's required skills.
// Location and job type carry no weight in this direction; the job's own
// creator is excluded from the candidate pool.
func (r *Recommender) RecommendedCandidates(ctx context.Context, jobID uint64, page, limit int) (CandidatePage, error) {
	job, err := r.Jobs.GetByID(ctx, jobID)
	if err != nil {
		return CandidatePage{}, err
	}
	devs, err := r.Users.ListDevelopers(ctx, job.UserID)
	if err != nil {
		return CandidatePage{}, err
	}

	scored := make([]ScoredCandidate, len(devs))
	var wg sync.WaitGroup
	for i := range devs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := devs[i]
			scored[i] = ScoredCandidate{
				UserID:   d.ID,
				Email:    d.Email,
				Location: d.Location,
				Score:    SkillMatch(job.Skills, d.Skills),
			}
		}(i)
	}
	wg.Wait()

	sort.SliceStable(scored, func(a, b int) bool { return scored[a].Score > scored[b].Score })
	total := len(scored)
	page, limit = clampPage(page, limit)
	totalPages := pages(total, limit)
	start, end := bounds(total, page, limit)
	return CandidatePage{
		Items:      scored[start:end],
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// SortedJobs returns one page of open jobs ordered by the requested
// field. date_posted and salary delegate to the store; skill_match is a
// derived score, so it materializes the open set and sorts in memory.
// Requesting skill_match without a user in context silently falls back
// to date_posted descending.
func (r *Recommender) SortedJobs(ctx context.Context, field, order string, page, limit int, userID uint64) (JobPage, error) {
	desc := order != "asc"
	if field == "skill_match" && userID == 0 {
		field, desc = "date_posted", true
	}
	page, limit = clampPage(page, limit)

	if field != "skill_match" {
		if field != "salary" {
			field = "date_posted"
		}
		jobs, total, err := r.Jobs.ListSorted(ctx, repository.JobSortQuery{
			Field: field, Desc: desc, Page: page, Limit: limit,
		})
		if err != nil {
			return JobPage{}, err
		}
		items := make([]ScoredJob, len(jobs))
		for i, j := range jobs {
			items[i] = ScoredJob{Job: j}
		}
		return JobPage{
			Items: items, Total: int(total), Page: page, Limit: limit,
			TotalPages: pages(int(total), limit),
		}, nil
	}

	held, err := r.Skills.ListByUser(ctx, userID)
	if err != nil {
		return JobPage{}, err
	}
	jobs, err := r.Jobs.ListOpen(ctx)
	if err != nil {
		return JobPage{}, err
	}
	scored := make([]ScoredJob, len(jobs))
	for i, j := range jobs {
		scored[i] = ScoredJob{Job: j, Score: SkillMatch(j.Skills, held)}
	}
	sort.SliceStable(scored, func(a, b int) bool {
		if desc {
			return scored[a].Score > scored[b].Score
		}
		return scored[a].Score < scored[b].Score
	})
	items, total, totalPages, page, limit := sliceJobs(scored, page, limit)
	return JobPage{Items: items, Total: total, Page: page, Limit: limit, TotalPages: totalPages}, nil
}

// ApplicationPage is a paginated application result set.
type ApplicationPage struct {
	Items      []model.Application `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}

// SortedApplications returns one page of the user's applications ordered
// by applied date or the applied job's salary.
func (r *Recommender) SortedApplications(ctx context.Context, userID uint64, field, order string, page, limit int) (ApplicationPage, error) {
	if field != "salary" {
		field = "date_posted"
	}
	page, limit = clampPage(page, limit)
	items, total, err := r.Applications.ListSorted(ctx, repository.ApplicationSortQuery{
		UserID: userID, Field: field, Desc: order != "asc", Page: page, Limit: limit,
	})
	if err != nil {
		return ApplicationPage{}, err
	}
	if items == nil {
		items = []model.Application{}
	}
	return ApplicationPage{
		Items: items, Total: int(total), Page: page, Limit: limit,
		TotalPages: pages(int(total), limit),
	}, nil
}

func sliceJobs(scored []ScoredJob, page, limit int) ([]ScoredJob, int, int, int, int) {
	total := len(scored)
	page, limit = clampPage(page, limit)
	start, end := bounds(total, page, limit)
	return scored[start:end], total, pages(total, limit), page, limit
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func pages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func bounds(total, page, limit int) (int, int) {
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}
