package service

import (
	"context"

	"commentpulse/internal/cleaner"
	"commentpulse/internal/models"
	"commentpulse/internal/search"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn            func(context.Context, *models.Comment) error
	existsDuplicateFn   func(context.Context, string, string, string, string) (bool, error)
	existsCIDFn         func(context.Context, string, string) (bool, error)
	listAllFn           func(context.Context) ([]*models.Comment, error)
	listByProjectFn     func(context.Context, string) ([]*models.Comment, error)
	countByProjectFn    func(context.Context, string) (int64, error)
	recentCleanedFn     func(context.Context, string, int) ([]*models.Comment, error)
	listWithSentimentFn func(context.Context, string, string, int, int) ([]*models.CommentWithSentiment, error)
	countByOwnerFn      func(context.Context, string, string) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) ExistsDuplicate(ctx context.Context, pid, username, content, cleanStatus string) (bool, error) {
	return s.existsDuplicateFn(ctx, pid, username, content, cleanStatus)
}
func (s *commentRepoStub) ExistsCID(ctx context.Context, pid, cid string) (bool, error) {
	return s.existsCIDFn(ctx, pid, cid)
}
func (s *commentRepoStub) ListAll(ctx context.Context) ([]*models.Comment, error) {
	return s.listAllFn(ctx)
}
func (s *commentRepoStub) ListByProject(ctx context.Context, pid string) ([]*models.Comment, error) {
	return s.listByProjectFn(ctx, pid)
}
func (s *commentRepoStub) CountByProject(ctx context.Context, pid string) (int64, error) {
	return s.countByProjectFn(ctx, pid)
}
func (s *commentRepoStub) RecentCleaned(ctx context.Context, owner string, limit int) ([]*models.Comment, error) {
	return s.recentCleanedFn(ctx, owner, limit)
}
func (s *commentRepoStub) ListWithSentiment(ctx context.Context, pid, owner string, limit, offset int) ([]*models.CommentWithSentiment, error) {
	return s.listWithSentimentFn(ctx, pid, owner, limit, offset)
}
func (s *commentRepoStub) CountByProjectAndOwner(ctx context.Context, pid, owner string) (int64, error) {
	return s.countByOwnerFn(ctx, pid, owner)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:          func(context.Context, *models.Comment) error { return nil },
		existsDuplicateFn: func(context.Context, string, string, string, string) (bool, error) { return false, nil },
		existsCIDFn:       func(context.Context, string, string) (bool, error) { return true, nil },
		listAllFn:         func(context.Context) ([]*models.Comment, error) { return nil, nil },
		listByProjectFn:   func(context.Context, string) ([]*models.Comment, error) { return nil, nil },
		countByProjectFn:  func(context.Context, string) (int64, error) { return 0, nil },
		recentCleanedFn:   func(context.Context, string, int) ([]*models.Comment, error) { return nil, nil },
		listWithSentimentFn: func(context.Context, string, string, int, int) ([]*models.CommentWithSentiment, error) {
			return nil, nil
		},
		countByOwnerFn: func(context.Context, string, string) (int64, error) { return 0, nil },
	}
}

// projectRepoStub is a stub for repository.ProjectRepository.
type projectRepoStub struct {
	createFn       func(context.Context, *models.Project) error
	getByPIDFn     func(context.Context, string) (*models.Project, error)
	listByOwnerFn  func(context.Context, string) ([]*models.Project, error)
	listByStatusFn func(context.Context, string, string) ([]*models.Project, error)
	markSuccessFn  func(context.Context, string) error
	markFailFn     func(context.Context, string) error
	ownerByPIDFn   func(context.Context, string) (string, error)
	ownerMapFn     func(context.Context) (map[string]string, error)
}

func (s *projectRepoStub) Create(ctx context.Context, p *models.Project) error {
	return s.createFn(ctx, p)
}
func (s *projectRepoStub) GetByPID(ctx context.Context, pid string) (*models.Project, error) {
	return s.getByPIDFn(ctx, pid)
}
func (s *projectRepoStub) ListByOwner(ctx context.Context, owner string) ([]*models.Project, error) {
	return s.listByOwnerFn(ctx, owner)
}
func (s *projectRepoStub) ListByOwnerAndStatus(ctx context.Context, owner, status string) ([]*models.Project, error) {
	return s.listByStatusFn(ctx, owner, status)
}
func (s *projectRepoStub) MarkSuccess(ctx context.Context, pid string) error {
	return s.markSuccessFn(ctx, pid)
}
func (s *projectRepoStub) MarkFail(ctx context.Context, pid string) error {
	return s.markFailFn(ctx, pid)
}
func (s *projectRepoStub) OwnerByPID(ctx context.Context, pid string) (string, error) {
	return s.ownerByPIDFn(ctx, pid)
}
func (s *projectRepoStub) OwnerMap(ctx context.Context) (map[string]string, error) {
	return s.ownerMapFn(ctx)
}

func noopProjectRepo() *projectRepoStub {
	return &projectRepoStub{
		createFn:       func(context.Context, *models.Project) error { return nil },
		getByPIDFn:     func(context.Context, string) (*models.Project, error) { return &models.Project{}, nil },
		listByOwnerFn:  func(context.Context, string) ([]*models.Project, error) { return nil, nil },
		listByStatusFn: func(context.Context, string, string) ([]*models.Project, error) { return nil, nil },
		markSuccessFn:  func(context.Context, string) error { return nil },
		markFailFn:     func(context.Context, string) error { return nil },
		ownerByPIDFn:   func(context.Context, string) (string, error) { return "owner-1", nil },
		ownerMapFn:     func(context.Context) (map[string]string, error) { return map[string]string{}, nil },
	}
}

// sentimentRepoStub is a stub for repository.SentimentRepository.
type sentimentRepoStub struct {
	labelsByCIDsFn func(context.Context, []string) (map[string]int, error)
	upsertFn       func(context.Context, *models.Sentiment) error
}

func (s *sentimentRepoStub) LabelsByCIDs(ctx context.Context, cids []string) (map[string]int, error) {
	return s.labelsByCIDsFn(ctx, cids)
}
func (s *sentimentRepoStub) Upsert(ctx context.Context, sentiment *models.Sentiment) error {
	return s.upsertFn(ctx, sentiment)
}

func noopSentimentRepo() *sentimentRepoStub {
	return &sentimentRepoStub{
		labelsByCIDsFn: func(context.Context, []string) (map[string]int, error) { return map[string]int{}, nil },
		upsertFn:       func(context.Context, *models.Sentiment) error { return nil },
	}
}

// indexStub is a stub for search.Indexer.
type indexStub struct {
	ensureIndexFn func(context.Context) error
	upsertFn      func(context.Context, *search.Document) error
	searchFn      func(context.Context, *search.Filter) (int64, []search.Document, error)
	pingFn        func(context.Context) error
}

func (s *indexStub) EnsureIndex(ctx context.Context) error { return s.ensureIndexFn(ctx) }
func (s *indexStub) Upsert(ctx context.Context, doc *search.Document) error {
	return s.upsertFn(ctx, doc)
}
func (s *indexStub) Search(ctx context.Context, f *search.Filter) (int64, []search.Document, error) {
	return s.searchFn(ctx, f)
}
func (s *indexStub) Ping(ctx context.Context) error { return s.pingFn(ctx) }

func noopIndex() *indexStub {
	return &indexStub{
		ensureIndexFn: func(context.Context) error { return nil },
		upsertFn:      func(context.Context, *search.Document) error { return nil },
		searchFn: func(context.Context, *search.Filter) (int64, []search.Document, error) {
			return 0, nil, nil
		},
		pingFn: func(context.Context) error { return nil },
	}
}

// cleanerStub is a stub for CleanerClient.
type cleanerStub struct {
	cleanFn            func(context.Context, string, string, string, string) (*cleaner.CleanResponse, error)
	fileURLFn          func(string) string
	triggerSentimentFn func(context.Context, string) (string, error)
}

func (s *cleanerStub) Clean(ctx context.Context, filePath, fileName, projectName, optionsJSON string) (*cleaner.CleanResponse, error) {
	return s.cleanFn(ctx, filePath, fileName, projectName, optionsJSON)
}
func (s *cleanerStub) FileURL(outputPath string) string { return s.fileURLFn(outputPath) }
func (s *cleanerStub) TriggerSentiment(ctx context.Context, pid string) (string, error) {
	return s.triggerSentimentFn(ctx, pid)
}

func noopCleaner() *cleanerStub {
	return &cleanerStub{
		cleanFn: func(context.Context, string, string, string, string) (*cleaner.CleanResponse, error) {
			return &cleaner.CleanResponse{Status: "success"}, nil
		},
		fileURLFn:          func(p string) string { return "http://worker/" + p },
		triggerSentimentFn: func(context.Context, string) (string, error) { return "ok", nil },
	}
}

// syncerStub is a stub for projectSyncer.
type syncerStub struct {
	syncProjectFn func(context.Context, string) (*SyncResult, error)
}

func (s *syncerStub) SyncProject(ctx context.Context, pid string) (*SyncResult, error) {
	return s.syncProjectFn(ctx, pid)
}

func noopSyncer() *syncerStub {
	return &syncerStub{
		syncProjectFn: func(context.Context, string) (*SyncResult, error) { return &SyncResult{}, nil },
	}
}
