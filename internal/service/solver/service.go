package solver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"psychic-poker/internal/config"
	"psychic-poker/internal/model"
	"psychic-poker/internal/service/poker"
	appErr "psychic-poker/pkg/errors"
	"psychic-poker/pkg/logger"
	"psychic-poker/pkg/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const cacheKeyPrefix = "psychic:solve:"

type Config struct {
	Workers  int
	CacheTTL time.Duration
	Persist  bool
	MaxBatch int // <= 0 means unlimited
}

func ConfigFrom(c config.SolverConfig) Config {
	return Config{
		Workers:  c.Workers,
		CacheTTL: c.CacheTTL,
		Persist:  c.Persist,
		MaxBatch: c.MaxBatch,
	}
}

// Service solves deals. Both db and rdb are optional: without rdb results
// are not cached, without db nothing is persisted.
type Service struct {
	db  *gorm.DB
	rdb *redis.Client
	cfg Config
}

func NewService(db *gorm.DB, rdb *redis.Client, cfg Config) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Service{db: db, rdb: rdb, cfg: cfg}
}

type Result struct {
	ID        int64          `json:"id,omitempty"`
	Hand      poker.Hand     `json:"hand"`
	Deck      poker.Deck     `json:"deck"`
	Best      poker.Category `json:"best"`
	Keep      []poker.Card   `json:"keep"`
	Draw      []poker.Card   `json:"draw"`
	Breakdown map[string]int `json:"breakdown"`
	Line      string         `json:"line"`
	Cached    bool           `json:"cached"`
}

type BatchResult struct {
	BatchID string    `json:"batchId"`
	Results []*Result `json:"results"`
}

// LineResult carries either a result or the reason the line was rejected.
type LineResult struct {
	Line   string  `json:"line"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

type LinesResult struct {
	BatchID string       `json:"batchId,omitempty"`
	Items   []LineResult `json:"items"`
}

type ListResult struct {
	Items []model.Solution
	Total int64
}

func newResult(d poker.Deal, a poker.Analysis) *Result {
	return &Result{
		Hand:      d.Hand,
		Deck:      d.Deck,
		Best:      a.Best,
		Keep:      a.Kept(d),
		Draw:      a.Drawn(d),
		Breakdown: a.Counts(),
		Line:      poker.FormatLine(d, a.Best),
	}
}

func (r *Result) toModel(batchID string) (model.Solution, error) {
	breakdown, err := json.Marshal(r.Breakdown)
	if err != nil {
		return model.Solution{}, err
	}
	keep := make([]string, len(r.Keep))
	for i, c := range r.Keep {
		keep[i] = c.String()
	}
	return model.Solution{
		BatchID:   batchID,
		Hand:      r.Hand.String(),
		Deck:      r.Deck.String(),
		Best:      r.Best.String(),
		BestRank:  int(r.Best),
		Keep:      strings.Join(keep, " "),
		Breakdown: datatypes.JSON(breakdown),
	}, nil
}

// Solve returns the best reachable category of one deal along with the
// play that reaches it.
func (s *Service) Solve(ctx context.Context, d poker.Deal) (*Result, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	res := s.compute(ctx, d)

	if !s.persisting() {
		return res, nil
	}
	row, err := res.toModel("")
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("persist solution: %w", err)
	}
	res.ID = row.ID
	return res, nil
}

// SolveBatch solves deals concurrently; Results[i] belongs to deals[i].
func (s *Service) SolveBatch(ctx context.Context, deals []poker.Deal) (*BatchResult, error) {
	if err := s.checkBatchSize(len(deals)); err != nil {
		return nil, err
	}
	for i, d := range deals {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("deal %d: %w", i+1, err)
		}
	}

	batch := &BatchResult{
		BatchID: uuid.NewString(),
		Results: make([]*Result, len(deals)),
	}

	pool := worker.NewPool(s.cfg.Workers)
	var submitErr error
	for i, d := range deals {
		if _, err := pool.Do(ctx, func() {
			batch.Results[i] = s.compute(ctx, d)
		}); err != nil {
			submitErr = err
			break
		}
	}
	pool.Wait()
	if submitErr != nil {
		return nil, submitErr
	}

	if err := s.persistBatch(ctx, batch); err != nil {
		return nil, err
	}
	logger.Log.Debug("batch solved",
		zap.String("batchID", batch.BatchID),
		zap.Int("deals", len(deals)),
		zap.Int("workers", s.cfg.Workers),
	)
	return batch, nil
}

// SolveLines parses raw input records and solves the well-formed ones as a
// single batch. Malformed lines are reported per item and do not fail the
// batch.
func (s *Service) SolveLines(ctx context.Context, lines []string) (*LinesResult, error) {
	if err := s.checkBatchSize(len(lines)); err != nil {
		return nil, err
	}

	out := &LinesResult{Items: make([]LineResult, len(lines))}
	deals := make([]poker.Deal, 0, len(lines))
	index := make([]int, 0, len(lines))
	for i, line := range lines {
		out.Items[i].Line = line
		d, err := poker.ParseDeal(line)
		if err != nil {
			out.Items[i].Error = err.Error()
			continue
		}
		deals = append(deals, d)
		index = append(index, i)
	}
	if len(deals) == 0 {
		return out, nil
	}

	batch, err := s.SolveBatch(ctx, deals)
	if err != nil {
		return nil, err
	}
	out.BatchID = batch.BatchID
	for j, res := range batch.Results {
		out.Items[index[j]].Result = res
	}
	return out, nil
}

func (s *Service) checkBatchSize(n int) error {
	if n == 0 {
		return appErr.ErrEmptyBatch
	}
	if s.cfg.MaxBatch > 0 && n > s.cfg.MaxBatch {
		return fmt.Errorf("%w: %d > %d", appErr.ErrBatchTooLarge, n, s.cfg.MaxBatch)
	}
	return nil
}

func (s *Service) persisting() bool {
	return s.cfg.Persist && s.db != nil
}

func (s *Service) persistBatch(ctx context.Context, batch *BatchResult) error {
	if !s.persisting() {
		return nil
	}
	rows := make([]model.Solution, len(batch.Results))
	for i, res := range batch.Results {
		row, err := res.toModel(batch.BatchID)
		if err != nil {
			return err
		}
		rows[i] = row
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&rows, 100).Error; err != nil {
		return fmt.Errorf("persist batch %s: %w", batch.BatchID, err)
	}
	for i := range rows {
		batch.Results[i].ID = rows[i].ID
	}
	return nil
}

// compute consults the cache before running the search. Cache failures
// only cost the lookup.
func (s *Service) compute(ctx context.Context, d poker.Deal) *Result {
	if res := s.lookup(ctx, d); res != nil {
		return res
	}
	res := newResult(d, poker.Analyze(d))
	s.store(ctx, d, res)
	return res
}

func cacheKey(d poker.Deal) string {
	return cacheKeyPrefix + d.Key()
}

func (s *Service) lookup(ctx context.Context, d poker.Deal) *Result {
	if s.rdb == nil {
		return nil
	}
	data, err := s.rdb.Get(ctx, cacheKey(d)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("solution cache read failed", zap.String("deal", d.Key()), zap.Error(err))
		}
		return nil
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		logger.Log.Warn("discarding corrupt cache entry", zap.String("deal", d.Key()), zap.Error(err))
		return nil
	}
	res.ID = 0
	res.Cached = true
	return &res
}

func (s *Service) store(ctx context.Context, d poker.Deal, res *Result) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, cacheKey(d), data, s.cfg.CacheTTL).Err(); err != nil {
		logger.Log.Warn("solution cache write failed", zap.String("deal", d.Key()), zap.Error(err))
	}
}

func (s *Service) GetSolution(ctx context.Context, id int64) (*model.Solution, error) {
	if s.db == nil {
		return nil, appErr.ErrStorageDisabled
	}
	var sol model.Solution
	if err := s.db.WithContext(ctx).First(&sol, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.ErrSolutionNotFound
		}
		logger.Log.Error("failed to load solution", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return &sol, nil
}

func (s *Service) ListSolutions(ctx context.Context, page, size int) (*ListResult, error) {
	if s.db == nil {
		return nil, appErr.ErrStorageDisabled
	}
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	var total int64
	if err := s.db.WithContext(ctx).
		Model(&model.Solution{}).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var items []model.Solution
	if total > 0 {
		offset := (page - 1) * size
		if err := s.db.WithContext(ctx).
			Model(&model.Solution{}).
			Order("id DESC").
			Limit(size).
			Offset(offset).
			Find(&items).Error; err != nil {
			return nil, err
		}
	}

	return &ListResult{
		Items: items,
		Total: total,
	}, nil
}

// Stats counts stored solutions per best category name.
func (s *Service) Stats(ctx context.Context) (map[string]int64, error) {
	if s.db == nil {
		return nil, appErr.ErrStorageDisabled
	}
	var rows []struct {
		Best  string
		Total int64
	}
	if err := s.db.WithContext(ctx).
		Model(&model.Solution{}).
		Select("best, count(*) AS total").
		Group("best").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(poker.Categories()))
	for _, c := range poker.Categories() {
		stats[c.String()] = 0
	}
	for _, r := range rows {
		stats[r.Best] = r.Total
	}
	return stats, nil
}

func (s *Service) DeleteSolution(ctx context.Context, id int64) error {
	if s.db == nil {
		return appErr.ErrStorageDisabled
	}
	result := s.db.WithContext(ctx).Delete(&model.Solution{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return appErr.ErrSolutionNotFound
	}
	return nil
}
