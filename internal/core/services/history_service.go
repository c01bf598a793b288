package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/kamal-hamza/bobina/internal/core/domain"
	"github.com/kamal-hamza/bobina/internal/core/ports"
)

// DefaultMaxDays is the number of days shown when nothing is configured
const DefaultMaxDays = 5

// HistoryService computes the per-day saldo/completa series
type HistoryService struct {
	source  ports.SnapshotSource
	decoder ports.TableDecoder
}

// NewHistoryService creates a new history service
func NewHistoryService(source ports.SnapshotSource, decoder ports.TableDecoder) *HistoryService {
	return &HistoryService{
		source:  source,
		decoder: decoder,
	}
}

// HistoryRequest represents a request for the historical view
type HistoryRequest struct {
	MaxDays    int // Most recent days to keep; 0 keeps all, negative values mean 0
	MaxWorkers int // Number of concurrent workers
}

// HistoryResponse represents the daily series and its monthly rollup
type HistoryResponse struct {
	History  *domain.History
	MaxDays  int
	Selected int
	Failed   int
}

type dayJob struct {
	index     int
	selection domain.DaySelection
}

type dayResult struct {
	index  int
	metric domain.DailyMetric
}

// Execute lists the folder, keeps the last snapshot of each day and counts
// statuses in every selected file. A file that cannot be read yields a zero
// metric for its day; a listing failure fails the whole request.
func (s *HistoryService) Execute(ctx context.Context, req HistoryRequest) (*HistoryResponse, error) {
	maxDays := req.MaxDays
	if maxDays < 0 {
		maxDays = 0
	}

	entries, err := s.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	selected := domain.SelectLatestPerDay(entries, maxDays)
	if len(selected) == 0 {
		return &HistoryResponse{
			History: domain.BuildHistory(nil),
			MaxDays: maxDays,
		}, nil
	}

	// Default to 4 workers if not specified
	maxWorkers := req.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	days := s.analyseConcurrently(ctx, selected, maxWorkers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp := &HistoryResponse{
		History:  domain.BuildHistory(days),
		MaxDays:  maxDays,
		Selected: len(selected),
	}
	for _, day := range days {
		if day.Err != nil {
			resp.Failed++
		}
	}

	return resp, nil
}

// analyseConcurrently counts statuses using a worker pool; the output keeps
// the order of selected regardless of completion order
func (s *HistoryService) analyseConcurrently(ctx context.Context, selected []domain.DaySelection, maxWorkers int) []domain.DailyMetric {
	jobs := make(chan dayJob, len(selected))
	results := make(chan dayResult, len(selected))

	var wg sync.WaitGroup
	for i := 0; i < maxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(ctx, jobs, results)
		}()
	}

	for i, sel := range selected {
		jobs <- dayJob{index: i, selection: sel}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	days := make([]domain.DailyMetric, len(selected))
	for result := range results {
		days[result.index] = result.metric
	}

	return days
}

func (s *HistoryService) worker(ctx context.Context, jobs <-chan dayJob, results chan<- dayResult) {
	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- dayResult{
				index:  job.index,
				metric: domain.NewDailyMetric(job.selection, domain.StatusCounts{}, ctx.Err()),
			}
			continue
		default:
		}

		counts, err := s.analyse(ctx, job.selection.Entry)
		if err != nil {
			log.Printf("WARN: could not process %s: %v", job.selection.Entry.RelativePath, err)
			counts = domain.StatusCounts{}
		}

		results <- dayResult{
			index:  job.index,
			metric: domain.NewDailyMetric(job.selection, counts, err),
		}
	}
}

func (s *HistoryService) analyse(ctx context.Context, entry domain.FileEntry) (domain.StatusCounts, error) {
	data, err := readSnapshot(ctx, s.source, s.decoder, entry)
	if err != nil {
		return domain.StatusCounts{}, err
	}
	return domain.CountStatuses(data.Rows), nil
}
