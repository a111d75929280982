package intake

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"

	"manhwahub/pkg/models"
)

// Counter is the per-collection outcome of a batch: counts only, no
// per-item detail. Individual failures are logged as they happen.
type Counter struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

type BatchResult struct {
	Manhwa   Counter `json:"manhwa"`
	Manga    Counter `json:"manga"`
	Chapters Counter `json:"chapters"`
}

// IngestBatch drives the single-item paths over the three independent
// collections. A bad item only fails itself: the batch always runs to
// the end. A batch of thousands of scraped records must survive its
// malformed entries.
func (s *Service) IngestBatch(ctx context.Context, batch BatchPayload) BatchResult {
	return BatchResult{
		Manhwa:   s.runItems(ctx, decodeItems(batch.Manhwa, "manhwa"), s.contentWorker(models.ContentTypeManhwa)),
		Manga:    s.runItems(ctx, decodeItems(batch.Manga, "manga"), s.contentWorker(models.ContentTypeManga)),
		Chapters: s.runItems(ctx, decodeItems(batch.Chapters, "chapters"), s.chapterWorker),
	}
}

func (s *Service) contentWorker(contentType string) func(context.Context, json.RawMessage) error {
	return func(ctx context.Context, raw json.RawMessage) error {
		var rec ContentRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		_, err := s.IngestContent(ctx, rec, contentType)
		return err
	}
}

func (s *Service) chapterWorker(ctx context.Context, raw json.RawMessage) error {
	var rec ChapterRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return err
	}
	_, err := s.IngestChapter(ctx, rec)
	return err
}

// runItems applies one item handler over a collection. With Workers<=1
// items run sequentially in input order; otherwise a fixed-size pool
// processes them, bounding concurrent load on the store. Items are
// independent, so the counters come out the same either way.
func (s *Service) runItems(ctx context.Context, items []json.RawMessage, handle func(context.Context, json.RawMessage) error) Counter {
	if len(items) == 0 {
		return Counter{}
	}

	workers := s.Workers
	if workers <= 1 || len(items) == 1 {
		var c Counter
		for _, raw := range items {
			if err := handle(ctx, raw); err != nil {
				log.Printf("[intake] batch item failed: %v", err)
				c.Failed++
				continue
			}
			c.Success++
		}
		return c
	}

	if workers > len(items) {
		workers = len(items)
	}

	var success, failed atomic.Int64
	jobs := make(chan json.RawMessage)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for raw := range jobs {
				if err := handle(ctx, raw); err != nil {
					log.Printf("[intake] batch item failed: %v", err)
					failed.Add(1)
					continue
				}
				success.Add(1)
			}
		}()
	}
	for _, raw := range items {
		jobs <- raw
	}
	close(jobs)
	wg.Wait()

	return Counter{Success: int(success.Load()), Failed: int(failed.Load())}
}
