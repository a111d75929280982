// Command importer pushes a scraped JSON dump to a running api-server
// through the intake endpoint, in chunks, so a multi-thousand-record
// scrape does not land as one giant request.
//
// The input file has the batch payload shape:
//
//	{"manhwa": [...], "manga": [...], "chapters": [...]}
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

type dump struct {
	Manhwa   []json.RawMessage `json:"manhwa"`
	Manga    []json.RawMessage `json:"manga"`
	Chapters []json.RawMessage `json:"chapters"`
}

type counter struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

type batchResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Details string `json:"details"`
	Results struct {
		Manhwa   counter `json:"manhwa"`
		Manga    counter `json:"manga"`
		Chapters counter `json:"chapters"`
	} `json:"results"`
}

func main() {
	var (
		file  = flag.String("file", "", "path to the scraped JSON dump (required)")
		url   = flag.String("url", "http://localhost:8080/api/scraper", "intake endpoint URL")
		key   = flag.String("key", os.Getenv("MANHWAHUB_API_KEY"), "API key (defaults to MANHWAHUB_API_KEY)")
		chunk = flag.Int("chunk", 100, "items per request")
	)
	flag.Parse()

	if *file == "" {
		log.Fatal("usage: importer -file dump.json [-url ...] [-key ...] [-chunk N]")
	}
	if *key == "" {
		log.Fatal("no API key: pass -key or set MANHWAHUB_API_KEY")
	}

	b, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read dump: %v", err)
	}

	var d dump
	if err := json.Unmarshal(b, &d); err != nil {
		log.Fatalf("parse dump: %v", err)
	}

	log.Printf("dump: %d manhwa, %d manga, %d chapters", len(d.Manhwa), len(d.Manga), len(d.Chapters))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Minute}

	// Content first: chapters can only resolve parents that already
	// exist, so sending content before chapters is on us, not the
	// server.
	var totals batchResponse
	for _, part := range []struct {
		name  string
		items []json.RawMessage
	}{
		{"manhwa", d.Manhwa},
		{"manga", d.Manga},
		{"chapters", d.Chapters},
	} {
		for start := 0; start < len(part.items); start += *chunk {
			end := start + *chunk
			if end > len(part.items) {
				end = len(part.items)
			}

			resp, err := postBatch(ctx, client, *url, *key, part.name, part.items[start:end])
			if err != nil {
				log.Fatalf("send %s[%d:%d]: %v", part.name, start, end, err)
			}

			totals.Results.Manhwa.Success += resp.Results.Manhwa.Success
			totals.Results.Manhwa.Failed += resp.Results.Manhwa.Failed
			totals.Results.Manga.Success += resp.Results.Manga.Success
			totals.Results.Manga.Failed += resp.Results.Manga.Failed
			totals.Results.Chapters.Success += resp.Results.Chapters.Success
			totals.Results.Chapters.Failed += resp.Results.Chapters.Failed

			log.Printf("sent %s[%d:%d]", part.name, start, end)
		}
	}

	log.Printf("done: manhwa %d/%d failed, manga %d/%d failed, chapters %d/%d failed",
		totals.Results.Manhwa.Failed, totals.Results.Manhwa.Success+totals.Results.Manhwa.Failed,
		totals.Results.Manga.Failed, totals.Results.Manga.Success+totals.Results.Manga.Failed,
		totals.Results.Chapters.Failed, totals.Results.Chapters.Success+totals.Results.Chapters.Failed)
}

func postBatch(ctx context.Context, client *http.Client, url, key, collection string, items []json.RawMessage) (*batchResponse, error) {
	body, err := json.Marshal(map[string]any{
		"type": "batch",
		"data": map[string]any{collection: items},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", key)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post batch: %w", err)
	}
	defer resp.Body.Close()

	var out batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server said %d: %s %s", resp.StatusCode, out.Error, out.Details)
	}
	return &out, nil
}
