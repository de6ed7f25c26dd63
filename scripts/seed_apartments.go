// seed_apartments.go — standalone script to batch-score saved listing URLs via the Roost API.
//
// Usage:
//
//	go run scripts/seed_apartments.go -urls listings.txt -api http://localhost:8700
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type scoreRequest struct {
	URL string `json:"url"`
}

type scoreResponse struct {
	Status        string `json:"status"`
	MatchingPlans int    `json:"matching_plans"`
	NeedsManual   bool   `json:"needs_manual"`
}

func main() {
	urlsPath := flag.String("urls", "listings.txt", "path to a file of listing URLs, one per line")
	apiURL := flag.String("api", "http://localhost:8700", "Roost API base URL")
	dryRun := flag.Bool("dry-run", false, "print URLs without posting")
	flag.Parse()

	f, err := os.Open(*urlsPath)
	if err != nil {
		log.Fatalf("open url list: %v", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "http://") && !strings.HasPrefix(line, "https://") {
			continue
		}
		// Allow trailing notes after the URL.
		if i := strings.IndexAny(line, " \t"); i > 0 {
			line = line[:i]
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("scan url list: %v", err)
	}

	log.Printf("parsed %d listing URLs from %s", len(urls), *urlsPath)

	if *dryRun {
		for i, u := range urls {
			fmt.Printf("[%d] %s\n", i+1, u)
		}
		return
	}

	client := &http.Client{Timeout: 60 * time.Second}
	scored, manual, failed := 0, 0, 0
	for _, u := range urls {
		body, _ := json.Marshal(scoreRequest{URL: u})
		resp, err := client.Post(*apiURL+"/api/v1/score", "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("fail %s: %v", u, err)
			failed++
			continue
		}

		var sr scoreResponse
		json.NewDecoder(resp.Body).Decode(&sr)
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			log.Printf("scored %s: %d matching plans", u, sr.MatchingPlans)
			scored++
		case http.StatusUnprocessableEntity:
			log.Printf("needs manual entry: %s", u)
			manual++
		default:
			log.Printf("fail %s: status %d", u, resp.StatusCode)
			failed++
		}
	}

	log.Printf("done: %d scored, %d need manual entry, %d failed", scored, manual, failed)
}
