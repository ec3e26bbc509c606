package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

func apiGet(apiURL, userID, path string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, apiURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-User-ID", userID)
	return http.DefaultClient.Do(req)
}

func runList(apiURL, userID string, out io.Writer) error {
	resp, err := apiGet(apiURL, userID, "/api/decks")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var body struct {
		Decks []struct {
			DeckID string `json:"deckId"`
			Title  string `json:"title"`
		} `json:"decks"`
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	for _, d := range body.Decks {
		fmt.Fprintf(out, "%s\t%s\n", d.DeckID, d.Title)
	}
	fmt.Fprintf(out, "%d deck(s)\n", body.Count)
	return nil
}

func runExport(apiURL, userID, deckID, format, output string, out io.Writer) error {
	resp, err := apiGet(apiURL, userID, "/api/decks/"+deckID+"/export?format="+format)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	if output == "" {
		ext := "pdf"
		if strings.Contains(resp.Header.Get("Content-Type"), "presentation") {
			ext = "pptx"
		}
		output = fmt.Sprintf("deck-%s.%s", deckID, ext)
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %d bytes to %s\n", n, output)
	return nil
}
