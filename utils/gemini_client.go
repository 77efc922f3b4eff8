package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/threadora/threadora-backend/config"
	"google.golang.org/api/option"
)

// GenerateOutfitImage renders a saved look using Gemini. When
// personImageURL is set the look is rendered worn by that person,
// otherwise as a styled flat lay of the items.
func GenerateOutfitImage(ctx context.Context, personImageURL string, itemImages []string, lookName, styleNotes string) ([]byte, error) {
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-3-pro-image-preview")

	var prompt string
	if personImageURL != "" {
		prompt = fmt.Sprintf(`
Dress the person in the first image in the outfit made of the product images that follow.
Keep the person exactly as they are, change only the clothing.
Outfit: %s
Styling notes: %s
`, lookName, styleNotes)
	} else {
		prompt = fmt.Sprintf(`
Compose a clean editorial flat-lay photograph of this outfit on a neutral background,
items arranged the way a stylist would present them.
Outfit: %s
Styling notes: %s
`, lookName, styleNotes)
	}

	parts := []genai.Part{genai.Text(prompt)}

	if personImageURL != "" {
		personImgData, err := fetchImage(personImageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch person image: %v", err)
		}
		parts = append(parts, genai.ImageData("jpeg", personImgData))
	}

	for _, url := range itemImages {
		if url == "" {
			continue
		}
		itemImgData, err := fetchImage(url)
		if err == nil {
			parts = append(parts, genai.ImageData("jpeg", itemImgData))
		}
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %v", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Blob:
			return p.Data, nil
		case genai.Text:
			// Text-only answers mean the model refused or fell back; surface them
			return nil, fmt.Errorf("model returned text instead of an image: %s", string(p))
		}
	}

	return nil, fmt.Errorf("unexpected response format (empty content)")
}

func fetchImage(pathOrURL string) ([]byte, error) {
	if !strings.HasPrefix(pathOrURL, "http") {
		return os.ReadFile(pathOrURL)
	}
	resp, err := http.Get(pathOrURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image, status: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
