package providers

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildDetectionPrompt asks a vision model for animal bounding boxes as JSON
func BuildDetectionPrompt(config Config) string {
	return fmt.Sprintf(`You are a wildlife detection system. Find every animal visible in the image.

Only report these animals (use the names exactly as written): %s.
Ignore anything you are less than %.0f%% confident about.

Respond with ONLY a JSON object in this format:

{
  "boxes": [
    {"class_name": "fox", "confidence": 0.87, "bbox": [x1, y1, x2, y2]}
  ]
}

bbox values are integer pixel coordinates of the top-left and bottom-right corners.
Return {"boxes": []} when no listed animal is visible.`,
		strings.Join(config.ClassNames, ", "),
		config.ConfThreshold*100,
	)
}

// ParseBoxes extracts the boxes from a model's JSON answer. Markdown code
// fences around the JSON are tolerated.
func ParseBoxes(response string) ([]Box, error) {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var result struct {
		Boxes []Box `json:"boxes"`
	}
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("failed to parse detection JSON: %w", err)
	}

	// vision models answer by name; the class id is unused
	for i := range result.Boxes {
		if result.Boxes[i].ClassName == "" {
			return nil, fmt.Errorf("box %d has no class_name", i)
		}
	}
	return result.Boxes, nil
}
