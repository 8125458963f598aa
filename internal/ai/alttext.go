package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var ErrNoImage = errors.New("no image supplied")

const altTextPrompt = `You are an expert in writing concise and descriptive alt text for images.
Based on the image provided, generate alt text that accurately describes the image for visually impaired users and search engines.
The alt text should be descriptive, concise (ideally under 125 characters), relevant to the most important aspects of the image, and written in plain language.
Respond with a JSON object of the form {"altText": "..."} and nothing else.`

// AltTextInput is an uploaded image plus optional context from the owner.
type AltTextInput struct {
	Image       []byte
	MediaType   string
	Description string
}

type altTextOutput struct {
	AltText string `json:"altText"`
}

// DataURI encodes the image the way the vision endpoint expects it.
func (in AltTextInput) DataURI() string {
	mt := in.MediaType
	if mt == "" {
		mt = "application/octet-stream"
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(in.Image)
}

// GenerateAltText describes an image for screen readers.
func (c *Client) GenerateAltText(ctx context.Context, in AltTextInput) (string, error) {
	if len(in.Image) == 0 {
		return "", ErrNoImage
	}

	text := "Here is the image."
	if d := strings.TrimSpace(in.Description); d != "" {
		text += "\nHere is some additional context about the image:\n" + d
	}

	var out altTextOutput
	err := c.completeJSON(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: altTextPrompt},
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: text},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    in.DataURI(),
						Detail: openai.ImageURLDetailAuto,
					},
				},
			},
		},
	}, &out)
	if err != nil {
		return "", err
	}

	alt := strings.TrimSpace(out.AltText)
	if alt == "" {
		return "", ErrEmptyResponse
	}
	return alt, nil
}
