package api

import (
	"context"
	"io"
)

// CommandResponse is the assistant's reply to a command.
type CommandResponse struct {
	Response string `json:"response"`
	Status   string `json:"status,omitempty"`
}

// SendCommand submits a text command to the assistant.
func (c *Client) SendCommand(ctx context.Context, command string) (*CommandResponse, error) {
	body := map[string]string{"command": command}
	var out CommandResponse
	if err := c.post(ctx, "/assistant/command", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendVoiceCommand uploads recorded audio for server-side transcription.
func (c *Client) SendVoiceCommand(ctx context.Context, filename string, audio io.Reader) (*CommandResponse, error) {
	var out CommandResponse
	if err := c.postMultipart(ctx, "/assistant/voice", "audio", filename, audio, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
