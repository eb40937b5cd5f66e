package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"puppet-lab/errors"
	"strconv"
	"time"
)

// Client is a minimal Telegram Bot API client.
type Client struct {
	apiBase    string
	httpClient *http.Client
}

// NewClient creates a Telegram client for the given bot API base URL
// (e.g. "https://api.telegram.org/bot<token>").
func NewClient(apiBase string, requestTimeout time.Duration) *Client {
	return &Client{
		apiBase: apiBase,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Response is the generic Telegram API response wrapper.
type Response struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

type Update struct {
	UpdateID      int64    `json:"update_id"`
	Message       *Message `json:"message,omitempty"`
	EditedMessage *Message `json:"edited_message,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

type Chat struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
}

func (c Chat) IsGroup() bool {
	return c.Type == "group" || c.Type == "supergroup"
}

// Entity offsets and lengths are counted in UTF-16 code units.
type Entity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	User   *User  `json:"user,omitempty"`
}

type Message struct {
	MessageID      int64        `json:"message_id"`
	From           *User        `json:"from,omitempty"`
	Chat           Chat         `json:"chat"`
	Date           int64        `json:"date"`
	Text           string       `json:"text,omitempty"`
	Caption        string       `json:"caption,omitempty"`
	Entities       []Entity     `json:"entities,omitempty"`
	ForwardDate    int64        `json:"forward_date,omitempty"`
	ReplyToMessage *Message     `json:"reply_to_message,omitempty"`
	Photo          []struct{}   `json:"photo,omitempty"`
	Document       *Document    `json:"document,omitempty"`
	Audio          *struct{}    `json:"audio,omitempty"`
	Voice          *struct{}    `json:"voice,omitempty"`
	Video          *struct{}    `json:"video,omitempty"`
	Sticker        *struct{}    `json:"sticker,omitempty"`
	Contact        *SharedUser  `json:"contact,omitempty"`
	Location       *GeoLocation `json:"location,omitempty"`
	NewChatMembers []User       `json:"new_chat_members,omitempty"`
}

type Document struct {
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

type SharedUser struct {
	UserID    int64  `json:"user_id,omitempty"`
	FirstName string `json:"first_name"`
}

type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GetUpdates long-polls the getUpdates API for at most timeout seconds.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	var updates []Update
	params := map[string]any{
		"offset":          offset,
		"timeout":         timeout,
		"allowed_updates": []string{"message", "edited_message"},
	}
	if err := c.call(ctx, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) GetMe(ctx context.Context) (User, error) {
	var me User
	err := c.call(ctx, "getMe", map[string]any{}, &me)
	return me, err
}

// SendMessage sends a text message to the given chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, entities []Entity) (Message, error) {
	params := map[string]any{"chat_id": chatID, "text": text}
	if len(entities) > 0 {
		params["entities"] = entities
	}
	var sent Message
	err := c.call(ctx, "sendMessage", params, &sent)
	return sent, err
}

func (c *Client) SendLocation(ctx context.Context, chatID int64, latitude, longitude float64) (Message, error) {
	var sent Message
	err := c.call(ctx, "sendLocation", map[string]any{"chat_id": chatID, "latitude": latitude, "longitude": longitude}, &sent)
	return sent, err
}

func (c *Client) ForwardMessage(ctx context.Context, chatID, fromChatID, messageID int64) (Message, error) {
	var sent Message
	params := map[string]any{"chat_id": chatID, "from_chat_id": fromChatID, "message_id": messageID}
	err := c.call(ctx, "forwardMessage", params, &sent)
	return sent, err
}

// SendFile uploads data under field ("photo" or "document"), or lets Telegram fetch
// fileURL when data is empty.
func (c *Client) SendFile(ctx context.Context, chatID int64, field, name string, data []byte, fileURL string) (Message, error) {
	method := "sendDocument"
	if field == "photo" {
		method = "sendPhoto"
	}
	var sent Message
	if len(data) == 0 {
		err := c.call(ctx, method, map[string]any{"chat_id": chatID, field: fileURL}, &sent)
		return sent, err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return Message{}, err
	}
	part, err := writer.CreateFormFile(field, name)
	if err != nil {
		return Message{}, err
	}
	if _, err = part.Write(data); err != nil {
		return Message{}, err
	}
	if err = writer.Close(); err != nil {
		return Message{}, err
	}
	err = c.do(ctx, method, writer.FormDataContentType(), &body, &sent)
	return sent, err
}

func (c *Client) call(ctx context.Context, method string, params any, result any) error {
	payload, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}
	return c.do(ctx, method, "application/json", bytes.NewReader(payload), result)
}

func (c *Client) do(ctx context.Context, method, contentType string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/"+method, body)
	if err != nil {
		return fmt.Errorf("%w: telegram %s: %w", errors.ErrTransport, method, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: telegram %s request failed: %w", errors.ErrTransport, method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read %s response: %w", errors.ErrTransport, method, err)
	}
	var tgResp Response
	if err := json.Unmarshal(raw, &tgResp); err != nil {
		return fmt.Errorf("%w: failed to parse %s response: %w", errors.ErrTransport, method, err)
	}
	if !tgResp.OK {
		return fmt.Errorf("%w: telegram %s: %d %s", errors.ErrTransport, method, tgResp.ErrorCode, tgResp.Description)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(tgResp.Result, result); err != nil {
		return fmt.Errorf("%w: failed to parse %s result: %w", errors.ErrTransport, method, err)
	}
	return nil
}
