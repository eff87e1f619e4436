package lsp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

const RPC_VERSION = "2.0"

var headerSeparator = []byte("\r\n\r\n")

type Request struct {
	RPC    string `json:"jsonrpc"`
	ID     ID     `json:"id"`
	Method string `json:"method"`
}

type Response struct {
	RPC string `json:"jsonrpc"`
	ID  *ID    `json:"id"`
}

type Notification struct {
	RPC    string `json:"jsonrpc"`
	Method string `json:"method"`
}

// BaseMessage is read from every incoming message. ID is nil for notifications.
type BaseMessage struct {
	ID     *ID    `json:"id"`
	Method string `json:"method"`
}

func EncodeMessage(msg any) string {
	content, err := json.Marshal(msg)
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(content), content)
}

// DecodeMessage returns the method and the JSON body of one framed message.
func DecodeMessage(msg []byte) (string, []byte, error) {
	header, content, found := bytes.Cut(msg, headerSeparator)
	if !found {
		return "", nil, errors.New("did not find separator")
	}

	contentLength, err := parseContentLength(header)
	if err != nil {
		return "", nil, err
	}
	if contentLength > len(content) {
		return "", nil, fmt.Errorf("content shorter than Content-Length %d", contentLength)
	}

	var baseMessage BaseMessage
	if err := json.Unmarshal(content[:contentLength], &baseMessage); err != nil {
		return "", nil, err
	}

	return baseMessage.Method, content[:contentLength], nil
}

// Split is a bufio.SplitFunc yielding one complete framed message per token.
func Split(data []byte, _ bool) (advance int, token []byte, err error) {
	header, content, found := bytes.Cut(data, headerSeparator)
	if !found {
		return 0, nil, nil
	}

	contentLength, err := parseContentLength(header)
	if err != nil {
		return 0, nil, err
	}
	if len(content) < contentLength {
		return 0, nil, nil
	}

	totalLength := len(header) + len(headerSeparator) + contentLength
	return totalLength, data[:totalLength], nil
}

// The header may carry Content-Type besides Content-Length.
func parseContentLength(header []byte) (int, error) {
	for line := range bytes.SplitSeq(header, []byte("\r\n")) {
		name, value, ok := bytes.Cut(line, []byte(":"))
		if !ok || !bytes.EqualFold(bytes.TrimSpace(name), []byte("Content-Length")) {
			continue
		}
		contentLength, err := strconv.Atoi(string(bytes.TrimSpace(value)))
		if err != nil {
			return 0, fmt.Errorf("invalid Content-Length: %w", err)
		}
		return contentLength, nil
	}
	return 0, errors.New("missing Content-Length header")
}
